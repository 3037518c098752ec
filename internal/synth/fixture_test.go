package synth

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/atsiakkas/audio-synthesizer/internal/audio"
	"github.com/atsiakkas/audio-synthesizer/internal/diphone"
	"github.com/atsiakkas/audio-synthesizer/internal/lexicon"
	"github.com/atsiakkas/audio-synthesizer/internal/text"
)

const (
	testRate    = 1000 // 1 sample per millisecond keeps the arithmetic readable
	testUnitLen = 40
)

var testPhones = []string{SilencePhone, "k", "ae", "t", "d", "ao", "g", "ey", "ch", "ay", "hh"}

func testLexicon() *lexicon.Lexicon {
	return lexicon.FromEntries(map[string][]string{
		"cat":   {"K", "AE1", "T"},
		"dog":   {"D", "AO1", "G"},
		"aitch": {"EY1", "CH"},
		"eye":   {"AY1"},
		"hi":    {"HH", "AY1"},
	})
}

// testUnits returns a unit for every ordered phone pair. Each unit has its
// own sample values so concatenation order is visible in the output.
func testUnits() map[string]audio.Buffer {
	units := map[string]audio.Buffer{}
	k := 0
	for _, a := range testPhones {
		for _, b := range testPhones {
			if a == SilencePhone && b == SilencePhone {
				continue
			}
			k++
			samples := make([]int16, testUnitLen)
			for j := range samples {
				samples[j] = int16(k*100 + j + 1)
			}
			units[diphone.Symbol(a, b)] = audio.Buffer{Samples: samples, SampleRate: testRate}
		}
	}
	return units
}

func testLibrary() *diphone.Library {
	return diphone.New(testUnits())
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEngine(t *testing.T, opts Options) *Engine {
	t.Helper()
	return newTestEngineWithUnits(t, testLibrary(), opts)
}

func newTestEngineWithUnits(t *testing.T, units UnitSource, opts Options) *Engine {
	t.Helper()
	spellings, err := text.DefaultSpellings()
	require.NoError(t, err)
	e, err := New(testLexicon(), spellings, units, opts, discardLogger())
	require.NoError(t, err)
	return e
}

// concat joins the library recordings for symbols without any blending.
func concat(t *testing.T, lib *diphone.Library, symbols ...string) []int16 {
	t.Helper()
	var out []int16
	for _, sym := range symbols {
		b, ok := lib.Lookup(sym)
		require.True(t, ok, sym)
		out = append(out, b.Samples...)
	}
	return out
}
