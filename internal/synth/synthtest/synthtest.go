// Package synthtest builds small in-memory engines for transport tests.
package synthtest

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/atsiakkas/audio-synthesizer/internal/audio"
	"github.com/atsiakkas/audio-synthesizer/internal/diphone"
	"github.com/atsiakkas/audio-synthesizer/internal/lexicon"
	"github.com/atsiakkas/audio-synthesizer/internal/synth"
	"github.com/atsiakkas/audio-synthesizer/internal/text"
)

// SampleRate and UnitLen describe every fixture unit: 10 ms at 16 kHz.
const (
	SampleRate = audio.DefaultSampleRate
	UnitLen    = 160
)

// Phones is the fixture phone inventory, silence included.
var Phones = []string{synth.SilencePhone, "hh", "ah", "l", "ow", "w", "er", "d", "k", "ae", "t", "ao", "g"}

// Lexicon knows "hello", "world", "cat" and "dog".
func Lexicon() *lexicon.Lexicon {
	return lexicon.FromEntries(map[string][]string{
		"hello": {"HH", "AH0", "L", "OW1"},
		"world": {"W", "ER1", "L", "D"},
		"cat":   {"K", "AE1", "T"},
		"dog":   {"D", "AO1", "G"},
	})
}

// Library holds a distinct ramp for every ordered pair of Phones.
func Library() *diphone.Library {
	units := map[string]audio.Buffer{}
	k := 0
	for _, a := range Phones {
		for _, b := range Phones {
			if a == synth.SilencePhone && b == synth.SilencePhone {
				continue
			}
			k++
			samples := make([]int16, UnitLen)
			for j := range samples {
				samples[j] = int16(k*100 + j)
			}
			units[diphone.Symbol(a, b)] = audio.Buffer{Samples: samples, SampleRate: SampleRate}
		}
	}
	return diphone.New(units)
}

// Engine returns an engine over the fixture tables with logging discarded.
func Engine(tb testing.TB, opts synth.Options) *synth.Engine {
	tb.Helper()
	spellings, err := text.DefaultSpellings()
	require.NoError(tb, err)
	e, err := synth.New(Lexicon(), spellings, Library(), opts, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(tb, err)
	return e
}
