package diphone

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atsiakkas/audio-synthesizer/internal/audio"
)

type mapSource struct {
	units map[string]audio.Buffer
	fail  string
}

func (m mapSource) Symbols() ([]string, error) {
	out := make([]string, 0, len(m.units))
	for k := range m.units {
		out = append(out, k)
	}
	return out, nil
}

func (m mapSource) Load(symbol string) (audio.Buffer, error) {
	if symbol == m.fail {
		return audio.Buffer{}, errors.New("corrupt file")
	}
	return m.units[symbol], nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoad(t *testing.T) {
	src := mapSource{units: map[string]audio.Buffer{
		"pau-k": {Samples: []int16{1, 2}, SampleRate: 8000},
		"k-ae":  {Samples: []int16{3}, SampleRate: 8000},
	}}

	lib, err := Load(context.Background(), src, discardLogger())
	require.NoError(t, err)

	assert.Equal(t, 2, lib.Len())
	assert.Equal(t, 8000, lib.SampleRate())
	assert.Equal(t, []string{"k-ae", "pau-k"}, lib.Symbols())

	b, ok := lib.Lookup("pau-k")
	require.True(t, ok)
	assert.Equal(t, []int16{1, 2}, b.Samples)

	_, ok = lib.Lookup("k-k")
	assert.False(t, ok)
}

func TestLoadPropagatesSourceErrors(t *testing.T) {
	src := mapSource{
		units: map[string]audio.Buffer{"pau-k": {SampleRate: 8000}},
		fail:  "pau-k",
	}
	_, err := Load(context.Background(), src, discardLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"pau-k"`)
}

func TestNewMixedRatesFallsBackToDefault(t *testing.T) {
	lib := New(map[string]audio.Buffer{
		"a-b": {SampleRate: 8000},
		"b-c": {SampleRate: 22050},
	})
	assert.Equal(t, audio.DefaultSampleRate, lib.SampleRate())

	assert.Equal(t, audio.DefaultSampleRate, New(nil).SampleRate())
}

func TestSymbol(t *testing.T) {
	assert.Equal(t, "k-ae", Symbol("k", "ae"))

	first, second, ok := Split("pau-k")
	require.True(t, ok)
	assert.Equal(t, "pau", first)
	assert.Equal(t, "k", second)
}
