package wavio

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atsiakkas/audio-synthesizer/internal/audio"
	"github.com/atsiakkas/audio-synthesizer/internal/diphone"
)

func TestBytesDecodes(t *testing.T) {
	in := audio.Buffer{Samples: []int16{0, 1, -1, 32767, -32768, 1234}, SampleRate: 16000}

	data, err := Bytes(in)
	require.NoError(t, err)
	assert.Equal(t, "RIFF", string(data[:4]))
	assert.Equal(t, "WAVE", string(data[8:12]))

	out, err := Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestDecodeDownmixesStereo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stereo.wav")
	f, err := os.Create(path)
	require.NoError(t, err)

	enc := wav.NewEncoder(f, 8000, 16, 2, 1)
	require.NoError(t, enc.Write(&goaudio.IntBuffer{
		Data:           []int{100, 300, -50, -150},
		Format:         &goaudio.Format{SampleRate: 8000, NumChannels: 2},
		SourceBitDepth: 16,
	}))
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())

	buf, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 8000, buf.SampleRate)
	assert.Equal(t, []int16{200, -100}, buf.Samples)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte("definitely not a wav file")))
	assert.Error(t, err)
}

func TestDirFeedsLibrary(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteFile(filepath.Join(dir, "pau-k.wav"), audio.Buffer{Samples: []int16{1, 2}, SampleRate: 16000}))
	require.NoError(t, WriteFile(filepath.Join(dir, "k-pau.wav"), audio.Buffer{Samples: []int16{3}, SampleRate: 16000}))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.txt"), []byte("ignored"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.wav"), 0o755))

	src := Dir{Path: dir}
	symbols, err := src.Symbols()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"pau-k", "k-pau"}, symbols)

	lib, err := diphone.Load(context.Background(), src, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	assert.Equal(t, 2, lib.Len())
	assert.Equal(t, 16000, lib.SampleRate())

	b, ok := lib.Lookup("pau-k")
	require.True(t, ok)
	assert.Equal(t, []int16{1, 2}, b.Samples)
}

func TestDirEmpty(t *testing.T) {
	_, err := Dir{Path: t.TempDir()}.Symbols()
	assert.Error(t, err)

	_, err = Dir{Path: filepath.Join(t.TempDir(), "missing")}.Symbols()
	assert.Error(t, err)
}

func TestTo16(t *testing.T) {
	assert.Equal(t, -32768, to16(0, 8))
	assert.Equal(t, 0, to16(128, 8))
	assert.Equal(t, 1, to16(256, 24))
	assert.Equal(t, 1000, to16(1000, 16))
}
