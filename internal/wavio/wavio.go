// Package wavio reads diphone recordings from and writes synthesized speech
// to RIFF/WAVE files.
package wavio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/atsiakkas/audio-synthesizer/internal/audio"
)

const ext = ".wav"

// Dir serves diphone recordings from a folder holding one <symbol>.wav file
// per unit. It implements diphone.Source.
type Dir struct {
	Path string
}

// Symbols lists the unit symbols present in the folder.
func (d Dir) Symbols() ([]string, error) {
	entries, err := os.ReadDir(d.Path)
	if err != nil {
		return nil, fmt.Errorf("reading diphone folder: %w", err)
	}
	var out []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ext {
			continue
		}
		out = append(out, strings.TrimSuffix(name, ext))
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no %s files in %s", ext, d.Path)
	}
	return out, nil
}

// Load decodes the recording for symbol.
func (d Dir) Load(symbol string) (audio.Buffer, error) {
	return ReadFile(filepath.Join(d.Path, symbol+ext))
}

// ReadFile decodes the WAV file at path.
func ReadFile(path string) (audio.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return audio.Buffer{}, err
	}
	defer f.Close()

	buf, err := Decode(f)
	if err != nil {
		return audio.Buffer{}, fmt.Errorf("%s: %w", path, err)
	}
	return buf, nil
}

// Decode reads a PCM WAV stream into a mono 16-bit buffer. Multichannel
// audio is averaged down to one channel; other bit depths are rescaled.
func Decode(r io.ReadSeeker) (audio.Buffer, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return audio.Buffer{}, errors.New("not a valid WAV file")
	}

	pcm, err := dec.FullPCMBuffer()
	if err != nil {
		return audio.Buffer{}, fmt.Errorf("decoding samples: %w", err)
	}

	channels := int(dec.NumChans)
	if channels < 1 {
		return audio.Buffer{}, fmt.Errorf("invalid channel count %d", channels)
	}
	depth := int(dec.BitDepth)

	frames := len(pcm.Data) / channels
	out := audio.Buffer{Samples: make([]int16, frames), SampleRate: int(dec.SampleRate)}
	for i := range frames {
		sum := 0
		for c := range channels {
			sum += to16(pcm.Data[i*channels+c], depth)
		}
		out.Samples[i] = int16(sum / channels)
	}
	return out, nil
}

// to16 rescales one sample of the given bit depth to 16 bits. 8-bit WAV is
// unsigned.
func to16(v, depth int) int {
	switch {
	case depth == 8:
		return (v - 128) << 8
	case depth > 16:
		return v >> (depth - 16)
	case depth < 16:
		return v << (16 - depth)
	default:
		return v
	}
}

// Encode writes buf as a mono 16-bit PCM WAV stream.
func Encode(w io.WriteSeeker, buf audio.Buffer) error {
	data := make([]int, len(buf.Samples))
	for i, s := range buf.Samples {
		data[i] = int(s)
	}

	enc := wav.NewEncoder(w, buf.SampleRate, 16, 1, 1)
	if err := enc.Write(&goaudio.IntBuffer{
		Data:           data,
		Format:         &goaudio.Format{SampleRate: buf.SampleRate, NumChannels: 1},
		SourceBitDepth: 16,
	}); err != nil {
		return fmt.Errorf("write wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("close wav encoder: %w", err)
	}
	return nil
}

// WriteFile persists buf to path, creating or truncating it.
func WriteFile(path string, buf audio.Buffer) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := Encode(f, buf); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Bytes returns buf encoded as a complete WAV file.
func Bytes(buf audio.Buffer) ([]byte, error) {
	var w memFile
	if err := Encode(&w, buf); err != nil {
		return nil, err
	}
	return w.data, nil
}

// memFile is an in-memory io.WriteSeeker. The encoder seeks back to patch
// the RIFF header sizes once the samples are written.
type memFile struct {
	data []byte
	pos  int
}

func (m *memFile) Write(p []byte) (int, error) {
	if end := m.pos + len(p); end > len(m.data) {
		m.data = append(m.data, make([]byte, end-len(m.data))...)
	}
	n := copy(m.data[m.pos:], p)
	m.pos += n
	return n, nil
}

func (m *memFile) Seek(offset int64, whence int) (int64, error) {
	var base int
	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		base = m.pos
	case io.SeekEnd:
		base = len(m.data)
	default:
		return 0, fmt.Errorf("invalid whence %d", whence)
	}
	pos := base + int(offset)
	if pos < 0 {
		return 0, errors.New("negative position")
	}
	m.pos = pos
	return int64(pos), nil
}
