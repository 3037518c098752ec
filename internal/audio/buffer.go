// Package audio defines the mono 16-bit sample buffer shared by the
// synthesizer pipeline and the transforms that operate on it.
package audio

import (
	"math"
	"time"
)

// DefaultSampleRate is the rate of the stock diphone recordings (16 kHz).
const DefaultSampleRate = 16000

// Buffer is an ordered sequence of mono PCM samples at a fixed rate.
type Buffer struct {
	Samples    []int16
	SampleRate int
}

// New returns an empty buffer at the given rate with room for capacity samples.
func New(sampleRate, capacity int) Buffer {
	return Buffer{Samples: make([]int16, 0, capacity), SampleRate: sampleRate}
}

// Silence returns a zero-filled buffer lasting d at the given rate.
func Silence(sampleRate int, d time.Duration) Buffer {
	return Buffer{Samples: make([]int16, SamplesFor(sampleRate, d)), SampleRate: sampleRate}
}

// SamplesFor converts a duration into a whole number of samples.
func SamplesFor(sampleRate int, d time.Duration) int {
	if d <= 0 || sampleRate <= 0 {
		return 0
	}
	return int(int64(sampleRate) * int64(d) / int64(time.Second))
}

// Len returns the number of samples.
func (b Buffer) Len() int { return len(b.Samples) }

// Duration returns the playing time of the buffer.
func (b Buffer) Duration() time.Duration {
	if b.SampleRate <= 0 {
		return 0
	}
	return time.Duration(int64(len(b.Samples)) * int64(time.Second) / int64(b.SampleRate))
}

// Clone returns a deep copy.
func (b Buffer) Clone() Buffer {
	out := make([]int16, len(b.Samples))
	copy(out, b.Samples)
	return Buffer{Samples: out, SampleRate: b.SampleRate}
}

// Reverse reverses the sample order in place.
func (b Buffer) Reverse() {
	s := b.Samples
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// Scale multiplies every sample by gain in place, rounding to the nearest
// integer and clamping to the int16 range.
func (b Buffer) Scale(gain float64) {
	ScaleRange(b.Samples, gain)
}

// ScaleVolume applies a percentage gain (100 leaves the buffer unchanged).
func (b Buffer) ScaleVolume(percent int) {
	if percent == 100 {
		return
	}
	b.Scale(float64(percent) / 100)
}

// ScaleRange applies gain to a slice of samples in place.
func ScaleRange(samples []int16, gain float64) {
	for i, s := range samples {
		samples[i] = Clamp(math.Round(float64(s) * gain))
	}
}

// NormalizePeak rescales samples in place so that the loudest one reaches
// full scale. Silent input is left untouched.
func NormalizePeak(samples []int16) {
	peak := 0
	for _, s := range samples {
		v := int(s)
		if v < 0 {
			v = -v
		}
		if v > peak {
			peak = v
		}
	}
	if peak == 0 {
		return
	}
	ScaleRange(samples, float64(math.MaxInt16)/float64(peak))
}

// Clamp converts v to int16, saturating at the representable bounds.
func Clamp(v float64) int16 {
	switch {
	case v > math.MaxInt16:
		return math.MaxInt16
	case v < math.MinInt16:
		return math.MinInt16
	default:
		return int16(v)
	}
}
