package audio

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSilence(t *testing.T) {
	b := Silence(16000, 200*time.Millisecond)
	assert.Equal(t, 3200, b.Len())
	assert.Equal(t, 200*time.Millisecond, b.Duration())
	for _, s := range b.Samples {
		require.Zero(t, s)
	}

	assert.Zero(t, Silence(16000, 0).Len())
	assert.Zero(t, Silence(16000, -time.Second).Len())
}

func TestReverseTwiceRestoresOriginal(t *testing.T) {
	b := Buffer{Samples: []int16{1, -2, 3, -4, 5}, SampleRate: 8000}
	orig := b.Clone()

	b.Reverse()
	assert.Equal(t, []int16{5, -4, 3, -2, 1}, b.Samples)

	b.Reverse()
	assert.Equal(t, orig.Samples, b.Samples)
}

func TestScaleVolume(t *testing.T) {
	tests := []struct {
		name    string
		percent int
		in      []int16
		want    []int16
	}{
		{"silence", 0, []int16{100, -100}, []int16{0, 0}},
		{"identity", 100, []int16{100, -100}, []int16{100, -100}},
		{"half", 50, []int16{100, -101}, []int16{50, -51}},
		{"clipped", 300, []int16{20000, -20000}, []int16{math.MaxInt16, math.MinInt16}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Buffer{Samples: append([]int16(nil), tt.in...), SampleRate: 16000}
			b.ScaleVolume(tt.percent)
			assert.Equal(t, tt.want, b.Samples)
		})
	}
}

func TestScaleHalfThenDoubleRoundTrips(t *testing.T) {
	in := []int16{0, 1, -1, 7, -7, 1234, -1234, 16000, -16000, 32767, -32768}
	b := Buffer{Samples: append([]int16(nil), in...), SampleRate: 16000}

	b.ScaleVolume(50)
	b.ScaleVolume(200)

	for i := range in {
		assert.InDelta(t, in[i], b.Samples[i], 1, "sample %d", i)
	}
}

func TestScaleIsMonotoneInPercent(t *testing.T) {
	prev := -1
	for _, p := range []int{0, 10, 50, 100, 150, 400} {
		b := Buffer{Samples: []int16{1000}, SampleRate: 16000}
		b.ScaleVolume(p)
		assert.GreaterOrEqual(t, int(b.Samples[0]), prev)
		prev = int(b.Samples[0])
	}
}

func TestNormalizePeak(t *testing.T) {
	s := []int16{-1, 2, 0}
	NormalizePeak(s)
	assert.Equal(t, []int16{-16384, math.MaxInt16, 0}, s)

	zeros := []int16{0, 0}
	NormalizePeak(zeros)
	assert.Equal(t, []int16{0, 0}, zeros)
}
