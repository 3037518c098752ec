package synth

import (
	"github.com/atsiakkas/audio-synthesizer/internal/audio"
)

// UnitSource resolves diphone symbols to recorded waveforms.
type UnitSource interface {
	Lookup(symbol string) (audio.Buffer, bool)
	SampleRate() int
}

// Assembler renders a plan into one contiguous buffer.
type Assembler struct {
	units UnitSource
	opts  Options
}

// NewAssembler returns an assembler reading units from src.
func NewAssembler(src UnitSource, opts Options) *Assembler {
	return &Assembler{units: src, opts: opts}
}

// span is a half-open sample range of the output.
type span struct {
	start, end int
}

// Assemble concatenates the plan's units and pauses in order. Every unit is
// resolved before any samples are produced, so a missing unit or a rate
// mismatch fails the whole plan.
func (a *Assembler) Assemble(plan Plan) (audio.Buffer, error) {
	resolved := make([]audio.Buffer, len(plan.Elements))
	rate := 0
	total := 0
	for i, e := range plan.Elements {
		if e.Kind != KindUnit {
			continue
		}
		sym := e.Symbol()
		buf, ok := a.units.Lookup(sym)
		if !ok {
			return audio.Buffer{}, &UnitNotFoundError{Symbol: sym, Word: e.Text}
		}
		if rate == 0 {
			rate = buf.SampleRate
		} else if buf.SampleRate != rate {
			return audio.Buffer{}, &SampleRateMismatchError{Symbol: sym, Want: rate, Got: buf.SampleRate}
		}
		resolved[i] = buf
		total += buf.Len()
	}
	if rate == 0 {
		rate = a.units.SampleRate()
	}

	out := audio.New(rate, total)
	var (
		prev     = -1 // index of the unit the output currently ends with
		emphasis []span
		open     = -1 // index into emphasis of the span being extended
	)
	for i, e := range plan.Elements {
		if e.Kind == KindPause {
			d := a.opts.Pauses.For(e.Pause)
			if e.Substitute {
				d = a.opts.Pauses.Unknown
			}
			out.Samples = append(out.Samples, make([]int16, audio.SamplesFor(rate, d))...)
			prev, open = -1, -1
			continue
		}

		unit := resolved[i].Samples
		start := len(out.Samples)
		n := 0
		if a.opts.Crossfade && prev >= 0 {
			n = a.Overlap(len(resolved[prev].Samples), len(unit), rate)
		}
		if n > 0 {
			start -= n
			blend(out.Samples[start:], unit[:n])
			out.Samples = append(out.Samples, unit[n:]...)
		} else {
			out.Samples = append(out.Samples, unit...)
		}

		if e.Emphasis {
			if open >= 0 && sameWord(plan.Elements[prev], e) {
				emphasis[open].end = len(out.Samples)
			} else {
				emphasis = append(emphasis, span{start: start, end: len(out.Samples)})
				open = len(emphasis) - 1
			}
		} else {
			open = -1
		}
		prev = i
	}

	for _, s := range emphasis {
		audio.NormalizePeak(out.Samples[s.start:s.end])
	}
	return out, nil
}

// Overlap returns the number of samples shared by two adjacent units of the
// given lengths when cross-fading at rate.
func (a *Assembler) Overlap(prevLen, nextLen, rate int) int {
	n := audio.SamplesFor(rate, a.opts.Fade.Duration)
	limit := int(a.opts.Fade.MaxFraction * float64(min(prevLen, nextLen)))
	return max(min(n, limit), 0)
}

// blend mixes head into tail with a linear ramp, in place. The outgoing
// tail's weight falls from 1 to 0 while the incoming head's rises from 0 to 1.
func blend(tail, head []int16) {
	n := len(head)
	for i := range n {
		w := 0.5
		if n > 1 {
			w = float64(i) / float64(n-1)
		}
		tail[i] = audio.Clamp(float64(tail[i])*(1-w) + float64(head[i])*w)
	}
}

func sameWord(a, b Element) bool {
	return a.Sentence == b.Sentence && a.Word == b.Word
}
