package synth

import (
	"slices"

	"github.com/atsiakkas/audio-synthesizer/internal/diphone"
	"github.com/atsiakkas/audio-synthesizer/internal/text"
)

// SilencePhone is the boundary phone that opens and closes every run of
// speech, so that phrase edges and pauses are covered by recorded units.
const SilencePhone = "pau"

// ElementKind discriminates plan elements.
type ElementKind int

const (
	KindUnit ElementKind = iota
	KindPause
)

// Element is one step of an utterance plan.
type Element struct {
	Kind ElementKind

	// First and Second name the diphone of a unit element.
	First, Second string

	// Pause is the class of a pause element.
	Pause text.PauseClass

	// Substitute marks a pause spoken in place of an unknown word.
	Substitute bool

	Word     int
	Sentence int
	Text     string
	Emphasis bool
}

// Symbol returns the diphone symbol of a unit, or "" for a pause.
func (e Element) Symbol() string {
	if e.Kind != KindUnit {
		return ""
	}
	return diphone.Symbol(e.First, e.Second)
}

// Plan is the ordered sequence of units and pauses for one utterance.
type Plan struct {
	Elements []Element
}

// Units returns the diphone symbols in plan order.
func (p Plan) Units() []string {
	var out []string
	for _, e := range p.Elements {
		if e.Kind == KindUnit {
			out = append(out, e.Symbol())
		}
	}
	return out
}

// UnitCount returns the number of unit elements.
func (p Plan) UnitCount() int {
	n := 0
	for _, e := range p.Elements {
		if e.Kind == KindUnit {
			n++
		}
	}
	return n
}

// ReversePhoneOrder returns a copy of phones in reverse order, so that
// segmenting the result speaks the phrase backwards phone by phone. A
// trailing pause stays at the end.
func ReversePhoneOrder(phones []Phone) []Phone {
	out := slices.Clone(phones)
	body := out
	if n := len(out); n > 0 && out[n-1].IsPause() {
		body = out[:n-1]
	}
	slices.Reverse(body)
	return out
}

// Segment turns a phone sequence into a plan. Each pair of neighbouring
// phones becomes one unit and every run of phones is bracketed by units to
// and from SilencePhone. Pauses are carried over as pause elements.
//
// With linkWords, a plain word pause between two pronounced words is
// dropped and the words are joined by a cross-word unit that belongs to
// the earlier word.
func Segment(phones []Phone, linkWords bool) Plan {
	var (
		out      []Element
		prev     = Phone{Symbol: SilencePhone}
		speaking bool
	)
	unit := func(first, second string, owner Phone) Element {
		return Element{
			Kind:     KindUnit,
			First:    first,
			Second:   second,
			Word:     owner.Word,
			Sentence: owner.Sentence,
			Text:     owner.Text,
			Emphasis: owner.Emphasis,
		}
	}

	for i, p := range phones {
		if p.IsPause() {
			if linkWords && speaking && p.Pause == text.PauseWord && !p.Substitute &&
				i+1 < len(phones) && !phones[i+1].IsPause() {
				continue
			}
			if speaking {
				out = append(out, unit(prev.Symbol, SilencePhone, prev))
			}
			out = append(out, Element{
				Kind:       KindPause,
				Pause:      p.Pause,
				Substitute: p.Substitute,
				Word:       p.Word,
				Sentence:   p.Sentence,
				Text:       p.Text,
			})
			prev, speaking = Phone{Symbol: SilencePhone}, false
			continue
		}

		owner := p
		if speaking {
			owner = prev
		}
		out = append(out, unit(prev.Symbol, p.Symbol, owner))
		prev, speaking = p, true
	}
	if speaking {
		out = append(out, unit(prev.Symbol, SilencePhone, prev))
	}
	return Plan{Elements: out}
}
