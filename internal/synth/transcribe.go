package synth

import (
	"slices"
	"strings"

	"github.com/atsiakkas/audio-synthesizer/internal/text"
)

// Lexicon looks up the phones of a word.
type Lexicon interface {
	Lookup(word string) ([]string, bool)
}

// TranscribedWord is one normalized word with its pronunciation.
type TranscribedWord struct {
	Text     string
	Phones   []string
	Unknown  bool // no pronunciation; spoken as a pause
	Break    text.PauseClass
	Sentence int
	Emphasis bool
}

// Transcription is the phonetic form of a phrase, still grouped by word.
type Transcription struct {
	Words []TranscribedWord

	// Unknown lists the words that were replaced by pauses, in order.
	Unknown []string
}

// Phone is one element of the flat phoneme sequence: either a phone symbol
// or, when Pause is not PauseNone, a pause of that class.
type Phone struct {
	Symbol   string
	Pause    text.PauseClass
	Word     int
	Sentence int
	Text     string
	Emphasis bool

	// Substitute marks the pause standing in for an unknown word.
	Substitute bool
}

// IsPause reports whether p is a pause rather than a phone.
func (p Phone) IsPause() bool { return p.Pause != text.PauseNone }

// Transcribe maps words to phones. A word missing from lex is replaced by a
// substitute pause and recorded in Unknown, unless strict is set, in which
// case an *UnknownWordError is returned.
func Transcribe(words []text.Word, lex Lexicon, strict bool) (*Transcription, error) {
	t := &Transcription{Words: make([]TranscribedWord, 0, len(words))}
	for _, w := range words {
		tw := TranscribedWord{
			Text:     w.Text,
			Break:    w.Break,
			Sentence: w.Sentence,
			Emphasis: w.Emphasis,
		}
		phones, ok := pronounce(w.Text, lex)
		if !ok {
			if strict {
				return nil, &UnknownWordError{Word: w.Text}
			}
			tw.Unknown = true
			t.Unknown = append(t.Unknown, w.Text)
		}
		tw.Phones = phones
		t.Words = append(t.Words, tw)
	}
	return t, nil
}

// pronounce looks up text, which may hold several dictionary words when it
// is the spoken name of a character.
func pronounce(s string, lex Lexicon) ([]string, bool) {
	parts := strings.Fields(s)
	if len(parts) == 0 {
		return nil, false
	}
	var out []string
	for _, p := range parts {
		phones, ok := lex.Lookup(p)
		if !ok || len(phones) == 0 {
			return nil, false
		}
		out = append(out, phones...)
	}
	return out, true
}

// Flatten returns the phone sequence with a pause after every word that has
// a break, annotated with word and sentence indices.
func (t *Transcription) Flatten() []Phone {
	var out []Phone
	for i, w := range t.Words {
		if w.Unknown {
			out = append(out, Phone{
				Pause:      text.PauseWord,
				Word:       i,
				Sentence:   w.Sentence,
				Text:       w.Text,
				Substitute: true,
			})
		}
		for _, p := range w.Phones {
			out = append(out, Phone{
				Symbol:   p,
				Word:     i,
				Sentence: w.Sentence,
				Text:     w.Text,
				Emphasis: w.Emphasis,
			})
		}
		if w.Break != text.PauseNone {
			out = append(out, Phone{Pause: w.Break, Word: i, Sentence: w.Sentence, Text: w.Text})
		}
	}
	return out
}

// WordPhones returns each word's phones in order; unknown words yield nil.
func (t *Transcription) WordPhones() [][]string {
	out := make([][]string, len(t.Words))
	for i, w := range t.Words {
		out[i] = w.Phones
	}
	return out
}

// WithoutBreaks returns a copy with every pause between words removed and
// all words moved into one sentence, so the phrase is spoken as one run.
func (t *Transcription) WithoutBreaks() *Transcription {
	out := &Transcription{Words: slices.Clone(t.Words), Unknown: t.Unknown}
	for i := range out.Words {
		out.Words[i].Break = text.PauseNone
		out.Words[i].Sentence = 0
	}
	return out
}

// ReverseWords returns a copy with the word order reversed inside every
// sentence. Pauses between words are mirrored with them, so each boundary
// keeps its class, and a sentence's final pause stays at its end.
func (t *Transcription) ReverseWords() *Transcription {
	out := &Transcription{
		Words:   make([]TranscribedWord, len(t.Words)),
		Unknown: t.Unknown,
	}
	copy(out.Words, t.Words)

	for start := 0; start < len(out.Words); {
		end := start + 1
		for end < len(out.Words) && out.Words[end].Sentence == out.Words[start].Sentence {
			end++
		}
		reverseSentence(t.Words[start:end], out.Words[start:end])
		start = end
	}
	return out
}

func reverseSentence(src, dst []TranscribedWord) {
	n := len(src)
	for k := range n {
		dst[k] = src[n-1-k]
		if k < n-1 {
			dst[k].Break = src[n-2-k].Break
		} else {
			dst[k].Break = src[n-1].Break
		}
	}
}
