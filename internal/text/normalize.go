// Package text turns raw input into the normalized words the phonetic
// transcriber consumes, recording where pauses belong along the way.
package text

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// PauseClass is the strength of a boundary between two words.
type PauseClass int

const (
	PauseNone PauseClass = iota
	PauseWord
	PauseClause
	PauseSentence
)

func (c PauseClass) String() string {
	switch c {
	case PauseNone:
		return "none"
	case PauseWord:
		return "word"
	case PauseClause:
		return "clause"
	case PauseSentence:
		return "sentence"
	default:
		return "unknown"
	}
}

// Word is one normalized token ready for pronunciation lookup.
type Word struct {
	// Text is the lower-case lookup key. Spelled characters carry their
	// name here, which may span several dictionary words.
	Text string

	// Sentence is the zero-based index of the sentence the word belongs to.
	Sentence int

	// Emphasis is set for words written inside {braces}.
	Emphasis bool

	// Break is the pause that follows the word. Every word but the last has
	// at least PauseWord; the last keeps whatever terminal punctuation gave it.
	Break PauseClass
}

// Normalizer splits phrases into words.
type Normalizer struct {
	spellings *Spellings
	fold      transform.Transformer
}

// NewNormalizer returns a normalizer that names characters with s.
func NewNormalizer(s *Spellings) *Normalizer {
	return &Normalizer{
		spellings: s,
		fold:      transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
	}
}

// Normalize lower-cases phrase, strips accents and punctuation, and returns
// its words. With spell set, every letter becomes its own word holding the
// letter's name. It never fails; input with nothing pronounceable yields an
// empty slice.
func (n *Normalizer) Normalize(phrase string, spell bool) []Word {
	folded, _, err := transform.String(n.fold, phrase)
	if err != nil {
		folded = phrase
	}

	st := &scanState{}
	for _, r := range strings.ToLower(strings.TrimSpace(folded)) {
		switch {
		case unicode.IsLetter(r):
			if !spell {
				st.cur.WriteRune(r)
				continue
			}
			if name, ok := n.spellings.Name(r); ok {
				st.emit(name)
			} else {
				st.boundary(PauseWord)
			}

		case r == '\'' || r == '’':
			// Kept inside words ("don't"); ignored elsewhere.
			if !spell && st.cur.Len() > 0 {
				st.cur.WriteRune('\'')
			}

		case unicode.IsSpace(r):
			// Spelled words are kept apart by a full stop's silence but
			// stay in the same sentence.
			if spell {
				st.boundary(PauseSentence)
			} else {
				st.boundary(PauseWord)
			}

		case r == '{':
			st.boundary(PauseWord)
			st.emphasis = true

		case r == '}':
			st.boundary(PauseWord)
			st.emphasis = false

		case r == ',' || r == ';' || r == ':':
			st.boundary(PauseClause)

		case r == '.' || r == '!' || r == '?':
			st.boundary(PauseSentence)
			if len(st.words) > 0 {
				st.advance = true
			}

		default:
			if name, ok := n.spellings.Name(r); ok {
				st.flush()
				st.emit(name)
				continue
			}
			st.boundary(PauseWord)
		}
	}
	st.flush()

	// Trailing separators only count when they are real punctuation.
	if last := len(st.words) - 1; last >= 0 && st.pending > PauseWord {
		st.words[last].Break = st.pending
	}
	return st.words
}

type scanState struct {
	words    []Word
	cur      strings.Builder
	pending  PauseClass
	sentence int
	advance  bool
	emphasis bool
}

// boundary ends the current word and records a pause of at least class c
// before the next one. Boundaries ahead of the first word are dropped.
func (s *scanState) boundary(c PauseClass) {
	s.flush()
	if len(s.words) == 0 {
		return
	}
	if c > s.pending {
		s.pending = c
	}
}

func (s *scanState) flush() {
	if s.cur.Len() == 0 {
		return
	}
	w := strings.Trim(s.cur.String(), "'")
	s.cur.Reset()
	if w != "" {
		s.emit(w)
	}
}

func (s *scanState) emit(w string) {
	if n := len(s.words); n > 0 {
		s.words[n-1].Break = max(s.pending, PauseWord)
	}
	if s.advance {
		s.sentence++
		s.advance = false
	}
	s.words = append(s.words, Word{Text: w, Sentence: s.sentence, Emphasis: s.emphasis})
	s.pending = PauseNone
}

// SplitSentences breaks a multi-sentence text into sentences at terminal
// punctuation followed by whitespace, and at blank lines.
func SplitSentences(s string) []string {
	var (
		out   []string
		start int
	)
	rs := []rune(s)
	cut := func(end int) {
		if sentence := strings.TrimSpace(string(rs[start:end])); sentence != "" {
			out = append(out, sentence)
		}
		start = end
	}

	for i := 0; i < len(rs); i++ {
		switch rs[i] {
		case '.', '!', '?':
			j := i + 1
			for j < len(rs) && strings.ContainsRune(".!?\"')]’”", rs[j]) {
				j++
			}
			if j == len(rs) || unicode.IsSpace(rs[j]) {
				cut(j)
				i = j - 1
			}
		case '\n':
			j := i + 1
			for j < len(rs) && (rs[j] == ' ' || rs[j] == '\t' || rs[j] == '\r') {
				j++
			}
			if j < len(rs) && rs[j] == '\n' {
				cut(j)
				i = j
			}
		}
	}
	cut(len(rs))
	return out
}
