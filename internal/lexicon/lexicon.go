// Package lexicon holds the pronunciation table used to transcribe words
// into phonemes.
//
// Tables are read in CMU Pronouncing Dictionary format: one entry per line,
// the word followed by its phones, alternative pronunciations marked with a
// "(n)" suffix and comments starting with ";;;" or "#". Stress digits are
// removed and phones lower-cased on load, so "K AE1 T" becomes [k ae t].
package lexicon

import (
	"bufio"
	"embed"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
)

//go:embed dict/default.dict
var builtin embed.FS

// Lexicon maps lower-case words to their first listed pronunciation.
// It is read-only once built and safe for concurrent use.
type Lexicon struct {
	entries map[string][]string
}

// FromEntries builds a lexicon from an in-memory table. Phones are
// normalized the same way as parsed ones.
func FromEntries(entries map[string][]string) *Lexicon {
	l := &Lexicon{entries: make(map[string][]string, len(entries))}
	for word, phones := range entries {
		norm := make([]string, len(phones))
		for i, p := range phones {
			norm[i] = normalizePhone(p)
		}
		l.entries[strings.ToLower(word)] = norm
	}
	return l
}

// Default returns the small table compiled into the binary.
func Default() (*Lexicon, error) {
	f, err := builtin.Open("dict/default.dict")
	if err != nil {
		return nil, fmt.Errorf("opening builtin lexicon: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// LoadFile parses the dictionary at path.
func LoadFile(path string) (*Lexicon, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening lexicon: %w", err)
	}
	defer f.Close()

	lex, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return lex, nil
}

// Parse reads a CMU-format dictionary. Only the first pronunciation of each
// word is kept.
func Parse(r io.Reader) (*Lexicon, error) {
	l := &Lexicon{entries: make(map[string][]string)}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if i := strings.Index(text, "#"); i >= 0 {
			text = text[:i]
		}
		text = strings.TrimSpace(text)
		if text == "" || strings.HasPrefix(text, ";;;") {
			continue
		}

		fields := strings.Fields(text)
		if len(fields) < 2 {
			return nil, fmt.Errorf("line %d: entry %q has no phones", line, fields[0])
		}

		word := strings.ToLower(fields[0])
		if i := strings.IndexByte(word, '('); i > 0 && strings.HasSuffix(word, ")") {
			word = word[:i]
		}
		if _, seen := l.entries[word]; seen {
			continue
		}

		phones := make([]string, 0, len(fields)-1)
		for _, p := range fields[1:] {
			phones = append(phones, normalizePhone(p))
		}
		l.entries[word] = phones
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading lexicon: %w", err)
	}
	return l, nil
}

// Lookup returns the phones for word, matching case-insensitively.
// The returned slice must not be modified.
func (l *Lexicon) Lookup(word string) ([]string, bool) {
	phones, ok := l.entries[strings.ToLower(word)]
	return phones, ok
}

// Len returns the number of words in the table.
func (l *Lexicon) Len() int { return len(l.entries) }

func normalizePhone(p string) string {
	return strings.ToLower(strings.TrimRightFunc(p, unicode.IsDigit))
}
