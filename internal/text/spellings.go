package text

import (
	_ "embed"
	"fmt"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

//go:embed spellings.yaml
var builtinSpellings []byte

// Spellings maps single characters to the words that name them.
type Spellings struct {
	names map[rune]string
}

// DefaultSpellings returns the built-in English character names.
func DefaultSpellings() (*Spellings, error) {
	return ParseSpellings(builtinSpellings)
}

// ParseSpellings decodes a YAML mapping of character to name.
func ParseSpellings(data []byte) (*Spellings, error) {
	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing spellings: %w", err)
	}

	s := &Spellings{names: make(map[rune]string, len(raw))}
	for key, name := range raw {
		r, size := utf8.DecodeRuneInString(key)
		if size == 0 || size != len(key) {
			return nil, fmt.Errorf("spelling key %q must be a single character", key)
		}
		if name == "" {
			return nil, fmt.Errorf("spelling for %q is empty", key)
		}
		s.names[r] = name
	}
	return s, nil
}

// Name returns the spoken name of r.
func (s *Spellings) Name(r rune) (string, bool) {
	if s == nil {
		return "", false
	}
	name, ok := s.names[r]
	return name, ok
}
