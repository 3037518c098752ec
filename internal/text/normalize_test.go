package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNormalizer(t *testing.T) *Normalizer {
	t.Helper()
	s, err := DefaultSpellings()
	require.NoError(t, err)
	return NewNormalizer(s)
}

func texts(words []Word) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = w.Text
	}
	return out
}

func TestNormalizeWords(t *testing.T) {
	n := newTestNormalizer(t)

	words := n.Normalize("Hello, World! The cat's café.", false)
	require.Equal(t, []string{"hello", "world", "the", "cat's", "cafe"}, texts(words))

	assert.Equal(t, PauseClause, words[0].Break)
	assert.Equal(t, PauseSentence, words[1].Break)
	assert.Equal(t, PauseWord, words[2].Break)
	assert.Equal(t, PauseWord, words[3].Break)
	assert.Equal(t, PauseSentence, words[4].Break)

	assert.Equal(t, []int{0, 0, 1, 1, 1}, []int{
		words[0].Sentence, words[1].Sentence, words[2].Sentence, words[3].Sentence, words[4].Sentence,
	})
}

func TestNormalizeStrongestPunctuationWins(t *testing.T) {
	n := newTestNormalizer(t)

	words := n.Normalize("cat,. dog", false)
	require.Len(t, words, 2)
	assert.Equal(t, PauseSentence, words[0].Break)
	assert.Equal(t, 1, words[1].Sentence)
	assert.Equal(t, PauseNone, words[1].Break)
}

func TestNormalizeDropsUnknownCharacters(t *testing.T) {
	n := newTestNormalizer(t)

	words := n.Normalize("  --cat/dog\"  ", false)
	require.Equal(t, []string{"cat", "dog"}, texts(words))
	assert.Equal(t, PauseWord, words[0].Break)
	assert.Equal(t, PauseNone, words[1].Break)
}

func TestNormalizeDigitsAndSymbols(t *testing.T) {
	n := newTestNormalizer(t)

	words := n.Normalize("cats & 42 dogs", false)
	assert.Equal(t, []string{"cats", "and", "four", "two", "dogs"}, texts(words))
}

func TestNormalizeEmphasis(t *testing.T) {
	n := newTestNormalizer(t)

	words := n.Normalize("the {cat} sat", false)
	require.Len(t, words, 3)
	assert.False(t, words[0].Emphasis)
	assert.True(t, words[1].Emphasis)
	assert.False(t, words[2].Emphasis)
}

func TestNormalizeSpell(t *testing.T) {
	n := newTestNormalizer(t)

	words := n.Normalize("Hi", true)
	require.Equal(t, []string{"aitch", "eye"}, texts(words))
	assert.Equal(t, PauseWord, words[0].Break)

	words = n.Normalize("hi, w2", true)
	require.Equal(t, []string{"aitch", "eye", "double you", "two"}, texts(words))
	assert.Equal(t, PauseSentence, words[1].Break)
	assert.Equal(t, PauseWord, words[2].Break)
	for _, w := range words {
		assert.Equal(t, 0, w.Sentence, w.Text)
	}
}

func TestNormalizeEmpty(t *testing.T) {
	n := newTestNormalizer(t)

	assert.Empty(t, n.Normalize("", false))
	assert.Empty(t, n.Normalize("?!... ,", false))
	assert.Empty(t, n.Normalize("~~~", true))
}

func TestSplitSentences(t *testing.T) {
	got := SplitSentences("Hello world. How are you?\nI am fine!  Version 1.5 is out\n\nNew paragraph")
	assert.Equal(t, []string{
		"Hello world.",
		"How are you?",
		"I am fine!",
		"Version 1.5 is out",
		"New paragraph",
	}, got)

	assert.Empty(t, SplitSentences("   \n "))
}

func TestParseSpellingsRejectsMultiCharacterKeys(t *testing.T) {
	_, err := ParseSpellings([]byte(`"ab": "x"`))
	assert.Error(t, err)

	s, err := ParseSpellings([]byte(`"q": "cue"`))
	require.NoError(t, err)
	name, ok := s.Name('q')
	assert.True(t, ok)
	assert.Equal(t, "cue", name)
}
