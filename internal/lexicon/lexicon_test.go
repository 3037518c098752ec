package lexicon

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	src := `;;; comment line
CAT  K AE1 T
HELLO  HH AH0 L OW1
HELLO(2)  HH EH0 L OW1

dog d ao1 g # trailing comment
`
	lex, err := Parse(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, 3, lex.Len())

	phones, ok := lex.Lookup("cat")
	require.True(t, ok)
	assert.Equal(t, []string{"k", "ae", "t"}, phones)

	phones, ok = lex.Lookup("Hello")
	require.True(t, ok)
	assert.Equal(t, []string{"hh", "ah", "l", "ow"}, phones, "first variant wins")

	phones, ok = lex.Lookup("DOG")
	require.True(t, ok)
	assert.Equal(t, []string{"d", "ao", "g"}, phones)

	_, ok = lex.Lookup("zebra")
	assert.False(t, ok)
}

func TestParseRejectsEntryWithoutPhones(t *testing.T) {
	_, err := Parse(strings.NewReader("CAT K AE1 T\nDOG\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestDefault(t *testing.T) {
	lex, err := Default()
	require.NoError(t, err)

	for _, w := range []string{"cat", "dog", "hi", "aitch", "eye", "double", "you"} {
		_, ok := lex.Lookup(w)
		assert.True(t, ok, "builtin lexicon should contain %q", w)
	}

	phones, _ := lex.Lookup("aitch")
	assert.Equal(t, []string{"ey", "ch"}, phones)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.dict")
	require.NoError(t, os.WriteFile(path, []byte("RAIN  R EY1 N\n"), 0o644))

	lex, err := LoadFile(path)
	require.NoError(t, err)
	phones, ok := lex.Lookup("rain")
	require.True(t, ok)
	assert.Equal(t, []string{"r", "ey", "n"}, phones)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.dict"))
	assert.Error(t, err)
}

func TestFromEntries(t *testing.T) {
	lex := FromEntries(map[string][]string{"Cat": {"K", "AE1", "T"}})
	phones, ok := lex.Lookup("cat")
	require.True(t, ok)
	assert.Equal(t, []string{"k", "ae", "t"}, phones)
}
