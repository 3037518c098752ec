package synth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atsiakkas/audio-synthesizer/internal/text"
)

func phones(symbols ...string) []Phone {
	out := make([]Phone, len(symbols))
	for i, s := range symbols {
		if s == "|" {
			out[i] = Phone{Pause: text.PauseWord}
			continue
		}
		out[i] = Phone{Symbol: s}
	}
	return out
}

func TestSegmentBracketsRunsWithSilence(t *testing.T) {
	plan := Segment(phones("k", "ae", "t"), false)
	assert.Equal(t, []string{"pau-k", "k-ae", "ae-t", "t-pau"}, plan.Units())
}

func TestSegmentSinglePhone(t *testing.T) {
	plan := Segment(phones("ay"), false)
	assert.Equal(t, []string{"pau-ay", "ay-pau"}, plan.Units())
}

func TestSegmentPauseBetweenRuns(t *testing.T) {
	plan := Segment(phones("k", "ae", "|", "ay"), false)

	require.Len(t, plan.Elements, 6)
	assert.Equal(t, KindPause, plan.Elements[3].Kind)
	assert.Equal(t, text.PauseWord, plan.Elements[3].Pause)
	assert.Equal(t, "", plan.Elements[3].Symbol())
	assert.Equal(t, []string{"pau-k", "k-ae", "ae-pau", "pau-ay", "ay-pau"}, plan.Units())
}

func TestSegmentLeadingAndRepeatedPauses(t *testing.T) {
	plan := Segment(phones("|", "|", "ay", "|"), false)
	assert.Equal(t, []string{"pau-ay", "ay-pau"}, plan.Units())
	assert.Len(t, plan.Elements, 5)
}

func TestSegmentEmpty(t *testing.T) {
	assert.Empty(t, Segment(nil, false).Elements)
}

func TestSegmentLinkWordsKeepsStrongerPauses(t *testing.T) {
	ph := phones("k", "ae", "ay")
	linked := append(ph[:2:2], Phone{Pause: text.PauseClause}, ph[2])

	plan := Segment(linked, true)
	assert.Equal(t, []string{"pau-k", "k-ae", "ae-pau", "pau-ay", "ay-pau"}, plan.Units())
}

func TestSegmentLinkWordsKeepsSubstitutedPause(t *testing.T) {
	ph := []Phone{{Symbol: "k"}, {Pause: text.PauseWord, Substitute: true}, {Symbol: "ay"}}

	plan := Segment(ph, true)
	assert.Equal(t, []string{"pau-k", "k-pau", "pau-ay", "ay-pau"}, plan.Units())
}

func TestReversePhoneOrder(t *testing.T) {
	in := phones("k", "ae", "|", "t")
	rev := ReversePhoneOrder(in)
	assert.Equal(t, []string{"pau-t", "t-pau", "pau-ae", "ae-k", "k-pau"}, Segment(rev, false).Units())
	assert.Equal(t, "k", in[0].Symbol, "input untouched")

	trailing := append(phones("k", "ay"), Phone{Pause: text.PauseSentence})
	rev = ReversePhoneOrder(trailing)
	assert.Equal(t, "ay", rev[0].Symbol)
	assert.Equal(t, text.PauseSentence, rev[2].Pause)
}

func TestSegmentMarksSubstitutePause(t *testing.T) {
	plan := Segment([]Phone{{Pause: text.PauseWord, Substitute: true}}, false)
	require.Len(t, plan.Elements, 1)
	assert.True(t, plan.Elements[0].Substitute)
}

func TestTranscribeMultiWordName(t *testing.T) {
	lex := testLexicon()
	tr, err := Transcribe([]text.Word{{Text: "eye cat"}}, lex, false)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"ay", "k", "ae", "t"}}, tr.WordPhones())
}

func TestFlattenAnnotatesWords(t *testing.T) {
	tr, err := Transcribe([]text.Word{
		{Text: "cat", Break: text.PauseClause},
		{Text: "dog", Sentence: 0},
	}, testLexicon(), false)
	require.NoError(t, err)

	flat := tr.Flatten()
	require.Len(t, flat, 7)
	assert.Equal(t, "k", flat[0].Symbol)
	assert.Equal(t, text.PauseClause, flat[3].Pause)
	assert.Equal(t, 1, flat[4].Word)
	assert.Equal(t, "dog", flat[6].Text)
}

func TestReverseWordsMirrorsBreaks(t *testing.T) {
	tr, err := Transcribe([]text.Word{
		{Text: "cat", Break: text.PauseClause},
		{Text: "dog", Break: text.PauseWord},
		{Text: "hi", Break: text.PauseSentence},
		{Text: "eye", Sentence: 1},
	}, testLexicon(), false)
	require.NoError(t, err)

	rev := tr.ReverseWords()

	var got []string
	var breaks []text.PauseClass
	for _, w := range rev.Words {
		got = append(got, w.Text)
		breaks = append(breaks, w.Break)
	}
	assert.Equal(t, []string{"hi", "dog", "cat", "eye"}, got)
	assert.Equal(t, []text.PauseClass{text.PauseWord, text.PauseClause, text.PauseSentence, text.PauseNone}, breaks)

	// The original is untouched.
	assert.Equal(t, "cat", tr.Words[0].Text)
}
