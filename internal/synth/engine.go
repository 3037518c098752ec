// Package synth turns text into speech by concatenating recorded diphones.
//
// A request runs one linear pipeline: normalize, transcribe, segment into
// an utterance plan, optionally reverse, assemble, scale. The lexicon and
// the unit library are shared read-only by every request.
package synth

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/atsiakkas/audio-synthesizer/internal/audio"
	"github.com/atsiakkas/audio-synthesizer/internal/text"
)

// Engine synthesizes phrases with a fixed set of options.
type Engine struct {
	normalizer *text.Normalizer
	lexicon    Lexicon
	units      UnitSource
	opts       Options
	logger     *slog.Logger
}

// Result is the output of one synthesis request.
type Result struct {
	Audio         audio.Buffer
	Words         []text.Word
	Transcription *Transcription
	Plan          Plan

	// Unknown lists the words spoken as pauses because the lexicon has no
	// pronunciation for them.
	Unknown []string

	// Sentences is the number of independently planned sentences.
	Sentences int
}

// New returns an engine. The options are validated here so that a bad
// configuration is reported before any request is served.
func New(lex Lexicon, spellings *text.Spellings, units UnitSource, opts Options, logger *slog.Logger) (*Engine, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		normalizer: text.NewNormalizer(spellings),
		lexicon:    lex,
		units:      units,
		opts:       opts,
		logger:     logger,
	}, nil
}

// Options returns the engine's options.
func (e *Engine) Options() Options { return e.opts }

// SampleRate returns the nominal rate of the unit library.
func (e *Engine) SampleRate() int { return e.units.SampleRate() }

// WithOptions returns an engine sharing e's tables but using opts.
func (e *Engine) WithOptions(opts Options) (*Engine, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	c := *e
	c.opts = opts
	return &c, nil
}

// Synthesize renders phrase as a single utterance plan.
func (e *Engine) Synthesize(ctx context.Context, phrase string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	words := e.normalizer.Normalize(phrase, e.opts.Spell)
	e.logger.Debug("normalized", "words", wordTexts(words))

	tr, err := Transcribe(words, e.lexicon, e.opts.StrictWords)
	if err != nil {
		return nil, err
	}
	for _, w := range tr.Unknown {
		e.logger.Warn("word not in lexicon, speaking a pause instead", "word", w)
	}
	// Spelled letters are run together when spoken backwards.
	if e.opts.Spell && e.opts.Reverse != ReverseNone {
		tr = tr.WithoutBreaks()
	}
	if e.opts.Reverse == ReverseWords {
		tr = tr.ReverseWords()
	}
	e.logger.Debug("transcribed", "phones", tr.WordPhones())

	phones := tr.Flatten()
	if e.opts.Reverse == ReversePhones {
		phones = ReversePhoneOrder(phones)
	}
	plan := Segment(phones, e.opts.LinkWords)
	e.logger.Debug("segmented", "diphones", plan.Units())

	buf, err := NewAssembler(e.units, e.opts).Assemble(plan)
	if err != nil {
		return nil, err
	}
	buf.ScaleVolume(e.opts.Volume)
	if e.opts.Reverse == ReverseSignal {
		buf.Reverse()
	}

	return &Result{
		Audio:         buf,
		Words:         words,
		Transcription: tr,
		Plan:          plan,
		Unknown:       tr.Unknown,
		Sentences:     1,
	}, nil
}

// SynthesizeText splits a multi-sentence text and renders each sentence as
// an independent plan. Sentences are synthesized in parallel and joined in
// document order.
func (e *Engine) SynthesizeText(ctx context.Context, s string) (*Result, error) {
	sentences := text.SplitSentences(s)
	if len(sentences) == 0 {
		return e.Synthesize(ctx, "")
	}

	results := make([]*Result, len(sentences))
	g, gctx := errgroup.WithContext(ctx)
	limit := e.opts.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(limit)
	for i, sentence := range sentences {
		g.Go(func() error {
			r, err := e.Synthesize(gctx, sentence)
			if err != nil {
				return fmt.Errorf("sentence %d: %w", i+1, err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return join(results)
}

// join concatenates per-sentence results. Sentence indices are offset so
// they stay unique across the joined result.
func join(results []*Result) (*Result, error) {
	out := &Result{
		Audio:         audio.Buffer{SampleRate: results[0].Audio.SampleRate},
		Transcription: &Transcription{},
	}
	offset := 0
	for _, r := range results {
		if r.Audio.SampleRate != out.Audio.SampleRate {
			return nil, &SampleRateMismatchError{Want: out.Audio.SampleRate, Got: r.Audio.SampleRate}
		}
		out.Audio.Samples = append(out.Audio.Samples, r.Audio.Samples...)

		next := offset
		for _, w := range r.Words {
			w.Sentence += offset
			next = max(next, w.Sentence+1)
			out.Words = append(out.Words, w)
		}
		for _, w := range r.Transcription.Words {
			w.Sentence += offset
			out.Transcription.Words = append(out.Transcription.Words, w)
		}
		for _, el := range r.Plan.Elements {
			el.Sentence += offset
			out.Plan.Elements = append(out.Plan.Elements, el)
		}
		out.Transcription.Unknown = append(out.Transcription.Unknown, r.Unknown...)
		out.Unknown = append(out.Unknown, r.Unknown...)
		out.Sentences += r.Sentences
		offset = next
	}
	return out, nil
}

func wordTexts(words []text.Word) string {
	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = w.Text
	}
	return strings.Join(parts, " ")
}
