package synth

import (
	"fmt"
	"strings"
	"time"

	"github.com/atsiakkas/audio-synthesizer/internal/config"
	"github.com/atsiakkas/audio-synthesizer/internal/text"
)

// ReverseMode selects how an utterance is played backwards.
type ReverseMode int

const (
	// ReverseNone plays the utterance forwards.
	ReverseNone ReverseMode = iota
	// ReverseWords reverses word order within each sentence.
	ReverseWords
	// ReversePhones reverses the order of every unit and pause in the plan.
	ReversePhones
	// ReverseSignal reverses the finished waveform sample by sample.
	ReverseSignal
)

// ParseReverseMode accepts "", "none", "words", "phones" and "signal".
func ParseReverseMode(s string) (ReverseMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return ReverseNone, nil
	case "words":
		return ReverseWords, nil
	case "phones":
		return ReversePhones, nil
	case "signal":
		return ReverseSignal, nil
	default:
		return ReverseNone, &ConfigError{
			Field:  "reverse",
			Reason: fmt.Sprintf("unknown mode %q (want words, phones or signal)", s),
		}
	}
}

func (m ReverseMode) String() string {
	switch m {
	case ReverseNone:
		return "none"
	case ReverseWords:
		return "words"
	case ReversePhones:
		return "phones"
	case ReverseSignal:
		return "signal"
	default:
		return fmt.Sprintf("ReverseMode(%d)", int(m))
	}
}

// PauseDurations is the silence inserted for each boundary class, and for
// each word spoken as a pause because it has no pronunciation.
type PauseDurations struct {
	Word     time.Duration
	Clause   time.Duration
	Sentence time.Duration
	Unknown  time.Duration
}

// For returns the duration of a pause of class c.
func (p PauseDurations) For(c text.PauseClass) time.Duration {
	switch c {
	case text.PauseWord:
		return p.Word
	case text.PauseClause:
		return p.Clause
	case text.PauseSentence:
		return p.Sentence
	default:
		return 0
	}
}

// FadeOptions shapes the overlap between adjacent units when cross-fading.
// The overlap is the smaller of Duration and MaxFraction of the shorter unit.
type FadeOptions struct {
	Duration    time.Duration
	MaxFraction float64
}

// Options is the validated per-request configuration of the engine.
type Options struct {
	Spell        bool
	Reverse      ReverseMode
	Crossfade    bool
	Fade         FadeOptions
	Volume       int // percent; 100 leaves samples untouched
	StrictVolume bool
	StrictWords  bool
	LinkWords    bool
	Pauses       PauseDurations
	Concurrency  int
}

// DefaultOptions mirrors the configuration defaults.
func DefaultOptions() Options {
	return Options{
		Fade:   FadeOptions{Duration: 10 * time.Millisecond, MaxFraction: 0.5},
		Volume: 100,
		Pauses: PauseDurations{
			Clause:   200 * time.Millisecond,
			Sentence: 400 * time.Millisecond,
			Unknown:  200 * time.Millisecond,
		},
	}
}

// OptionsFromConfig converts and validates the synthesis section of the
// configuration.
func OptionsFromConfig(cfg config.SynthConfig) (Options, error) {
	mode, err := ParseReverseMode(cfg.Reverse)
	if err != nil {
		return Options{}, err
	}

	opts := Options{
		Spell:     cfg.Spell,
		Reverse:   mode,
		Crossfade: cfg.Crossfade,
		Fade: FadeOptions{
			Duration:    time.Duration(cfg.CrossfadeMS) * time.Millisecond,
			MaxFraction: cfg.CrossfadeFraction,
		},
		Volume:       100,
		StrictVolume: cfg.StrictVolume,
		StrictWords:  cfg.StrictWords,
		LinkWords:    cfg.LinkWords,
		Pauses: PauseDurations{
			Word:     time.Duration(cfg.Pauses.WordMS) * time.Millisecond,
			Clause:   time.Duration(cfg.Pauses.ClauseMS) * time.Millisecond,
			Sentence: time.Duration(cfg.Pauses.SentenceMS) * time.Millisecond,
			Unknown:  time.Duration(cfg.Pauses.UnknownMS) * time.Millisecond,
		},
		Concurrency: cfg.Concurrency,
	}
	if cfg.Volume != nil {
		opts.Volume = *cfg.Volume
	}

	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// Validate range-checks every field. The returned error is a *ConfigError.
func (o Options) Validate() error {
	switch o.Reverse {
	case ReverseNone, ReverseWords, ReversePhones, ReverseSignal:
	default:
		return &ConfigError{Field: "reverse", Reason: fmt.Sprintf("unknown mode %d", int(o.Reverse))}
	}
	if o.Volume < 0 {
		return &ConfigError{Field: "volume", Reason: fmt.Sprintf("%d is negative", o.Volume)}
	}
	if o.StrictVolume && o.Volume > 100 {
		return &ConfigError{Field: "volume", Reason: fmt.Sprintf("%d is not between 0 and 100", o.Volume)}
	}
	if o.Crossfade {
		if o.Fade.Duration <= 0 {
			return &ConfigError{Field: "crossfade_ms", Reason: "must be positive when crossfade is enabled"}
		}
		if o.Fade.MaxFraction <= 0 || o.Fade.MaxFraction > 0.5 {
			return &ConfigError{Field: "crossfade_fraction", Reason: "must be in (0, 0.5]"}
		}
	}
	if o.Pauses.Word < 0 || o.Pauses.Clause < 0 || o.Pauses.Sentence < 0 || o.Pauses.Unknown < 0 {
		return &ConfigError{Field: "pauses", Reason: "durations must not be negative"}
	}
	if o.Concurrency < 0 {
		return &ConfigError{Field: "concurrency", Reason: "must not be negative"}
	}
	return nil
}
