package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/atsiakkas/audio-synthesizer/internal/config"
	"github.com/atsiakkas/audio-synthesizer/internal/diphone"
	"github.com/atsiakkas/audio-synthesizer/internal/lexicon"
	"github.com/atsiakkas/audio-synthesizer/internal/synth"
	"github.com/atsiakkas/audio-synthesizer/internal/text"
	"github.com/atsiakkas/audio-synthesizer/internal/wavio"
)

// newEngine loads the static assets named by cfg and builds the engine.
// Options are validated before the diphone folder is read.
func newEngine(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*synth.Engine, error) {
	opts, err := synth.OptionsFromConfig(cfg.Synth)
	if err != nil {
		return nil, err
	}

	var lex *lexicon.Lexicon
	if cfg.Library.Lexicon == "" {
		lex, err = lexicon.Default()
	} else {
		lex, err = lexicon.LoadFile(cfg.Library.Lexicon)
	}
	if err != nil {
		return nil, err
	}

	spellings, err := text.DefaultSpellings()
	if err != nil {
		return nil, err
	}

	units, err := diphone.Load(ctx, wavio.Dir{Path: cfg.Library.Diphones}, logger)
	if err != nil {
		return nil, fmt.Errorf("loading diphones from %s: %w", cfg.Library.Diphones, err)
	}
	logger.Info("lexicon loaded", "entries", lex.Len())

	return synth.New(lex, spellings, units, opts, logger)
}
