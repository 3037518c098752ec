// Package dispatch runs synthesis requests arriving from the transports.
//
// The dispatcher applies per-request overrides to the engine defaults,
// synthesizes, encodes the result as WAV and records metrics. The caller
// always receives a result, with Error set when synthesis failed.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/atsiakkas/audio-synthesizer/internal/message"
	"github.com/atsiakkas/audio-synthesizer/internal/synth"
	"github.com/atsiakkas/audio-synthesizer/internal/telemetry"
	"github.com/atsiakkas/audio-synthesizer/internal/wavio"
)

// Dispatcher is shared by all transports.
type Dispatcher struct {
	engine  *synth.Engine
	metrics *telemetry.Metrics // nil disables metrics
}

// New creates a dispatcher around engine.
func New(engine *synth.Engine, metrics *telemetry.Metrics) *Dispatcher {
	return &Dispatcher{engine: engine, metrics: metrics}
}

// SampleRate returns the rate of the audio the dispatcher produces.
func (d *Dispatcher) SampleRate() int { return d.engine.SampleRate() }

// Handle synthesizes one request. On failure the returned result carries
// the diagnostic and the error is returned alongside it so transports can
// pick a status code.
// This function is passed as the transport.Handler to each transport.
func (d *Dispatcher) Handle(ctx context.Context, req *message.Request) (*message.Result, error) {
	start := time.Now()
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	logger := slog.With("request_id", req.ID, "source", req.Source, "transport", req.Transport)
	logger.Info("synthesis started", "text_length", len(req.Text))

	result := &message.Result{RequestID: req.ID}
	fail := func(err error) (*message.Result, error) {
		result.Error = err.Error()
		outcome := Outcome(err)
		d.metrics.Record(ctx, req.Transport, outcome, time.Since(start), 0, 0)
		logger.Error("synthesis failed", "outcome", outcome, "error", err)
		return result, err
	}

	if strings.TrimSpace(req.Text) == "" {
		return fail(&synth.ConfigError{Field: "text", Reason: "must not be empty"})
	}

	opts, err := ApplyOverrides(d.engine.Options(), req.Options)
	if err != nil {
		return fail(err)
	}
	engine, err := d.engine.WithOptions(opts)
	if err != nil {
		return fail(err)
	}

	res, err := engine.SynthesizeText(ctx, req.Text)
	if err != nil {
		return fail(err)
	}

	wav, err := wavio.Bytes(res.Audio)
	if err != nil {
		return fail(fmt.Errorf("encoding audio: %w", err))
	}

	for _, w := range res.Words {
		result.Words = append(result.Words, w.Text)
	}
	result.Phones = res.Transcription.WordPhones()
	result.Diphones = res.Plan.Units()
	result.UnknownWords = res.Unknown
	result.SetAudio(res.Audio, wav)

	took := time.Since(start)
	d.metrics.Record(ctx, req.Transport, "ok", took, res.Audio.Duration(), len(res.Unknown))
	logger.Info("synthesis complete",
		"duration", took,
		"sentences", res.Sentences,
		"diphones", len(result.Diphones),
		"unknown_words", len(res.Unknown),
		"audio_ms", result.DurationMS)
	return result, nil
}

// ApplyOverrides returns base with the non-nil overrides applied.
func ApplyOverrides(base synth.Options, o *message.Overrides) (synth.Options, error) {
	if o == nil {
		return base, nil
	}
	if o.Spell != nil {
		base.Spell = *o.Spell
	}
	if o.Reverse != nil {
		mode, err := synth.ParseReverseMode(*o.Reverse)
		if err != nil {
			return base, err
		}
		base.Reverse = mode
	}
	if o.Crossfade != nil {
		base.Crossfade = *o.Crossfade
	}
	if o.Volume != nil {
		base.Volume = *o.Volume
	}
	if o.LinkWords != nil {
		base.LinkWords = *o.LinkWords
	}
	if o.StrictWords != nil {
		base.StrictWords = *o.StrictWords
	}
	return base, base.Validate()
}

// Outcome classifies err for metrics and logs.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, synth.ErrInvalidConfiguration):
		return "invalid_configuration"
	case errors.Is(err, synth.ErrUnitNotFound):
		return "unit_not_found"
	case errors.Is(err, synth.ErrUnknownWord):
		return "unknown_word"
	case errors.Is(err, synth.ErrSampleRateMismatch):
		return "sample_rate_mismatch"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "internal"
	}
}
