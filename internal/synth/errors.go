package synth

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is checks at the edges.
var (
	ErrUnitNotFound         = errors.New("unit not found")
	ErrUnknownWord          = errors.New("unknown word")
	ErrSampleRateMismatch   = errors.New("sample rate mismatch")
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// UnitNotFoundError reports a diphone the library has no recording for.
// It aborts the request.
type UnitNotFoundError struct {
	Symbol string
	Word   string
}

func (e *UnitNotFoundError) Error() string {
	if e.Word == "" {
		return fmt.Sprintf("diphone %q is not in the library", e.Symbol)
	}
	return fmt.Sprintf("diphone %q (in word %q) is not in the library", e.Symbol, e.Word)
}

func (e *UnitNotFoundError) Unwrap() error { return ErrUnitNotFound }

// UnknownWordError reports a word missing from the pronunciation table. It
// is only returned in strict mode; otherwise the word is replaced by a pause.
type UnknownWordError struct {
	Word string
}

func (e *UnknownWordError) Error() string {
	return fmt.Sprintf("word %q is not in the pronunciation table", e.Word)
}

func (e *UnknownWordError) Unwrap() error { return ErrUnknownWord }

// SampleRateMismatchError reports two buffers that cannot be joined.
type SampleRateMismatchError struct {
	Symbol string
	Want   int
	Got    int
}

func (e *SampleRateMismatchError) Error() string {
	if e.Symbol == "" {
		return fmt.Sprintf("cannot join audio at %d Hz with audio at %d Hz", e.Got, e.Want)
	}
	return fmt.Sprintf("diphone %q is recorded at %d Hz, expected %d Hz", e.Symbol, e.Got, e.Want)
}

func (e *SampleRateMismatchError) Unwrap() error { return ErrSampleRateMismatch }

// ConfigError reports an out-of-range or contradictory option. It is raised
// before any synthesis work starts.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrInvalidConfiguration }
