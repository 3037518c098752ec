// Package message defines the request and result types shared by every
// network transport.
package message

import (
	"encoding/base64"
	"time"

	"github.com/google/uuid"

	"github.com/atsiakkas/audio-synthesizer/internal/audio"
)

// ContentTypeWAV is the MIME type of synthesized audio.
const ContentTypeWAV = "audio/wav"

// Request asks for one text to be spoken.
type Request struct {
	// ID is a unique identifier for this request (UUID). Assigned by the
	// dispatcher when empty.
	ID string `json:"id"`

	// Source identifies the caller (e.g., "kiosk-01", "home-assistant").
	Source string `json:"source,omitempty"`

	// Text is the phrase or multi-sentence text to synthesize.
	Text string `json:"text"`

	// Options override the server's synthesis defaults for this request.
	Options *Overrides `json:"options,omitempty"`

	// Transport is the name of the transport that received the request.
	Transport string `json:"-"`

	// Timestamp is when the request was received.
	Timestamp time.Time `json:"timestamp"`
}

// NewRequest returns a request for text with a fresh ID.
func NewRequest(text, source, transport string) *Request {
	return &Request{
		ID:        uuid.NewString(),
		Source:    source,
		Text:      text,
		Transport: transport,
		Timestamp: time.Now(),
	}
}

// Overrides holds optional per-request synthesis settings. Nil fields keep
// the server default.
type Overrides struct {
	Spell       *bool   `json:"spell,omitempty"`
	Reverse     *string `json:"reverse,omitempty" enums:"none,words,phones,signal"`
	Crossfade   *bool   `json:"crossfade,omitempty"`
	Volume      *int    `json:"volume,omitempty"`
	LinkWords   *bool   `json:"link_words,omitempty"`
	StrictWords *bool   `json:"strict_words,omitempty"`
}

// Result is the outcome of a synthesis request.
type Result struct {
	// RequestID is the original request ID.
	RequestID string `json:"request_id"`

	// Words are the normalized words that were spoken.
	Words []string `json:"words"`

	// Phones holds each word's phones; unknown words have none.
	Phones [][]string `json:"phones"`

	// Diphones lists the units concatenated, in playing order.
	Diphones []string `json:"diphones"`

	// UnknownWords were missing from the lexicon and spoken as pauses.
	UnknownWords []string `json:"unknown_words,omitempty"`

	SampleRate int   `json:"sample_rate"`
	Samples    int   `json:"samples"`
	DurationMS int64 `json:"duration_ms"`

	// Audio is the synthesized speech as a base64-encoded WAV file.
	Audio string `json:"audio,omitempty"`

	// ContentType is the MIME type of Audio.
	ContentType string `json:"content_type,omitempty"`

	// Error is set if synthesis failed.
	Error string `json:"error,omitempty"`

	// WAV is the encoded file behind Audio; Buffer is the raw signal.
	WAV    []byte       `json:"-"`
	Buffer audio.Buffer `json:"-"`
}

// SetAudio stores buf and its WAV encoding on the result.
func (r *Result) SetAudio(buf audio.Buffer, wav []byte) {
	r.Buffer = buf
	r.SampleRate = buf.SampleRate
	r.Samples = buf.Len()
	r.DurationMS = buf.Duration().Milliseconds()
	r.WAV = wav
	if len(wav) > 0 {
		r.Audio = base64.StdEncoding.EncodeToString(wav)
		r.ContentType = ContentTypeWAV
	}
}
