// Package playback sends synthesized speech to the default audio device.
package playback

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"

	"github.com/atsiakkas/audio-synthesizer/internal/audio"
	"github.com/atsiakkas/audio-synthesizer/internal/wavio"
)

// Player plays buffers synchronously. The speaker is opened on first use
// and reopened when the sample rate changes.
type Player struct {
	// Latency is the size of the device buffer.
	Latency time.Duration

	mu   sync.Mutex
	rate beep.SampleRate
}

// NewPlayer returns a player with a 100 ms device buffer.
func NewPlayer() *Player {
	return &Player{Latency: 100 * time.Millisecond}
}

// Play blocks until buf has been played or ctx is done.
func (p *Player) Play(ctx context.Context, buf audio.Buffer) error {
	if buf.Len() == 0 {
		return nil
	}

	data, err := wavio.Bytes(buf)
	if err != nil {
		return err
	}
	streamer, format, err := wav.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decoding for playback: %w", err)
	}
	defer streamer.Close()

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.rate != format.SampleRate {
		if err := speaker.Init(format.SampleRate, format.SampleRate.N(p.Latency)); err != nil {
			return fmt.Errorf("opening audio device: %w", err)
		}
		p.rate = format.SampleRate
	}

	done := make(chan struct{})
	speaker.Play(beep.Seq(streamer, beep.Callback(func() {
		close(done)
	})))

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		speaker.Clear()
		return ctx.Err()
	}
}
