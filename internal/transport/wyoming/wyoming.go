// Package wyoming implements the Wyoming protocol transport, which lets the
// synthesizer stand in for a Piper server behind Home Assistant.
//
// A client sends "describe" to receive an "info" event listing the voice,
// and "synthesize" to receive "audio-start", a run of "audio-chunk" events
// carrying 16-bit little-endian PCM, and "audio-stop".
package wyoming

import (
	"bufio"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"

	"github.com/atsiakkas/audio-synthesizer/internal/audio"
	"github.com/atsiakkas/audio-synthesizer/internal/message"
	"github.com/atsiakkas/audio-synthesizer/internal/transport"
)

// DefaultChunkSamples is the number of samples per audio-chunk event.
const DefaultChunkSamples = 1024

// Transport implements transport.Transport over the Wyoming protocol.
type Transport struct {
	port         int
	chunkSamples int

	mu       sync.Mutex
	listener net.Listener
	done     chan struct{} // closed once Serve has returned
	conns    sync.WaitGroup
}

// New creates a new Wyoming transport on the given port.
func New(port int) *Transport {
	return &Transport{port: port, chunkSamples: DefaultChunkSamples}
}

// Name returns the transport identifier.
func (t *Transport) Name() string { return "wyoming" }

// Listen starts the TCP server and routes synthesize events to the handler.
func (t *Transport) Listen(ctx context.Context, handler transport.Handler) error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", t.port))
	if err != nil {
		return fmt.Errorf("wyoming listen: %w", err)
	}
	slog.Info("wyoming transport listening", "port", t.port)
	return t.Serve(ctx, lis, handler)
}

// Serve accepts connections on lis until ctx is cancelled or the
// transport is closed, then waits for open connections to finish.
func (t *Transport) Serve(ctx context.Context, lis net.Listener, handler transport.Handler) error {
	done := make(chan struct{})
	t.mu.Lock()
	t.listener = lis
	t.done = done
	t.mu.Unlock()
	defer close(done)

	stop := context.AfterFunc(ctx, func() {
		slog.Info("wyoming transport shutting down")
		_ = lis.Close()
	})
	defer stop()

	err := t.accept(ctx, lis, handler)
	// No connection is added once accept has returned.
	t.conns.Wait()
	return err
}

func (t *Transport) accept(ctx context.Context, lis net.Listener, handler transport.Handler) error {
	for {
		conn, err := lis.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("wyoming accept: %w", err)
		}

		t.conns.Add(1)
		go func() {
			defer t.conns.Done()
			defer conn.Close()
			stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
			defer stop()
			if err := t.ServeConn(ctx, conn, handler); err != nil {
				slog.Warn("wyoming connection closed", "remote", conn.RemoteAddr().String(), "error", err)
			}
		}()
	}
}

// ServeConn handles events from one client until it disconnects.
func (t *Transport) ServeConn(ctx context.Context, conn io.ReadWriter, handler transport.Handler) error {
	r := bufio.NewReader(conn)
	for {
		evt, _, err := ReadEvent(r)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		switch evt.Type {
		case "describe":
			err = WriteEvent(conn, infoEvent(), nil)
		case "synthesize":
			err = t.synthesize(ctx, conn, evt, handler)
		default:
			slog.Debug("wyoming unknown event", "type", evt.Type)
		}
		if err != nil {
			return err
		}
	}
}

func (t *Transport) synthesize(ctx context.Context, w io.Writer, evt *Event, handler transport.Handler) error {
	text, _ := evt.Data["text"].(string)
	req := message.NewRequest(text, "wyoming", t.Name())

	res, err := handler(ctx, req)
	if err != nil {
		return WriteEvent(w, Event{Type: "error", Data: map[string]any{
			"text": err.Error(),
			"code": "synthesis-failed",
		}}, nil)
	}

	format := map[string]any{"rate": res.SampleRate, "width": 2, "channels": 1}
	if err := WriteEvent(w, Event{Type: "audio-start", Data: format}, nil); err != nil {
		return err
	}
	samples := res.Buffer.Samples
	for len(samples) > 0 {
		n := min(t.chunkSamples, len(samples))
		if err := WriteEvent(w, Event{Type: "audio-chunk", Data: format}, pcm(samples[:n])); err != nil {
			return err
		}
		samples = samples[n:]
	}
	return WriteEvent(w, Event{Type: "audio-stop"}, nil)
}

func infoEvent() Event {
	attribution := map[string]any{"name": "audio-synthesizer", "url": "https://github.com/atsiakkas/audio-synthesizer"}
	return Event{Type: "info", Data: map[string]any{
		"tts": []any{map[string]any{
			"name":        "synthesizer",
			"description": "Diphone concatenative speech synthesizer",
			"attribution": attribution,
			"installed":   true,
			"voices": []any{map[string]any{
				"name":        "diphone",
				"description": "Recorded diphones",
				"attribution": attribution,
				"installed":   true,
				"languages":   []string{"en"},
			}},
		}},
	}}
}

// Synthesize asks a Wyoming server on rw to speak text and collects the
// streamed audio.
func Synthesize(rw io.ReadWriter, text string) (audio.Buffer, error) {
	if err := WriteEvent(rw, Event{Type: "synthesize", Data: map[string]any{"text": text}}, nil); err != nil {
		return audio.Buffer{}, fmt.Errorf("sending synthesize event: %w", err)
	}

	r := bufio.NewReader(rw)
	out := audio.Buffer{SampleRate: audio.DefaultSampleRate}
	for {
		evt, payload, err := ReadEvent(r)
		if err != nil {
			return audio.Buffer{}, fmt.Errorf("reading wyoming event: %w", err)
		}

		switch evt.Type {
		case "audio-start":
			if rate, ok := evt.Data["rate"].(float64); ok {
				out.SampleRate = int(rate)
			}
		case "audio-chunk":
			for i := 0; i+1 < len(payload); i += 2 {
				out.Samples = append(out.Samples, int16(binary.LittleEndian.Uint16(payload[i:])))
			}
		case "audio-stop":
			return out, nil
		case "error":
			msg := "unknown error"
			if text, ok := evt.Data["text"].(string); ok {
				msg = text
			}
			return audio.Buffer{}, fmt.Errorf("wyoming error: %s", msg)
		}
	}
}

// pcm encodes samples as 16-bit little-endian bytes.
func pcm(samples []int16) []byte {
	out := make([]byte, 2*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[2*i:], uint16(s))
	}
	return out
}

// Close stops accepting connections and waits for Serve to return, which
// happens once open connections have finished.
func (t *Transport) Close() error {
	t.mu.Lock()
	lis, done := t.listener, t.done
	t.mu.Unlock()
	if lis == nil {
		return nil
	}
	err := lis.Close()
	if errors.Is(err, net.ErrClosed) {
		err = nil
	}
	<-done
	return err
}
