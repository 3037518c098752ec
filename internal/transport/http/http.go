// Package http implements the HTTP transport for the synthesizer.
//
// This transport exposes a REST endpoint that turns text into WAV audio,
// plus the generated OpenAPI docs. It is best suited for web clients and
// home-automation integrations.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	// Registers the generated OpenAPI spec served under /swagger/.
	_ "github.com/atsiakkas/audio-synthesizer/internal/docs"
	"github.com/atsiakkas/audio-synthesizer/internal/message"
	"github.com/atsiakkas/audio-synthesizer/internal/synth"
	"github.com/atsiakkas/audio-synthesizer/internal/transport"
)

// maxBody caps request bodies; synthesis input is text.
const maxBody = 1 << 20

// Transport implements transport.Transport over HTTP.
type Transport struct {
	port   int
	server *http.Server
}

// New creates a new HTTP transport on the given port.
func New(port int) *Transport {
	return &Transport{port: port}
}

// Name returns the transport identifier.
func (t *Transport) Name() string { return "http" }

// Listen starts the HTTP server and routes incoming requests to the handler.
func (t *Transport) Listen(ctx context.Context, handler transport.Handler) error {
	t.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", t.port),
		Handler:           t.routes(handler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("http transport listening", "port", t.port)

	go func() {
		<-ctx.Done()
		slog.Info("http transport shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = t.server.Shutdown(shutdownCtx)
	}()

	if err := t.server.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("http listen: %w", err)
	}
	return nil
}

func (t *Transport) routes(handler transport.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	// POST /synthesize: accepts JSON or plain text, returns JSON or WAV.
	mux.HandleFunc("POST /synthesize", func(w http.ResponseWriter, r *http.Request) {
		t.handleSynthesize(w, r, handler)
	})

	// Swagger UI: serves the generated OpenAPI docs.
	mux.Handle("GET /swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	return mux
}

// handleSynthesize processes a POST /synthesize request.
//
// @Summary     Synthesize speech
// @Description Accepts a JSON request, or the text itself as text/plain, and speaks it by concatenating
// @Description recorded diphones. Multi-sentence text is split into sentences that are synthesized
// @Description independently and joined in order. Send "Accept: audio/wav" to receive the WAV file
// @Description directly instead of a JSON result with base64 audio.
// @Tags        synthesis
// @Accept      json
// @Accept      plain
// @Produce     json
// @Produce     audio/wav
// @Param       request  body      message.Request  true  "Synthesis request (JSON). For plain text, POST the text directly."
// @Param       X-Synthesizer-Source   header  string  false  "Caller identifier (used with plain-text bodies)"
// @Param       X-Synthesizer-Options  header  string  false  "JSON-encoded Overrides (used with plain-text bodies)"
// @Success     200  {object}  message.Result  "Synthesized audio and its transcription"
// @Failure     400  {object}  message.Result  "Invalid request or options"
// @Failure     422  {object}  message.Result  "Text cannot be spoken with the loaded lexicon or diphones"
// @Failure     500  {object}  message.Result  "Internal processing error"
// @Router      /synthesize [post]
func (t *Transport) handleSynthesize(w http.ResponseWriter, r *http.Request, handler transport.Handler) {
	req := message.NewRequest("", r.Header.Get("X-Synthesizer-Source"), t.Name())

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		if err := json.NewDecoder(io.LimitReader(r.Body, maxBody)).Decode(req); err != nil {
			http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
			return
		}
		req.Transport = t.Name()
	default:
		// Treat the body as the text; options come from a header.
		body, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
		if err != nil {
			http.Error(w, "reading body: "+err.Error(), http.StatusBadRequest)
			return
		}
		req.Text = string(body)

		if hdr := r.Header.Get("X-Synthesizer-Options"); hdr != "" {
			req.Options = &message.Overrides{}
			if err := json.Unmarshal([]byte(hdr), req.Options); err != nil {
				http.Error(w, "invalid options header: "+err.Error(), http.StatusBadRequest)
				return
			}
		}
	}

	result, err := handler(r.Context(), req)
	if err != nil {
		slog.Warn("synthesis request failed", "request_id", req.ID, "error", err)
		writeJSON(w, StatusFor(err), result)
		return
	}

	if wantsWAV(r.Header.Get("Accept")) {
		w.Header().Set("Content-Type", message.ContentTypeWAV)
		w.Header().Set("Content-Length", strconv.Itoa(len(result.WAV)))
		w.Header().Set("X-Request-ID", result.RequestID)
		if len(result.UnknownWords) > 0 {
			w.Header().Set("X-Unknown-Words", strings.Join(result.UnknownWords, ","))
		}
		_, _ = w.Write(result.WAV)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// StatusFor maps a synthesis error to an HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, synth.ErrInvalidConfiguration):
		return http.StatusBadRequest
	case errors.Is(err, synth.ErrUnitNotFound), errors.Is(err, synth.ErrUnknownWord):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func wantsWAV(accept string) bool {
	for _, part := range strings.Split(accept, ",") {
		mt, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err == nil && (mt == message.ContentTypeWAV || mt == "audio/x-wav" || mt == "audio/wave") {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Close gracefully shuts down the HTTP server.
func (t *Transport) Close() error {
	if t.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return t.server.Shutdown(ctx)
	}
	return nil
}
