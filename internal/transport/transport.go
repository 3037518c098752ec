// Package transport defines the interface for pluggable request transports.
//
// Each transport (HTTP, gRPC, Wyoming) implements this interface and hands
// requests to the dispatcher. The dispatcher doesn't care how requests
// arrive; it only works with the Transport contract.
package transport

import (
	"context"

	"github.com/atsiakkas/audio-synthesizer/internal/message"
)

// Handler is a function that processes an incoming request and returns a
// result. The dispatcher provides this handler to each transport.
type Handler func(ctx context.Context, req *message.Request) (*message.Result, error)

// Transport is the interface that every transport adapter must implement.
type Transport interface {
	// Name returns the transport identifier (e.g., "grpc", "http", "wyoming").
	Name() string

	// Listen starts accepting requests and dispatches them to the handler.
	// It blocks until the context is cancelled.
	Listen(ctx context.Context, handler Handler) error

	// Close gracefully shuts down the transport, draining in-flight work.
	Close() error
}
