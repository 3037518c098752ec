// Package grpc implements the gRPC transport for the synthesizer.
//
// The service is synthesizer.v1.Synthesizer with a single unary method,
// Synthesize. Messages are the JSON encodings of message.Request and
// message.Result, carried with the "json" content subtype, so clients need
// no generated stubs. The standard gRPC health service is registered too.
package grpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/encoding"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"github.com/atsiakkas/audio-synthesizer/internal/message"
	"github.com/atsiakkas/audio-synthesizer/internal/synth"
	"github.com/atsiakkas/audio-synthesizer/internal/transport"
)

const (
	// ServiceName is the fully qualified gRPC service name.
	ServiceName = "synthesizer.v1.Synthesizer"

	// SynthesizeMethod is the full method name of Synthesize.
	SynthesizeMethod = "/" + ServiceName + "/Synthesize"

	// CodecName is the content subtype clients must request.
	CodecName = "json"
)

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

// jsonCodec marshals messages with encoding/json.
type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
func (jsonCodec) Name() string                       { return CodecName }

// SynthesizerServer is the server API for the Synthesizer service.
type SynthesizerServer interface {
	Synthesize(ctx context.Context, req *message.Request) (*message.Result, error)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SynthesizerServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Synthesize", Handler: synthesizeHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "synthesizer/v1/synthesizer.proto",
}

func synthesizeHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(message.Request)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SynthesizerServer).Synthesize(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: SynthesizeMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SynthesizerServer).Synthesize(ctx, req.(*message.Request))
	}
	return interceptor(ctx, in, info, handler)
}

// service adapts a transport.Handler to SynthesizerServer.
type service struct {
	handler transport.Handler
}

func (s *service) Synthesize(ctx context.Context, req *message.Request) (*message.Result, error) {
	req.Transport = "grpc"
	res, err := s.handler(ctx, req)
	if err != nil {
		return nil, status.Error(CodeFor(err), err.Error())
	}
	return res, nil
}

// CodeFor maps a synthesis error to a gRPC status code.
func CodeFor(err error) codes.Code {
	switch {
	case errors.Is(err, synth.ErrInvalidConfiguration):
		return codes.InvalidArgument
	case errors.Is(err, synth.ErrUnitNotFound), errors.Is(err, synth.ErrUnknownWord):
		return codes.FailedPrecondition
	case errors.Is(err, context.Canceled):
		return codes.Canceled
	case errors.Is(err, context.DeadlineExceeded):
		return codes.DeadlineExceeded
	default:
		return codes.Internal
	}
}

// Synthesize calls the Synthesize method over conn.
func Synthesize(ctx context.Context, conn grpc.ClientConnInterface, req *message.Request, opts ...grpc.CallOption) (*message.Result, error) {
	out := new(message.Result)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := conn.Invoke(ctx, SynthesizeMethod, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// Transport implements transport.Transport over gRPC.
type Transport struct {
	port int

	mu     sync.Mutex
	server *grpc.Server
	health *health.Server
}

// New creates a new gRPC transport on the given port.
func New(port int) *Transport {
	return &Transport{port: port}
}

// Name returns the transport identifier.
func (t *Transport) Name() string { return "grpc" }

// Listen starts the gRPC server and routes incoming requests to the handler.
func (t *Transport) Listen(ctx context.Context, handler transport.Handler) error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", t.port))
	if err != nil {
		return fmt.Errorf("grpc listen: %w", err)
	}
	slog.Info("grpc transport listening", "port", t.port)
	return t.Serve(ctx, lis, handler)
}

// Serve accepts connections on lis until ctx is cancelled.
func (t *Transport) Serve(ctx context.Context, lis net.Listener, handler transport.Handler) error {
	server := grpc.NewServer()
	server.RegisterService(&serviceDesc, &service{handler: handler})

	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(server, hs)

	t.mu.Lock()
	t.server, t.health = server, hs
	t.mu.Unlock()

	stop := context.AfterFunc(ctx, func() {
		slog.Info("grpc transport shutting down")
		hs.Shutdown()
		server.GracefulStop()
	})
	defer stop()

	return server.Serve(lis)
}

// Close gracefully stops the gRPC server.
func (t *Transport) Close() error {
	t.mu.Lock()
	server, hs := t.server, t.health
	t.mu.Unlock()
	if hs != nil {
		hs.Shutdown()
	}
	if server != nil {
		server.GracefulStop()
	}
	return nil
}
