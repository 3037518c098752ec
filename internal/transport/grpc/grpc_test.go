package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/atsiakkas/audio-synthesizer/internal/dispatch"
	"github.com/atsiakkas/audio-synthesizer/internal/message"
	"github.com/atsiakkas/audio-synthesizer/internal/synth"
	"github.com/atsiakkas/audio-synthesizer/internal/synth/synthtest"
)

func dial(t *testing.T) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())

	d := dispatch.New(synthtest.Engine(t, synth.DefaultOptions()), nil)
	tr := New(0)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = tr.Serve(ctx, lis, d.Handle)
	}()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		conn.Close()
		cancel()
		<-done
	})
	return conn
}

func TestSynthesize(t *testing.T) {
	conn := dial(t)

	res, err := Synthesize(context.Background(), conn, &message.Request{Text: "hello", Source: "test"})
	require.NoError(t, err)

	assert.NotEmpty(t, res.RequestID)
	assert.Equal(t, []string{"hello"}, res.Words)
	assert.Equal(t, []string{"pau-hh", "hh-ah", "ah-l", "l-ow", "ow-pau"}, res.Diphones)
	assert.Equal(t, message.ContentTypeWAV, res.ContentType)
	assert.NotEmpty(t, res.Audio)
	assert.Equal(t, 5*synthtest.UnitLen, res.Samples)
}

func TestSynthesizeErrorCodes(t *testing.T) {
	conn := dial(t)
	ctx := context.Background()

	_, err := Synthesize(ctx, conn, &message.Request{Text: ""})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	strict := true
	_, err = Synthesize(ctx, conn, &message.Request{Text: "zebra", Options: &message.Overrides{StrictWords: &strict}})
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))
	assert.Contains(t, status.Convert(err).Message(), "zebra")
}

func TestHealth(t *testing.T) {
	conn := dial(t)

	resp, err := healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{Service: ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
}

func TestCodeFor(t *testing.T) {
	assert.Equal(t, codes.InvalidArgument, CodeFor(&synth.ConfigError{Field: "reverse"}))
	assert.Equal(t, codes.FailedPrecondition, CodeFor(&synth.UnitNotFoundError{Symbol: "a-b"}))
	assert.Equal(t, codes.Internal, CodeFor(&synth.SampleRateMismatchError{Want: 1, Got: 2}))
	assert.Equal(t, codes.Canceled, CodeFor(context.Canceled))
}

func TestCloseStopsServe(t *testing.T) {
	lis := bufconn.Listen(1 << 20)
	d := dispatch.New(synthtest.Engine(t, synth.DefaultOptions()), nil)
	tr := New(0)
	done := make(chan error, 1)
	go func() { done <- tr.Serve(context.Background(), lis, d.Handle) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	_, err = healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	require.NoError(t, conn.Close())

	require.NoError(t, tr.Close())
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
