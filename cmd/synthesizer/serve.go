package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/atsiakkas/audio-synthesizer/internal/config"
	"github.com/atsiakkas/audio-synthesizer/internal/dispatch"
	"github.com/atsiakkas/audio-synthesizer/internal/health"
	"github.com/atsiakkas/audio-synthesizer/internal/telemetry"
	"github.com/atsiakkas/audio-synthesizer/internal/transport"
	grpctransport "github.com/atsiakkas/audio-synthesizer/internal/transport/grpc"
	httptransport "github.com/atsiakkas/audio-synthesizer/internal/transport/http"
	wyomingtransport "github.com/atsiakkas/audio-synthesizer/internal/transport/wyoming"
)

func newServeCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the synthesizer daemon",
		Long: `Serve loads the diphone library once and exposes the engine over the
enabled transports (HTTP with Swagger UI, gRPC, Wyoming) together with a
health and metrics server. It runs until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*configFile, cmd.Flags())
			if err != nil {
				return err
			}
			config.SetupLogging(cfg.Logging)
			return serve(cmd.Context(), cfg)
		},
	}
}

// buildTransports returns the transports enabled in cfg.
func buildTransports(cfg config.TransportsConfig) []transport.Transport {
	var transports []transport.Transport
	if cfg.GRPC.Enabled {
		transports = append(transports, grpctransport.New(cfg.GRPC.Port))
	}
	if cfg.HTTP.Enabled {
		transports = append(transports, httptransport.New(cfg.HTTP.Port))
	}
	if cfg.Wyoming.Enabled {
		transports = append(transports, wyomingtransport.New(cfg.Wyoming.Port))
	}
	return transports
}

func serve(ctx context.Context, cfg *config.Config) error {
	slog.Info("synthesizer starting", "version", version)

	transports := buildTransports(cfg.Transports)
	if len(transports) == 0 {
		return errors.New("no transports enabled, enable at least one in config")
	}

	shutdownTelemetry, metricsHandler, err := telemetry.Setup(ctx, "synthesizer", nil, slog.Default())
	if err != nil {
		return fmt.Errorf("setting up telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			slog.Warn("telemetry shutdown", "error", err)
		}
	}()

	metrics, err := telemetry.NewMetrics(nil)
	if err != nil {
		return fmt.Errorf("creating metrics: %w", err)
	}

	engine, err := newEngine(ctx, cfg, slog.Default())
	if err != nil {
		return err
	}
	dispatcher := dispatch.New(engine, metrics)

	// Start health check server.
	healthServer := health.New(cfg.Server.HealthPort, metricsHandler)
	go func() {
		if err := healthServer.ListenAndServe(ctx); err != nil {
			slog.Error("health server failed", "error", err)
		}
	}()

	// Start all transports.
	var wg sync.WaitGroup
	for _, t := range transports {
		wg.Add(1)
		go func(t transport.Transport) {
			defer wg.Done()
			slog.Info("starting transport", "name", t.Name())
			if err := t.Listen(ctx, dispatcher.Handle); err != nil {
				slog.Error("transport failed", "name", t.Name(), "error", err)
			}
		}(t)
	}

	healthServer.SetReady(true)
	slog.Info("synthesizer ready",
		"transports", len(transports),
		"sample_rate", dispatcher.SampleRate(),
		"health_port", cfg.Server.HealthPort)

	<-ctx.Done()
	slog.Info("shutdown signal received, draining...")
	healthServer.SetReady(false)

	for _, t := range transports {
		if err := t.Close(); err != nil {
			slog.Error("transport close error", "name", t.Name(), "error", err)
		}
	}

	wg.Wait()
	slog.Info("synthesizer stopped")
	return nil
}
