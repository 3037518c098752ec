// Package telemetry exposes synthesis metrics in Prometheus format through
// the OpenTelemetry SDK.
package telemetry

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

const meterName = "github.com/atsiakkas/audio-synthesizer"

// Setup installs a global meter provider backed by a Prometheus exporter
// and returns the scrape handler. A nil registry uses the Prometheus
// default registry.
func Setup(ctx context.Context, service string, reg *promclient.Registry, logger *slog.Logger) (func(context.Context) error, http.Handler, error) {
	res, err := resource.New(ctx, resource.WithAttributes(attribute.String("service.name", service)))
	if err != nil {
		return nil, nil, err
	}

	var (
		opts    []prometheus.Option
		handler http.Handler
	)
	if reg != nil {
		opts = append(opts, prometheus.WithRegisterer(reg))
		handler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	} else {
		handler = promhttp.Handler()
	}

	exporter, err := prometheus.New(opts...)
	if err != nil {
		logger.Warn("failed to initialize prometheus exporter", "error", err)
		mp := sdkmetric.NewMeterProvider(sdkmetric.WithResource(res))
		otel.SetMeterProvider(mp)
		return mp.Shutdown, http.NotFoundHandler(), nil
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)
	logger.Info("telemetry initialized", "exporter", "prometheus")
	return mp.Shutdown, handler, nil
}

// Metrics records per-request synthesis measurements. A nil *Metrics
// records nothing.
type Metrics struct {
	requests metric.Int64Counter
	unknown  metric.Int64Counter
	latency  metric.Float64Histogram
	audio    metric.Float64Histogram
}

// NewMetrics creates the synthesis instruments on mp. A nil mp uses the
// global provider.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(meterName)

	requests, err := meter.Int64Counter("synthesizer.requests",
		metric.WithDescription("Synthesis requests by transport and outcome"))
	if err != nil {
		return nil, err
	}
	unknown, err := meter.Int64Counter("synthesizer.unknown_words",
		metric.WithDescription("Words spoken as pauses because they are missing from the lexicon"))
	if err != nil {
		return nil, err
	}
	latency, err := meter.Float64Histogram("synthesizer.duration",
		metric.WithDescription("Time spent synthesizing a request"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}
	audio, err := meter.Float64Histogram("synthesizer.audio_duration",
		metric.WithDescription("Playing time of the synthesized audio"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}
	return &Metrics{requests: requests, unknown: unknown, latency: latency, audio: audio}, nil
}

// Record adds one finished request. outcome is "ok" or an error class.
func (m *Metrics) Record(ctx context.Context, transport, outcome string, took, audio time.Duration, unknownWords int) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("transport", transport),
		attribute.String("outcome", outcome),
	)
	m.requests.Add(ctx, 1, attrs)
	m.latency.Record(ctx, took.Seconds(), attrs)
	if outcome != "ok" {
		return
	}
	m.audio.Record(ctx, audio.Seconds(), metric.WithAttributes(attribute.String("transport", transport)))
	if unknownWords > 0 {
		m.unknown.Add(ctx, int64(unknownWords), metric.WithAttributes(attribute.String("transport", transport)))
	}
}
