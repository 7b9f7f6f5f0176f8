package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records registry metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordCreate records a Create call with its duration and outcome.
	RecordCreate(ctx context.Context, duration time.Duration, err error)

	// RecordDestroy records a Destroy call with its duration and outcome.
	RecordDestroy(ctx context.Context, duration time.Duration, err error)

	// RecordShutdown records the size of the shutdown sweep.
	RecordShutdown(ctx context.Context, swept, failed int)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	creates   metric.Int64Counter
	destroys  metric.Int64Counter
	errors    metric.Int64Counter
	live      metric.Int64UpDownCounter
	opLatency metric.Float64Histogram
	swept     metric.Int64Counter
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("dynexport")

	creates, err := meter.Int64Counter("dynexport.record.creates",
		metric.WithDescription("Number of records created"),
	)
	if err != nil {
		return nil, err
	}

	destroys, err := meter.Int64Counter("dynexport.record.destroys",
		metric.WithDescription("Number of records destroyed"),
	)
	if err != nil {
		return nil, err
	}

	errs, err := meter.Int64Counter("dynexport.record.errors",
		metric.WithDescription("Number of rejected create and destroy calls"),
	)
	if err != nil {
		return nil, err
	}

	live, err := meter.Int64UpDownCounter("dynexport.record.live",
		metric.WithDescription("Number of live records"),
	)
	if err != nil {
		return nil, err
	}

	opLatency, err := meter.Float64Histogram("dynexport.op.latency_ms",
		metric.WithDescription("Create and destroy latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	swept, err := meter.Int64Counter("dynexport.shutdown.swept",
		metric.WithDescription("Number of records destroyed by the shutdown sweep"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		creates:   creates,
		destroys:  destroys,
		errors:    errs,
		live:      live,
		opLatency: opLatency,
		swept:     swept,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordCreate records a Create call.
func (m *otelMetrics) RecordCreate(ctx context.Context, duration time.Duration, err error) {
	m.record(ctx, "create", duration, err)
	if err == nil {
		m.creates.Add(ctx, 1)
		m.live.Add(ctx, 1)
	}
}

// RecordDestroy records a Destroy call.
func (m *otelMetrics) RecordDestroy(ctx context.Context, duration time.Duration, err error) {
	m.record(ctx, "destroy", duration, err)
	if err == nil {
		m.destroys.Add(ctx, 1)
		m.live.Add(ctx, -1)
	}
}

// RecordShutdown records the shutdown sweep. Swept records leave the live count.
func (m *otelMetrics) RecordShutdown(ctx context.Context, swept, failed int) {
	m.swept.Add(ctx, int64(swept), metric.WithAttributes(attribute.Bool("success", true)))
	if failed > 0 {
		m.swept.Add(ctx, int64(failed), metric.WithAttributes(attribute.Bool("success", false)))
	}
	m.live.Add(ctx, -int64(swept+failed))
}

func (m *otelMetrics) record(ctx context.Context, op string, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("op", op),
		attribute.Bool("success", err == nil),
	}
	m.opLatency.Record(ctx, float64(duration.Microseconds())/1000, metric.WithAttributes(attrs...))
	if err != nil {
		m.errors.Add(ctx, 1, metric.WithAttributes(attribute.String("op", op)))
	}
}
