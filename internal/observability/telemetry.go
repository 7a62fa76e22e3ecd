// Package observability wires OpenTelemetry traces and metrics for the
// conversion engine. Everything is exported to a writer; with the "none"
// exporter the engine and CLI run against no-op providers.
package observability

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// Version is reported as the service version of exported telemetry.
var Version = "dev"

// shutdownTimeout bounds the final flush in Cleanup.
const shutdownTimeout = 5 * time.Second

type shutdowner interface {
	Shutdown(context.Context) error
}

// Telemetry owns the providers built for one CLI run.
type Telemetry struct {
	config *Config

	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
	metrics        *Metrics

	// providers are shut down in reverse order
	providers    []shutdowner
	shutdownOnce sync.Once
	shutdownErr  error
}

// Init builds the providers cfg asks for, exporting to w. The returned
// cleanup flushes and shuts them down.
func Init(ctx context.Context, cfg *Config, w io.Writer) (*Telemetry, func(), error) {
	tel := &Telemetry{config: cfg}
	if !cfg.ShouldEnable() {
		return tel, func() {}, nil
	}
	if cfg.Exporter != ExporterStdout {
		return nil, nil, fmt.Errorf("unknown exporter: %s", cfg.Exporter)
	}

	res, err := resource.New(ctx, resource.WithAttributes(
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(Version),
	))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create resource: %w", err)
	}

	if cfg.TracesEnabled {
		tp, err := newTracerProvider(res, cfg.SampleRate, w)
		if err != nil {
			return nil, nil, err
		}
		tel.tracerProvider = tp
		tel.providers = append(tel.providers, tp)
	}

	if cfg.MetricsEnabled {
		mp, err := newMeterProvider(res, w)
		if err != nil {
			_ = tel.Shutdown(ctx)
			return nil, nil, err
		}
		tel.meterProvider = mp
		tel.providers = append(tel.providers, mp)

		if tel.metrics, err = InitMetrics(mp); err != nil {
			_ = tel.Shutdown(ctx)
			return nil, nil, err
		}
	}

	return tel, tel.Cleanup, nil
}

// TracerProvider returns the tracer provider, or a no-op one when traces
// are off.
func (t *Telemetry) TracerProvider() trace.TracerProvider {
	if t.tracerProvider != nil {
		return t.tracerProvider
	}
	return tracenoop.NewTracerProvider()
}

// MeterProvider returns the meter provider, or a no-op one when metrics
// are off.
func (t *Telemetry) MeterProvider() metric.MeterProvider {
	if t.meterProvider != nil {
		return t.meterProvider
	}
	return metricnoop.NewMeterProvider()
}

// Metrics returns the instruments, or nil when metrics are off.
func (t *Telemetry) Metrics() *Metrics {
	return t.metrics
}

// Shutdown flushes and closes every provider. Only the first call does work.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	t.shutdownOnce.Do(func() {
		var errs []error
		for i := len(t.providers) - 1; i >= 0; i-- {
			if err := t.providers[i].Shutdown(ctx); err != nil {
				errs = append(errs, err)
			}
		}
		t.shutdownErr = errors.Join(errs...)
	})
	return t.shutdownErr
}

// Cleanup shuts down with a bounded timeout, for use with defer.
func (t *Telemetry) Cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	_ = t.Shutdown(ctx)
}

// Config returns the telemetry configuration.
func (t *Telemetry) Config() *Config {
	return t.config
}
