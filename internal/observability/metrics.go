package observability

import (
	"context"
	"fmt"
	"io"

	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

// Metrics holds the conversion metric instruments. A nil *Metrics records
// nothing.
type Metrics struct {
	Conversions metric.Int64Counter
	Warnings    metric.Int64Counter
	Errors      metric.Int64Counter
	LiteralSize metric.Int64Histogram
}

// InitMetrics initializes and returns metric instruments.
func InitMetrics(mp metric.MeterProvider) (*Metrics, error) {
	meter := mp.Meter("odbcconv")

	m := &Metrics{}

	var err error
	m.Conversions, err = meter.Int64Counter(
		"odbcconv.conversions",
		metric.WithDescription("Number of value conversions"),
		metric.WithUnit("{conversion}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create conversions counter: %w", err)
	}

	m.Warnings, err = meter.Int64Counter(
		"odbcconv.warnings",
		metric.WithDescription("Warnings raised by conversions"),
		metric.WithUnit("{warning}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create warnings counter: %w", err)
	}

	m.Errors, err = meter.Int64Counter(
		"odbcconv.errors",
		metric.WithDescription("Conversions that failed"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create errors counter: %w", err)
	}

	m.LiteralSize, err = meter.Int64Histogram(
		"odbcconv.literal_size",
		metric.WithDescription("Size of SQL literals produced by store conversions"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create literal size histogram: %w", err)
	}

	return m, nil
}

// RecordConversion counts one conversion in the given direction.
func (m *Metrics) RecordConversion(ctx context.Context, direction, sqlType, cType string) {
	if m == nil {
		return
	}
	m.Conversions.Add(ctx, 1, metric.WithAttributes(
		AttrDirection.String(direction),
		AttrSQLType.String(sqlType),
		AttrCType.String(cType),
	))
}

// RecordWarning counts a warning diagnostic.
func (m *Metrics) RecordWarning(ctx context.Context, direction, sqlstate string) {
	if m == nil {
		return
	}
	m.Warnings.Add(ctx, 1, metric.WithAttributes(
		AttrDirection.String(direction),
		AttrSQLState.String(sqlstate),
	))
}

// RecordError counts a failed conversion.
func (m *Metrics) RecordError(ctx context.Context, direction, sqlstate string) {
	if m == nil {
		return
	}
	m.Errors.Add(ctx, 1, metric.WithAttributes(
		AttrDirection.String(direction),
		AttrSQLState.String(sqlstate),
	))
}

// RecordLiteralSize records the byte size of a produced literal.
func (m *Metrics) RecordLiteralSize(ctx context.Context, n int) {
	if m == nil {
		return
	}
	m.LiteralSize.Record(ctx, int64(n))
}

// newMeterProvider exports metrics to w on every period and at shutdown.
func newMeterProvider(res *resource.Resource, w io.Writer) (*sdkmetric.MeterProvider, error) {
	exporter, err := stdoutmetric.New(stdoutmetric.WithWriter(w))
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout metric exporter: %w", err)
	}
	return sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)),
		sdkmetric.WithResource(res),
	), nil
}
