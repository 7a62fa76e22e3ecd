package observability

import (
	"fmt"
	"io"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Common span and metric attributes
var (
	AttrDirection = attribute.Key("odbcconv.direction")
	AttrSQLType   = attribute.Key("odbcconv.sql_type")
	AttrCType     = attribute.Key("odbcconv.c_type")
	AttrSQLState  = attribute.Key("odbcconv.sqlstate")
	AttrStatus    = attribute.Key("odbcconv.status")
	AttrLength    = attribute.Key("odbcconv.length")
)

// newTracerProvider exports spans to w as each one ends.
func newTracerProvider(res *resource.Resource, sampleRate float64, w io.Writer) (*sdktrace.TracerProvider, error) {
	exporter, err := stdouttrace.New(
		stdouttrace.WithWriter(w),
		stdouttrace.WithPrettyPrint(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(sampleRate))),
	), nil
}
