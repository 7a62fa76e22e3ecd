package observability

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// EndFunc closes a conversion span with its final status and error.
type EndFunc func(status string, err error)

// StartConversion opens a span around one conversion driven from the CLI.
// direction is "fetch" or "store".
func (t *Telemetry) StartConversion(ctx context.Context, direction string, attrs ...attribute.KeyValue) (context.Context, EndFunc) {
	tracer := t.TracerProvider().Tracer("odbcconv")

	attrs = append([]attribute.KeyValue{AttrDirection.String(direction)}, attrs...)
	ctx, span := tracer.Start(ctx, "odbcconv."+direction,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)

	return ctx, func(status string, err error) {
		span.SetAttributes(AttrStatus.String(status))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
	}
}
