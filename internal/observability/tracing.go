package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/BarkinBalci/storefront-analytics"

// Tracer provides OpenTelemetry tracing for ingestion and analytics queries.
// Spans go to whatever TracerProvider is registered globally, a no-op by default.
type Tracer struct {
	tracer trace.Tracer
}

// NewTracer creates a tracer from the global provider
func NewTracer() *Tracer {
	return &Tracer{
		tracer: otel.Tracer(tracerName),
	}
}

// StartTrackSpan starts a span for recording one event
func (t *Tracer) StartTrackSpan(ctx context.Context, eventID, eventType string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "analytics.track",
		trace.WithAttributes(
			attribute.String("analytics.event_id", eventID),
			attribute.String("analytics.event_type", eventType),
		),
	)
}

// StartQuerySpan starts a span for an aggregation query over a window
func (t *Tracer) StartQuerySpan(ctx context.Context, queryType string, start, end time.Time) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "analytics.query",
		trace.WithAttributes(
			attribute.String("analytics.query_type", queryType),
			attribute.String("analytics.window_start", start.UTC().Format(time.RFC3339)),
			attribute.String("analytics.window_end", end.UTC().Format(time.RFC3339)),
		),
	)
}

// EndSpan ends a span, recording err if set
func (t *Tracer) EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
