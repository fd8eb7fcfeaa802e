package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the name of the tracer for transcript processing.
const TracerName = "scribe"

// Span attribute keys.
const (
	AttrRunID       = "run_id"
	AttrMeetingName = "meeting_name"
	AttrMeetingType = "meeting_type"
	AttrCategory    = "category"
	AttrEntityType  = "entity_type"
	AttrModel       = "model"
)

// Span names.
const (
	SpanProcessTranscript = "scribe.process_transcript"
	SpanResolve           = "scribe.resolve"
	SpanPersist           = "scribe.persist"
)

// Tracer provides distributed tracing for transcript processing.
type Tracer struct {
	tracer trace.Tracer
}

// NewTracer creates a tracer for transcript processing spans.
func NewTracer() *Tracer {
	return &Tracer{
		tracer: otel.Tracer(TracerName),
	}
}

// StartRunSpan starts a root span for one processing run.
func (t *Tracer) StartRunSpan(ctx context.Context, runID, meetingName, meetingType string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, SpanProcessTranscript,
		trace.WithAttributes(
			attribute.String(AttrRunID, runID),
			attribute.String(AttrMeetingName, meetingName),
			attribute.String(AttrMeetingType, meetingType),
		),
	)
}

// StartExtractionSpan starts a span for one extraction category.
func (t *Tracer) StartExtractionSpan(ctx context.Context, category string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, fmt.Sprintf("scribe.extract.%s", category),
		trace.WithAttributes(
			attribute.String(AttrCategory, category),
		),
	)
}

// StartResolveSpan starts a span for the resolution step.
func (t *Tracer) StartResolveSpan(ctx context.Context) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, SpanResolve)
}

// StartPersistSpan starts a span for the persistence transaction.
func (t *Tracer) StartPersistSpan(ctx context.Context) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, SpanPersist)
}

// EndSpan records err on the span, sets its status, and ends it.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
