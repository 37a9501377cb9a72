package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// Operation describes one cache patch for telemetry purposes.
type Operation struct {
	Field      string // Mutation or subscription payload field, e.g. "createPost" (required)
	Kind       string // add|update|remove|auto
	QueryField string // Root field of the cached query, e.g. "posts" (optional)
}

// SpanName returns the deterministic span name for this operation.
// Format: cachepatch.<field>
func (o Operation) SpanName() string {
	if o.Field == "" {
		return "cachepatch.unknown"
	}
	return "cachepatch." + o.Field
}

func (o Operation) attributes() []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("patch.field", o.Field),
		attribute.String("patch.kind", o.Kind),
	}
	if o.QueryField != "" {
		attrs = append(attrs, attribute.String("patch.query_field", o.QueryField))
	}
	return attrs
}

// Result is what a patch reports back to the middleware.
type Result struct {
	Outcome string // applied, not_cached, ...
	Applied bool
	Err     error // set when the patch failed, e.g. the cache write errored
}

// Tracer wraps OpenTelemetry tracing with patch-specific span management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	// StartSpan starts a new span for a patch.
	StartSpan(ctx context.Context, op Operation) (context.Context, trace.Span)

	// EndSpan ends the span, recording the outcome and any error.
	EndSpan(span trace.Span, res Result)
}

// tracerImpl is the concrete implementation of Tracer.
type tracerImpl struct {
	tracer trace.Tracer
}

// NewTracer creates a Tracer wrapping the given OpenTelemetry tracer.
func NewTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

// StartSpan starts a new span with operation metadata as attributes.
func (t *tracerImpl) StartSpan(ctx context.Context, op Operation) (context.Context, trace.Span) {
	attrs := append(op.attributes(), attribute.Bool("patch.error", false))

	return t.tracer.Start(ctx, op.SpanName(),
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpan ends the span and records the outcome.
func (t *tracerImpl) EndSpan(span trace.Span, res Result) {
	span.SetAttributes(
		attribute.String("patch.outcome", res.Outcome),
		attribute.Bool("patch.applied", res.Applied),
	)
	if res.Err != nil {
		span.SetStatus(codes.Error, res.Err.Error())
		span.SetAttributes(attribute.Bool("patch.error", true))
		span.RecordError(res.Err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// noopTracer is a tracer that does nothing.
type noopTracer struct {
	noop trace.Tracer
}

func newNoopTracer() Tracer {
	return &noopTracer{
		noop: tracenoop.NewTracerProvider().Tracer("noop"),
	}
}

func (t *noopTracer) StartSpan(ctx context.Context, op Operation) (context.Context, trace.Span) {
	return t.noop.Start(ctx, op.SpanName())
}

func (t *noopTracer) EndSpan(span trace.Span, res Result) {
	span.End()
}
