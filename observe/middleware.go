package observe

import (
	"context"
	"time"
)

// PatchFunc applies one cache patch and reports what happened.
type PatchFunc func(ctx context.Context, op Operation) Result

// Middleware wraps cache patches with observability (tracing, metrics, logging).
//
// Contract:
//   - Concurrency: Wrap() returns a thread-safe PatchFunc.
//   - Context: Propagates context through tracing spans.
//   - Ownership: the Result is returned unchanged.
type Middleware struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewMiddleware creates a new Middleware. Nil components are replaced by no-ops.
func NewMiddleware(tracer Tracer, metrics Metrics, logger Logger) *Middleware {
	if tracer == nil {
		tracer = newNoopTracer()
	}
	if metrics == nil {
		metrics = &noopMetrics{}
	}
	if logger == nil {
		logger = &noopLogger{}
	}
	return &Middleware{
		tracer:  tracer,
		metrics: metrics,
		logger:  logger,
	}
}

// Wrap wraps a PatchFunc with tracing, metrics, and logging.
func (m *Middleware) Wrap(fn PatchFunc) PatchFunc {
	return func(ctx context.Context, op Operation) Result {
		ctx, span := m.tracer.StartSpan(ctx, op)

		start := time.Now()
		res := fn(ctx, op)
		duration := time.Since(start)

		m.tracer.EndSpan(span, res)
		m.metrics.RecordPatch(ctx, op, res, duration)

		opLogger := m.logger.WithOperation(op)
		fields := []Field{
			{Key: "outcome", Value: res.Outcome},
			{Key: "duration_ms", Value: float64(duration.Microseconds()) / 1000},
		}

		switch {
		case res.Err != nil:
			fields = append(fields, Field{Key: "error", Value: res.Err.Error()})
			opLogger.Error(ctx, "cache patch failed", fields...)
		case res.Applied:
			opLogger.Info(ctx, "cache patch applied", fields...)
		default:
			opLogger.Debug(ctx, "cache patch skipped", fields...)
		}

		return res
	}
}

// MiddlewareFromObserver creates a Middleware from an Observer.
func MiddlewareFromObserver(obs Observer) (*Middleware, error) {
	if obs == nil {
		return nil, ErrNilObserver
	}

	metrics, err := newMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}

	return NewMiddleware(NewTracer(obs.Tracer()), metrics, obs.Logger()), nil
}
