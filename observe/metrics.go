package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records cache patch metrics.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must honor cancellation/deadlines and return quickly.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordPatch records one patch with its outcome and duration.
	RecordPatch(ctx context.Context, op Operation, res Result, duration time.Duration)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	totalCount   metric.Int64Counter
	appliedCount metric.Int64Counter
	durationHist metric.Float64Histogram
}

// NewMetrics creates the cachepatch.* instruments on meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	return newMetrics(meter)
}

func newMetrics(meter metric.Meter) (*metricsImpl, error) {
	totalCount, err := meter.Int64Counter(
		"cachepatch.total",
		metric.WithDescription("Total number of cache patch attempts"),
		metric.WithUnit("{patch}"),
	)
	if err != nil {
		return nil, err
	}

	appliedCount, err := meter.Int64Counter(
		"cachepatch.applied",
		metric.WithDescription("Number of patches written back to the cache"),
		metric.WithUnit("{patch}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"cachepatch.duration_ms",
		metric.WithDescription("Cache patch duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		totalCount:   totalCount,
		appliedCount: appliedCount,
		durationHist: durationHist,
	}, nil
}

// RecordPatch records metrics for one patch.
func (m *metricsImpl) RecordPatch(ctx context.Context, op Operation, res Result, duration time.Duration) {
	base := []attribute.KeyValue{
		attribute.String("field", op.Field),
		attribute.String("kind", op.Kind),
	}

	m.totalCount.Add(ctx, 1, metric.WithAttributes(
		append(base, attribute.String("outcome", res.Outcome))...,
	))

	opt := metric.WithAttributes(base...)
	if res.Applied {
		m.appliedCount.Add(ctx, 1, opt)
	}
	m.durationHist.Record(ctx, float64(duration.Microseconds())/1000, opt)
}

// noopMetrics is a metrics implementation that does nothing.
type noopMetrics struct{}

func (m *noopMetrics) RecordPatch(ctx context.Context, op Operation, res Result, duration time.Duration) {
}
