package fetch

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Outcome values for the "fetch.resolve.outcome" attribute.
const (
	outcomeOK    = "ok"
	outcomeError = "error"
)

// metrics holds the metric instruments for option resolution.
type metrics struct {
	// resolveCount counts resolutions by body kind and outcome.
	resolveCount metric.Int64Counter

	// resolveDuration measures resolution time in seconds.
	resolveDuration metric.Float64Histogram
}

// newMetrics creates and registers metric instruments.
func newMetrics(meter metric.Meter) (*metrics, error) {
	m := &metrics{}
	var err error

	m.resolveCount, err = meter.Int64Counter(
		"fetch.resolve.count",
		metric.WithDescription("Number of resolved request configurations"),
		metric.WithUnit("{resolution}"),
	)
	if err != nil {
		return nil, err
	}

	m.resolveDuration, err = meter.Float64Histogram(
		"fetch.resolve.duration",
		metric.WithDescription("Duration of request configuration resolution in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05,
		),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

// recordResolve records one resolution.
func (m *metrics) recordResolve(
	ctx context.Context,
	duration time.Duration,
	kind BodyKind,
	outcome string,
	attrs []attribute.KeyValue,
) {
	if m == nil || m.resolveCount == nil || m.resolveDuration == nil {
		return
	}

	allAttrs := make([]attribute.KeyValue, 0, len(attrs)+2)
	allAttrs = append(allAttrs, attrs...)
	allAttrs = append(allAttrs,
		attribute.String("fetch.body.kind", kind.String()),
		attribute.String("fetch.resolve.outcome", outcome),
	)

	m.resolveCount.Add(ctx, 1, metric.WithAttributes(allAttrs...))
	m.resolveDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(allAttrs...))
}
