package fetch

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// resolveSpanName is the name of the span around a resolution.
const resolveSpanName = "fetch.Resolve"

// startSpan starts the resolution span.
func (r *Resolver) startSpan(ctx context.Context) (context.Context, trace.Span) {
	return r.cfg.Tracer.Start(ctx, resolveSpanName,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(r.cfg.baseAttributes()...),
	)
}

// endSpan annotates the span with the outcome and ends it.
func endSpan(span trace.Span, res *Resolved, err error) {
	defer span.End()

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}

	if res == nil || !span.IsRecording() {
		return
	}

	span.SetAttributes(
		attribute.String("http.request.method", res.Method),
		attribute.String("url.full", res.Href),
		attribute.String("fetch.body.kind", res.BodyKind.String()),
	)
}
