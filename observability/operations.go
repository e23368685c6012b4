package observability

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	// TracerName is the tracer name for conflictdiff operations
	TracerName = "github.com/willibrandon/conflictdiff"
)

// Common attribute keys
const (
	AttrStrategy      = attribute.Key("conflictdiff.strategy")
	AttrSnapshot      = attribute.Key("conflictdiff.snapshot")
	AttrConflictCount = attribute.Key("conflictdiff.conflict.count")
	AttrOperation     = attribute.Key("conflictdiff.operation")
)

// StartCollectSpan starts a span for collecting the conflicts of one snapshot
func StartCollectSpan(ctx context.Context, strategy, snapshot string) (context.Context, trace.Span) {
	return StartSpan(ctx, "conflicts.collect",
		trace.WithAttributes(
			AttrStrategy.String(strategy),
			AttrSnapshot.String(snapshot),
			AttrOperation.String("collect"),
		),
	)
}

// StartCompareSpan starts a span for comparing base and current conflicts
func StartCompareSpan(ctx context.Context, baseCount, currentCount int) (context.Context, trace.Span) {
	return StartSpan(ctx, "conflicts.compare",
		trace.WithAttributes(
			attribute.Int("conflictdiff.base.count", baseCount),
			attribute.Int("conflictdiff.current.count", currentCount),
			AttrOperation.String("compare"),
		),
	)
}

// StartCommandSpan starts a span for an external command run on behalf of a
// snapshot (git, mvn).
func StartCommandSpan(ctx context.Context, name, dir string) (context.Context, trace.Span) {
	return StartSpan(ctx, "command.run",
		trace.WithAttributes(
			attribute.String("command.name", name),
			attribute.String("command.dir", dir),
		),
	)
}

// RecordConflictCount records the number of collected conflicts on the current span
func RecordConflictCount(ctx context.Context, count int) {
	trace.SpanFromContext(ctx).SetAttributes(AttrConflictCount.Int(count))
}

// EndSpanWithError ends a span with an error status
func EndSpanWithError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
