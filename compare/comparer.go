package compare

import (
	"context"

	"github.com/willibrandon/conflictdiff/conflict"
	"github.com/willibrandon/conflictdiff/observability"
)

// Comparer runs Compare with logging, metrics and a trace span.
type Comparer struct {
	logger observability.Logger
}

// NewComparer creates a Comparer. A nil logger discards output.
func NewComparer(logger observability.Logger) *Comparer {
	return &Comparer{logger: observability.OrNull(logger)}
}

// Compare classifies current against base. See the package-level Compare.
func (c *Comparer) Compare(ctx context.Context, base, current []*conflict.DependencyConflict) (*Result, error) {
	ctx, span := observability.StartCompareSpan(ctx, len(base), len(current))

	result, err := Compare(base, current)
	if err != nil {
		c.logger.ErrorContext(ctx, "Comparing dependency conflicts failed: {Error}", err)
		observability.EndSpanWithError(span, err)
		return nil, err
	}

	summary := result.Summary()
	observability.CompareResultsTotal.WithLabelValues("resolved").Add(float64(summary.Resolved))
	observability.CompareResultsTotal.WithLabelValues("new").Add(float64(summary.New))
	observability.CompareResultsTotal.WithLabelValues("changed").Add(float64(summary.Changed))

	c.logger.DebugContext(ctx, "Compared conflicts: {Resolved} resolved, {New} new, {Changed} changed",
		summary.Resolved, summary.New, summary.Changed)
	observability.EndSpanWithError(span, nil)
	return result, nil
}
