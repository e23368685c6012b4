// Package strategy extracts dependency conflicts from one snapshot of a
// Maven project.
//
// Two collectors share the Collector contract. GraphCollector walks a full
// dependency graph and compares every observed version with the version the
// resolver selected. TreeCollector scrapes the "omitted for conflict with"
// notes out of verbose dependency:tree output. Both return one
// DependencyConflict per conflicting artifact, sorted by artifact key.
package strategy

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/willibrandon/conflictdiff/conflict"
	"github.com/willibrandon/conflictdiff/observability"
)

// Strategy names.
const (
	GraphStrategy = "graph"
	TreeStrategy  = "tree"
)

// Collector extracts the dependency conflicts of a named snapshot. A
// Collector holds no state between calls, but implementations are not
// required to support concurrent calls.
type Collector interface {
	Name() string
	Collect(ctx context.Context, snapshot string) ([]*conflict.DependencyConflict, error)
}

// ErrUnknownStrategy indicates a strategy name other than "graph" or "tree"
var ErrUnknownStrategy = errors.New("unknown strategy")

// New returns the collector for the named strategy. The graph strategy reads
// from graphs and the tree strategy from lines; the other source may be nil.
func New(name string, graphs GraphSource, lines LineSource, logger observability.Logger) (Collector, error) {
	switch name {
	case GraphStrategy:
		if graphs == nil {
			return nil, fmt.Errorf("%s strategy requires a graph source", name)
		}
		return NewGraphCollector(graphs, logger), nil
	case TreeStrategy:
		if lines == nil {
			return nil, fmt.Errorf("%s strategy requires a tree source", name)
		}
		return NewTreeCollector(lines, logger), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}

func sortByKey(conflicts []*conflict.DependencyConflict) {
	sort.Slice(conflicts, func(i, j int) bool {
		return conflicts[i].ArtifactKey() < conflicts[j].ArtifactKey()
	})
}

// instrument wraps one collection with a span, duration and outcome metrics
// and a summary log line.
func instrument(ctx context.Context, logger observability.Logger, strategy, snapshot string,
	collect func(ctx context.Context) ([]*conflict.DependencyConflict, error)) ([]*conflict.DependencyConflict, error) {

	ctx, span := observability.StartCollectSpan(ctx, strategy, snapshot)
	start := time.Now()

	logger.DebugContext(ctx, "Collecting dependency conflicts for {Snapshot} using {Strategy}", snapshot, strategy)
	conflicts, err := collect(ctx)

	observability.CollectDuration.WithLabelValues(strategy).Observe(time.Since(start).Seconds())
	if err != nil {
		observability.CollectionsTotal.WithLabelValues(strategy, "failure").Inc()
		observability.EndSpanWithError(span, err)
		return nil, err
	}

	observability.CollectionsTotal.WithLabelValues(strategy, "success").Inc()
	observability.ConflictsCollectedTotal.WithLabelValues(strategy).Add(float64(len(conflicts)))
	observability.RecordConflictCount(ctx, len(conflicts))
	observability.EndSpanWithError(span, nil)

	logger.InfoContext(ctx, "Collected {ConflictCount} conflicts for {Snapshot}", len(conflicts), snapshot)
	return conflicts, nil
}
