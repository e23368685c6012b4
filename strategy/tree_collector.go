package strategy

import (
	"context"
	"fmt"
	"regexp"

	"github.com/willibrandon/conflictdiff/conflict"
	"github.com/willibrandon/conflictdiff/observability"
)

// omittedPattern matches the note dependency:tree -Dverbose prints for a
// dependency that lost version mediation:
//
//	(org.springframework:spring-jcl:jar:5.3.20:compile - omitted for conflict with 5.3.21)
//	(g:a:jar:linux:1.0:runtime - version managed from 0.9; omitted for conflict with 2.0)
//
// Groups: groupId, artifactId, type, classifier (optional), losing version,
// scope, winning version.
var omittedPattern = regexp.MustCompile(
	`\(([^:()\s]+):([^:()\s]+):([^:()\s]+)(?::([^:()\s]+))?:([^:()\s]+):([^:()\s]+)\s*-\s*(?:[^)]*?;\s*)?omitted for conflict with\s+([^)\s]+)\)`)

// LineSource supplies the verbose dependency:tree output of a snapshot.
type LineSource interface {
	Lines(ctx context.Context, snapshot string) ([]string, error)
}

// TreeCollector finds conflicts in verbose dependency:tree output. Each
// "omitted for conflict" note counts once toward its version pair.
type TreeCollector struct {
	source LineSource
	logger observability.Logger
}

// NewTreeCollector creates a TreeCollector reading from source.
func NewTreeCollector(source LineSource, logger observability.Logger) *TreeCollector {
	return &TreeCollector{source: source, logger: observability.OrNull(logger)}
}

// Name implements Collector.
func (c *TreeCollector) Name() string {
	return TreeStrategy
}

// Collect implements Collector.
func (c *TreeCollector) Collect(ctx context.Context, snapshot string) ([]*conflict.DependencyConflict, error) {
	return instrument(ctx, c.logger, TreeStrategy, snapshot, func(ctx context.Context) ([]*conflict.DependencyConflict, error) {
		lines, err := c.source.Lines(ctx, snapshot)
		if err != nil {
			return nil, fmt.Errorf("read dependency tree for %s: %w", snapshot, err)
		}
		observability.TreeLinesScannedTotal.Add(float64(len(lines)))
		c.logger.Verbose("Scanning {LineCount} dependency tree lines for {Snapshot}", len(lines), snapshot)

		conflicts, err := ParseConflicts(lines)
		if err != nil {
			return nil, fmt.Errorf("collect conflicts for %s: %w", snapshot, err)
		}
		return conflicts, nil
	})
}

// ParseConflicts extracts conflicts from dependency:tree output lines. Lines
// without an "omitted for conflict" note are ignored.
func ParseConflicts(lines []string) ([]*conflict.DependencyConflict, error) {
	byKey := make(map[string]*conflict.DependencyConflict)

	for _, line := range lines {
		m := omittedPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		key := m[1] + ":" + m[2]
		losing, winning := m[5], m[7]

		pair, err := conflict.ParseVersionConflict(losing, winning, 1)
		if err != nil {
			return nil, fmt.Errorf("artifact %s: %w", key, err)
		}

		dc, ok := byKey[key]
		if !ok {
			dc, err = conflict.NewDependencyConflict(key)
			if err != nil {
				return nil, err
			}
			byKey[key] = dc
		}
		if err := dc.AddConflict(pair); err != nil {
			return nil, err
		}
	}

	conflicts := make([]*conflict.DependencyConflict, 0, len(byKey))
	for _, dc := range byKey {
		conflicts = append(conflicts, dc)
	}
	sortByKey(conflicts)
	return conflicts, nil
}
