package strategy

import (
	"context"
	"fmt"

	"github.com/willibrandon/conflictdiff/conflict"
	"github.com/willibrandon/conflictdiff/graph"
	"github.com/willibrandon/conflictdiff/observability"
	"github.com/willibrandon/conflictdiff/version"
)

// GraphSource supplies the dependency graph of a snapshot together with the
// versions the resolver selected for it.
type GraphSource interface {
	Load(ctx context.Context, snapshot string) (*graph.Node, graph.WinnerSet, error)
}

// GraphCollector finds conflicts by walking the whole dependency graph.
//
// Every artifact that appears with more than one distinct version is a
// conflict. Each observed version other than the winner becomes a
// VersionConflict whose count is the number of graph positions requesting it.
type GraphCollector struct {
	source GraphSource
	logger observability.Logger
}

// NewGraphCollector creates a GraphCollector reading from source.
func NewGraphCollector(source GraphSource, logger observability.Logger) *GraphCollector {
	return &GraphCollector{source: source, logger: observability.OrNull(logger)}
}

// Name implements Collector.
func (c *GraphCollector) Name() string {
	return GraphStrategy
}

// Collect implements Collector.
func (c *GraphCollector) Collect(ctx context.Context, snapshot string) ([]*conflict.DependencyConflict, error) {
	return instrument(ctx, c.logger, GraphStrategy, snapshot, func(ctx context.Context) ([]*conflict.DependencyConflict, error) {
		root, winners, err := c.source.Load(ctx, snapshot)
		if err != nil {
			return nil, fmt.Errorf("load dependency graph for %s: %w", snapshot, err)
		}

		conflicts, err := ExtractConflicts(root, winners)
		if err != nil {
			return nil, fmt.Errorf("collect conflicts for %s: %w", snapshot, err)
		}
		return conflicts, nil
	})
}

// observedVersion counts graph positions requesting one distinct version.
type observedVersion struct {
	version *version.MavenVersion
	count   int
}

// artifactVersions accumulates the distinct versions of one artifact in
// first-seen order.
type artifactVersions struct {
	key      string
	observed []*observedVersion
}

func (a *artifactVersions) add(v *version.MavenVersion) {
	for _, o := range a.observed {
		if o.version.Equals(v) {
			o.count++
			return
		}
	}
	a.observed = append(a.observed, &observedVersion{version: v, count: 1})
}

func (a *artifactVersions) spellings() []string {
	out := make([]string, len(a.observed))
	for i, o := range a.observed {
		out[i] = o.version.String()
	}
	return out
}

// ExtractConflicts computes the conflicts of a graph against its winner set.
// An artifact with several versions and no winner yields a
// *conflict.MissingWinnerError; no winner is ever inferred.
func ExtractConflicts(root *graph.Node, winners graph.WinnerSet) ([]*conflict.DependencyConflict, error) {
	byKey, order, err := groupVersions(root)
	if err != nil {
		return nil, err
	}

	var conflicts []*conflict.DependencyConflict
	for _, key := range order {
		artifact := byKey[key]
		if len(artifact.observed) < 2 {
			continue
		}

		dc, err := versionConflicts(artifact, winners)
		if err != nil {
			return nil, err
		}
		if !dc.IsEmpty() {
			conflicts = append(conflicts, dc)
		}
	}

	sortByKey(conflicts)
	return conflicts, nil
}

func groupVersions(root *graph.Node) (map[string]*artifactVersions, []string, error) {
	byKey := make(map[string]*artifactVersions)
	var order []string
	var walkErr error

	root.Accept(&versionVisitor{visit: func(n *graph.Node) bool {
		if n.Artifact == nil {
			return true
		}
		v, err := version.Parse(n.Artifact.Version)
		if err != nil {
			walkErr = fmt.Errorf("artifact %s: %w", n.Artifact.Key(), err)
			return false
		}

		key := n.Artifact.Key()
		artifact, ok := byKey[key]
		if !ok {
			artifact = &artifactVersions{key: key}
			byKey[key] = artifact
			order = append(order, key)
		}
		artifact.add(v)
		return true
	}})

	if walkErr != nil {
		return nil, nil, walkErr
	}
	return byKey, order, nil
}

func versionConflicts(artifact *artifactVersions, winners graph.WinnerSet) (*conflict.DependencyConflict, error) {
	winnerText, ok := winners.Lookup(artifact.key)
	if !ok {
		return nil, &conflict.MissingWinnerError{ArtifactKey: artifact.key, Versions: artifact.spellings()}
	}
	winner, err := version.Parse(winnerText)
	if err != nil {
		return nil, fmt.Errorf("winning version of %s: %w", artifact.key, err)
	}

	dc, err := conflict.NewDependencyConflict(artifact.key)
	if err != nil {
		return nil, err
	}
	for _, o := range artifact.observed {
		if o.version.Equals(winner) {
			continue
		}
		pair, err := conflict.NewVersionConflict(o.version, winner, o.count)
		if err != nil {
			return nil, err
		}
		if err := dc.AddConflict(pair); err != nil {
			return nil, err
		}
	}
	return dc, nil
}

// versionVisitor stops the traversal once visit returns false.
type versionVisitor struct {
	visit   func(*graph.Node) bool
	stopped bool
}

func (v *versionVisitor) VisitEnter(n *graph.Node) bool {
	if v.stopped {
		return false
	}
	if !v.visit(n) {
		v.stopped = true
		return false
	}
	return true
}

func (v *versionVisitor) VisitLeave(*graph.Node) bool {
	return !v.stopped
}
