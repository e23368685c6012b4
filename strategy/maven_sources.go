package strategy

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/willibrandon/conflictdiff/graph"
	"github.com/willibrandon/conflictdiff/workspace"
)

// MavenTreeSource runs dependency:tree -Dverbose in the directory of each
// snapshot.
type MavenTreeSource struct {
	Maven *workspace.Maven
	Dirs  Snapshots
}

// Lines implements LineSource.
func (s *MavenTreeSource) Lines(ctx context.Context, snapshot string) ([]string, error) {
	dir, err := s.Dirs.lookup(snapshot)
	if err != nil {
		return nil, err
	}
	return s.Maven.DependencyTree(ctx, dir, true)
}

// MavenGraphSource runs dependency:tree with JSON output and dependency:list
// in the directory of each snapshot. The JSON document goes to a temporary
// directory that is removed after loading.
type MavenGraphSource struct {
	Maven *workspace.Maven
	Dirs  Snapshots
}

// Load implements GraphSource.
func (s *MavenGraphSource) Load(ctx context.Context, snapshot string) (*graph.Node, graph.WinnerSet, error) {
	dir, err := s.Dirs.lookup(snapshot)
	if err != nil {
		return nil, nil, err
	}

	tmp, err := os.MkdirTemp("", "conflictdiff-tree-")
	if err != nil {
		return nil, nil, fmt.Errorf("create tree directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(tmp) }()

	treeFile := filepath.Join(tmp, "dependency-tree.json")
	if err := s.Maven.DependencyTreeJSON(ctx, dir, treeFile); err != nil {
		return nil, nil, err
	}
	root, err := graph.LoadTreeJSONFile(treeFile)
	if err != nil {
		return nil, nil, err
	}

	lines, err := s.Maven.DependencyList(ctx, dir)
	if err != nil {
		return nil, nil, err
	}
	winners, err := graph.LoadWinnerSet(strings.NewReader(strings.Join(lines, "\n")))
	if err != nil {
		return nil, nil, err
	}
	return root, winners, nil
}
