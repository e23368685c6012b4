package strategy

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/willibrandon/conflictdiff/graph"
)

// ErrUnknownSnapshot indicates a source has no input for the requested snapshot
var ErrUnknownSnapshot = errors.New("unknown snapshot")

// ErrNoWinners indicates a graph input without a winner set. A verbose tree
// lists losing versions next to the winners and cannot name them itself.
var ErrNoWinners = errors.New("no winner set: give dependency:list output or a resolved tree")

// Snapshots maps a snapshot name (usually a branch) to a directory or file.
type Snapshots map[string]string

func (s Snapshots) lookup(snapshot string) (string, error) {
	path, ok := s[snapshot]
	if !ok || path == "" {
		return "", fmt.Errorf("%w: %s", ErrUnknownSnapshot, snapshot)
	}
	return path, nil
}

// FileTreeSource reads saved dependency:tree -Dverbose output, one file per
// snapshot.
type FileTreeSource struct {
	Files Snapshots
}

// Lines implements LineSource.
func (s *FileTreeSource) Lines(_ context.Context, snapshot string) ([]string, error) {
	path, err := s.Files.lookup(snapshot)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dependency tree: %w", err)
	}
	defer func() { _ = f.Close() }()

	return readLines(f)
}

// ReaderLineSource reads lines from Reader whatever the snapshot. The first
// call consumes the reader, so it suits a single tree piped through stdin.
type ReaderLineSource struct {
	Reader io.Reader
}

// Lines implements LineSource.
func (s *ReaderLineSource) Lines(context.Context, string) ([]string, error) {
	return readLines(s.Reader)
}

// StaticLineSource serves in-memory lines per snapshot.
type StaticLineSource map[string][]string

// Lines implements LineSource.
func (s StaticLineSource) Lines(_ context.Context, snapshot string) ([]string, error) {
	lines, ok := s[snapshot]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSnapshot, snapshot)
	}
	return lines, nil
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read lines: %w", err)
	}
	return lines, nil
}

// GraphFiles locates the saved graph inputs of one snapshot.
type GraphFiles struct {
	// Tree is the verbose dependency:tree -DoutputType=json document
	Tree string

	// List is dependency:list output naming the selected versions
	List string

	// Resolved is a non-verbose dependency:tree -DoutputType=json document.
	// It names the selected versions when List is empty.
	Resolved string
}

// FileGraphSource loads graphs from saved Maven output files.
type FileGraphSource struct {
	Files map[string]GraphFiles
}

// Load implements GraphSource.
func (s *FileGraphSource) Load(_ context.Context, snapshot string) (*graph.Node, graph.WinnerSet, error) {
	files, ok := s.Files[snapshot]
	if !ok || files.Tree == "" {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownSnapshot, snapshot)
	}

	root, err := graph.LoadTreeJSONFile(files.Tree)
	if err != nil {
		return nil, nil, err
	}

	winners, err := files.winners()
	if err != nil {
		return nil, nil, err
	}
	return root, winners, nil
}

func (f GraphFiles) winners() (graph.WinnerSet, error) {
	switch {
	case f.List != "":
		return graph.LoadWinnerSetFile(f.List)
	case f.Resolved != "":
		resolved, err := graph.LoadTreeJSONFile(f.Resolved)
		if err != nil {
			return nil, err
		}
		return graph.WinnersFromTree(resolved)
	}
	return nil, ErrNoWinners
}

// StaticGraphSource serves in-memory graphs per snapshot.
type StaticGraphSource map[string]StaticGraph

// StaticGraph is a graph with its winner set.
type StaticGraph struct {
	Root    *graph.Node
	Winners graph.WinnerSet
}

// Load implements GraphSource.
func (s StaticGraphSource) Load(_ context.Context, snapshot string) (*graph.Node, graph.WinnerSet, error) {
	g, ok := s[snapshot]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownSnapshot, snapshot)
	}
	return g.Root, g.Winners, nil
}
