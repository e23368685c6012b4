package graph

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// WinnerSet maps an artifact key ("groupId:artifactId") to the version the
// resolver selected for it.
type WinnerSet map[string]string

// Lookup returns the winning version of an artifact key.
func (w WinnerSet) Lookup(key string) (string, bool) {
	v, ok := w[key]
	return v, ok
}

// LoadWinnerSet parses `mvn dependency:list` output. Each resolved artifact
// line looks like
//
//	[INFO]    org.springframework:spring-core:jar:5.3.21:compile -- module spring.core [auto]
//
// Lines that do not carry coordinates are skipped.
func LoadWinnerSet(r io.Reader) (WinnerSet, error) {
	winners := make(WinnerSet)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		artifact, ok := parseListLine(scanner.Text())
		if !ok {
			continue
		}
		if existing, dup := winners[artifact.Key()]; dup && existing != artifact.Version {
			return nil, fmt.Errorf("%w: %s listed as %s and %s", ErrAmbiguousWinner, artifact.Key(), existing, artifact.Version)
		}
		winners[artifact.Key()] = artifact.Version
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read dependency list: %w", err)
	}
	return winners, nil
}

// LoadWinnerSetFile opens path and parses it with LoadWinnerSet.
func LoadWinnerSetFile(path string) (WinnerSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dependency list: %w", err)
	}
	defer func() { _ = f.Close() }()
	return LoadWinnerSet(f)
}

func parseListLine(line string) (*Artifact, bool) {
	line = strings.TrimSpace(line)
	line = strings.TrimPrefix(line, "[INFO]")
	if i := strings.Index(line, " -- "); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimSuffix(strings.TrimSpace(line), "(optional)")
	line = strings.TrimSpace(line)

	if line == "" || strings.ContainsAny(line, " \t") {
		return nil, false
	}

	artifact, err := ParseCoordinates(line)
	if err != nil || artifact.Scope == "" || artifact.GroupID == "" || artifact.Version == "" {
		return nil, false
	}
	return artifact, true
}

// WinnersFromTree derives a winner set from a resolved (non-verbose) tree, in
// which every artifact appears with its selected version only. The root
// artifact is included. A tree that lists an artifact with two versions is
// not a resolved tree and yields ErrAmbiguousWinner.
func WinnersFromTree(root *Node) (WinnerSet, error) {
	winners := make(WinnerSet)
	var err error

	root.Accept(&winnerVisitor{winners: winners, err: &err})
	if err != nil {
		return nil, err
	}
	return winners, nil
}

type winnerVisitor struct {
	winners WinnerSet
	err     *error
}

func (v *winnerVisitor) VisitEnter(n *Node) bool {
	if *v.err != nil {
		return false
	}
	if n.Artifact == nil {
		return true
	}
	key := n.Artifact.Key()
	if existing, ok := v.winners[key]; ok && existing != n.Artifact.Version {
		*v.err = fmt.Errorf("%w: %s appears as %s and %s", ErrAmbiguousWinner, key, existing, n.Artifact.Version)
		return false
	}
	v.winners[key] = n.Artifact.Version
	return true
}

func (v *winnerVisitor) VisitLeave(*Node) bool {
	return *v.err == nil
}
