package strategy

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willibrandon/conflictdiff/conflict"
	"github.com/willibrandon/conflictdiff/graph"
	"github.com/willibrandon/conflictdiff/version"
)

func node(coords string, children ...*graph.Node) *graph.Node {
	a, err := graph.ParseCoordinates(coords)
	if err != nil {
		panic(err)
	}
	return graph.NewNode(a, children...)
}

// demoGraph has spring-jcl requested three times: once at 5.3.21 (the
// winner) and twice at 5.3.20.
func demoGraph() *graph.Node {
	return node("com.example:demo:jar:1.0.0",
		node("org.springframework:spring-core:jar:5.3.21:compile",
			node("org.springframework:spring-jcl:jar:5.3.21:compile"),
		),
		node("org.apache.commons:commons-lang3:jar:3.12.0:compile",
			node("org.springframework:spring-jcl:jar:5.3.20:compile"),
		),
		node("com.fasterxml.jackson.core:jackson-databind:jar:2.13.4:compile",
			node("org.springframework:spring-jcl:jar:5.3.20:compile"),
			node("org.apache.commons:commons-lang3:jar:3.12.0:compile"),
		),
	)
}

func demoWinners() graph.WinnerSet {
	return graph.WinnerSet{
		"com.example:demo":                            "1.0.0",
		"org.springframework:spring-core":             "5.3.21",
		"org.springframework:spring-jcl":              "5.3.21",
		"org.apache.commons:commons-lang3":            "3.12.0",
		"com.fasterxml.jackson.core:jackson-databind": "2.13.4",
	}
}

func TestExtractConflicts(t *testing.T) {
	conflicts, err := ExtractConflicts(demoGraph(), demoWinners())
	require.NoError(t, err)
	require.Len(t, conflicts, 1)

	dc := conflicts[0]
	assert.Equal(t, "org.springframework:spring-jcl", dc.ArtifactKey())
	require.Equal(t, 1, dc.Len())

	pair := dc.Conflicts()[0]
	assert.Equal(t, "5.3.20", pair.LosingVersion().String())
	assert.Equal(t, "5.3.21", pair.WinningVersion().String())
	assert.Equal(t, 2, pair.Count())
}

func TestExtractConflicts_SingleVersionIsNotAConflict(t *testing.T) {
	root := node("com.example:demo:jar:1.0.0",
		node("g:a:jar:1.0:compile"),
		node("g:b:jar:1.0:compile", node("g:a:jar:1.0:compile")),
	)

	conflicts, err := ExtractConflicts(root, graph.WinnerSet{})
	require.NoError(t, err)
	assert.Empty(t, conflicts)
}

func TestExtractConflicts_EquivalentSpellingsAreOneVersion(t *testing.T) {
	root := node("com.example:demo:jar:1.0.0",
		node("g:a:jar:1.0:compile"),
		node("g:b:jar:1.0:compile", node("g:a:jar:1.0.0:compile")),
	)

	conflicts, err := ExtractConflicts(root, graph.WinnerSet{})
	require.NoError(t, err)
	assert.Empty(t, conflicts)
}

func TestExtractConflicts_MissingWinner(t *testing.T) {
	winners := demoWinners()
	delete(winners, "org.springframework:spring-jcl")

	_, err := ExtractConflicts(demoGraph(), winners)
	require.Error(t, err)

	var missing *conflict.MissingWinnerError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "org.springframework:spring-jcl", missing.ArtifactKey)
	assert.Equal(t, []string{"5.3.21", "5.3.20"}, missing.Versions)
	assert.ErrorIs(t, err, conflict.ErrMissingWinner)
}

func TestExtractConflicts_WinnerNotObserved(t *testing.T) {
	root := node("com.example:demo:jar:1.0.0",
		node("g:a:jar:1.0:compile"),
		node("g:b:jar:1.0:compile", node("g:a:jar:1.1:compile")),
	)

	conflicts, err := ExtractConflicts(root, graph.WinnerSet{"g:a": "2.0"})
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, 2, conflicts[0].Len())
	assert.Equal(t, 2, conflicts[0].Total())
}

func TestExtractConflicts_InvalidVersion(t *testing.T) {
	root := node("com.example:demo:jar:1.0.0",
		&graph.Node{Artifact: &graph.Artifact{GroupID: "g", ArtifactID: "a", Type: "jar"}},
	)

	_, err := ExtractConflicts(root, graph.WinnerSet{})
	assert.ErrorIs(t, err, version.ErrEmptyVersion)
}

func TestGraphCollector_Collect(t *testing.T) {
	source := StaticGraphSource{
		"develop": {Root: demoGraph(), Winners: demoWinners()},
	}
	collector := NewGraphCollector(source, nil)
	assert.Equal(t, GraphStrategy, collector.Name())

	conflicts, err := collector.Collect(context.Background(), "develop")
	require.NoError(t, err)
	assert.Len(t, conflicts, 1)
}

func TestGraphCollector_MissingWinnerNamesSnapshot(t *testing.T) {
	source := StaticGraphSource{
		"feature/x": {Root: demoGraph(), Winners: graph.WinnerSet{}},
	}

	_, err := NewGraphCollector(source, nil).Collect(context.Background(), "feature/x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "feature/x")

	var missing *conflict.MissingWinnerError
	assert.True(t, errors.As(err, &missing))
}

const verboseTreeJSON = `{
  "groupId": "com.example", "artifactId": "demo", "version": "1.0.0", "type": "jar",
  "children": [
    {"groupId": "g", "artifactId": "a", "version": "1.0", "type": "jar", "scope": "compile"},
    {"groupId": "g", "artifactId": "b", "version": "1.0", "type": "jar", "scope": "compile",
     "children": [{"groupId": "g", "artifactId": "a", "version": "2.0", "type": "jar", "scope": "compile"}]}
  ]
}`

const resolvedTreeJSON = `{
  "groupId": "com.example", "artifactId": "demo", "version": "1.0.0", "type": "jar",
  "children": [
    {"groupId": "g", "artifactId": "a", "version": "1.0", "type": "jar", "scope": "compile"},
    {"groupId": "g", "artifactId": "b", "version": "1.0", "type": "jar", "scope": "compile"}
  ]
}`

func writeGraphFiles(t *testing.T) (tree, list, resolved string) {
	t.Helper()
	dir := t.TempDir()
	tree = filepath.Join(dir, "tree.json")
	list = filepath.Join(dir, "list.txt")
	resolved = filepath.Join(dir, "resolved.json")

	require.NoError(t, os.WriteFile(tree, []byte(verboseTreeJSON), 0o644))
	require.NoError(t, os.WriteFile(list, []byte("[INFO]    g:a:jar:1.0:compile\n[INFO]    g:b:jar:1.0:compile\n"), 0o644))
	require.NoError(t, os.WriteFile(resolved, []byte(resolvedTreeJSON), 0o644))
	return tree, list, resolved
}

func TestFileGraphSource(t *testing.T) {
	tree, list, resolved := writeGraphFiles(t)

	source := &FileGraphSource{Files: map[string]GraphFiles{
		"list":     {Tree: tree, List: list},
		"resolved": {Tree: tree, Resolved: resolved},
	}}

	for _, snapshot := range []string{"list", "resolved"} {
		t.Run(snapshot, func(t *testing.T) {
			conflicts, err := NewGraphCollector(source, nil).Collect(context.Background(), snapshot)
			require.NoError(t, err)
			require.Len(t, conflicts, 1)

			pair := conflicts[0].Conflicts()[0]
			assert.Equal(t, "g:a", conflicts[0].ArtifactKey())
			assert.Equal(t, "2.0", pair.LosingVersion().String())
			assert.Equal(t, "1.0", pair.WinningVersion().String())
		})
	}
}

func TestFileGraphSource_WinnersRequired(t *testing.T) {
	tree, _, _ := writeGraphFiles(t)

	source := &FileGraphSource{Files: map[string]GraphFiles{
		"bare":    {Tree: tree},
		"verbose": {Tree: tree, Resolved: tree},
	}}

	_, _, err := source.Load(context.Background(), "bare")
	assert.ErrorIs(t, err, ErrNoWinners)

	// a verbose tree cannot stand in for the resolved one
	_, _, err = source.Load(context.Background(), "verbose")
	assert.ErrorIs(t, err, graph.ErrAmbiguousWinner)

	_, _, err = source.Load(context.Background(), "main")
	assert.ErrorIs(t, err, ErrUnknownSnapshot)
}
