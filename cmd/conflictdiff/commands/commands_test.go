package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willibrandon/conflictdiff/cmd/conflictdiff/output"
	"github.com/willibrandon/conflictdiff/observability"
)

const baseTree = `[INFO] com.example:demo:jar:1.0.0
[INFO] +- org.example:gone:jar:2.0:compile
[INFO] |  \- (org.example:resolved:jar:1.0:compile - omitted for conflict with 2.0)
[INFO] +- org.example:a:jar:1.0:compile
[INFO] |  \- (org.example:changed:jar:1.0:compile - omitted for conflict with 2.0)
[INFO] \- org.example:b:jar:1.0:compile
[INFO]    \- (org.example:changed:jar:1.0:compile - omitted for conflict with 2.0)
`

const currentTree = `[INFO] com.example:demo:jar:1.0.0
[INFO] +- org.example:a:jar:1.0:compile
[INFO] |  +- (org.example:changed:jar:1.0:compile - omitted for conflict with 2.0)
[INFO] |  \- (org.example:added:jar:3.0:compile - omitted for conflict with 2.5)
[INFO] +- org.example:b:jar:1.0:compile
[INFO] |  \- (org.example:changed:jar:1.0:compile - omitted for conflict with 2.0)
[INFO] \- org.example:c:jar:1.0:compile
[INFO]    \- (org.example:changed:jar:1.0:compile - omitted for conflict with 2.0)
`

// isolate runs the test in an empty directory with no configuration.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	return dir
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o755))
	return path
}

func newConsole() (*output.Console, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	console := output.NewConsole(&out, &errOut, output.VerbosityNormal)
	console.SetColors(false)
	return console, &out, &errOut
}

func execute(cmd *cobra.Command, args ...string) error {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	cmd.SetArgs(args)
	return cmd.ExecuteContext(context.Background())
}

func TestVersionCommand(t *testing.T) {
	console, out, _ := newConsole()

	require.NoError(t, execute(NewVersionCommand(console)))
	assert.Contains(t, out.String(), "conflictdiff version")
}

func TestVersionCommand_NoArgs(t *testing.T) {
	console, _, _ := newConsole()

	assert.Error(t, execute(NewVersionCommand(console), "extraarg"))
}

func TestCompareCommand_Tree(t *testing.T) {
	dir := isolate(t)
	console, out, _ := newConsole()

	err := execute(NewCompareCommand(console),
		"--base-tree", writeFile(t, dir, "develop.txt", baseTree),
		"--current-tree", writeFile(t, dir, "feature.txt", currentTree),
		"--base-name", "develop",
		"--current-name", "feature")
	require.NoError(t, err)

	report := out.String()
	assert.Contains(t, report, "RESOLVED CONFLICTS (present in develop but not in feature):")
	assert.Contains(t, report, "org.example:resolved")
	assert.Contains(t, report, "NEW CONFLICTS (present in feature but not in develop):")
	assert.Contains(t, report, "3.0 -> 2.5")
	assert.Contains(t, report, "CHANGED CONFLICTS")
	assert.Regexp(t, `org\.example:changed\s+1\.0 -> 2\.0\s+UPGRADE\s+\+1`, report)
	assert.Contains(t, report, "SUMMARY: 1 resolved, 1 new, 1 changed")
}

func TestCompareCommand_JSON(t *testing.T) {
	dir := isolate(t)
	t.Setenv("CONFLICTDIFF_FORMAT", "json")
	console, out, _ := newConsole()

	err := execute(NewCompareCommand(console),
		"--base-tree", writeFile(t, dir, "develop.txt", baseTree),
		"--current-tree", writeFile(t, dir, "feature.txt", currentTree))
	require.NoError(t, err)

	var report output.DiffReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.Equal(t, "base", report.Base)
	assert.Equal(t, "current", report.Current)
	assert.Equal(t, "tree", report.Strategy)
	require.Len(t, report.New, 1)
	assert.Equal(t, "org.example:added", report.New[0].Artifact)
	assert.Equal(t, "DOWNGRADE", report.New[0].Conflicts[0].Direction)
}

func TestCompareCommand_FailOnNew(t *testing.T) {
	dir := isolate(t)
	console, _, _ := newConsole()

	err := execute(NewCompareCommand(console),
		"--base-tree", writeFile(t, dir, "develop.txt", baseTree),
		"--current-tree", writeFile(t, dir, "feature.txt", currentTree),
		"--fail-on-new")

	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr), "got %v", err)
	assert.Equal(t, ExitNewConflicts, exitErr.Code)
	assert.Contains(t, exitErr.Error(), "1 new dependency conflicts")
}

func TestCompareCommand_NoChanges(t *testing.T) {
	dir := isolate(t)
	console, out, _ := newConsole()

	tree := writeFile(t, dir, "tree.txt", baseTree)
	require.NoError(t, execute(NewCompareCommand(console),
		"--base-tree", tree, "--current-tree", tree, "--fail-on-new"))
	assert.Equal(t, "No new conflicts found in current!\n", out.String())
}

func TestCompareCommand_InvalidInputs(t *testing.T) {
	isolate(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no inputs", nil, "no inputs"},
		{"mixed", []string{"--base-tree", "a", "--current-graph", "b"}, "either"},
		{"half tree", []string{"--base-tree", "a"}, "both required"},
		{"half graph", []string{"--current-graph", "b"}, "both required"},
		{"graph without winners", []string{"--base-graph", "a", "--base-list", "l", "--current-graph", "b"}, "--current-list or --current-resolved"},
		{"same names", []string{"--base-tree", "a", "--current-tree", "b", "--base-name", "x", "--current-name", "x"}, "must differ"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			console, _, _ := newConsole()
			err := execute(NewCompareCommand(console), tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestCompareCommand_MissingFile(t *testing.T) {
	dir := isolate(t)
	console, _, _ := newConsole()

	err := execute(NewCompareCommand(console),
		"--base-tree", filepath.Join(dir, "missing.txt"),
		"--current-tree", writeFile(t, dir, "feature.txt", currentTree))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestExtractCommand_Stdin(t *testing.T) {
	isolate(t)
	console, out, _ := newConsole()

	cmd := NewExtractCommand(console)
	cmd.SetIn(strings.NewReader(currentTree))
	require.NoError(t, execute(cmd, "--tree", "-", "--name", "feature"))

	report := out.String()
	assert.Contains(t, report, "2 conflicting artifacts in feature:")
	assert.Regexp(t, `org\.example:changed\s+1\.0 -> 2\.0\s+UPGRADE\s+3`, report)
}

func TestExtractCommand_Graph(t *testing.T) {
	dir := isolate(t)
	t.Setenv("CONFLICTDIFF_FORMAT", "json")
	console, out, _ := newConsole()

	graphFile := writeFile(t, dir, "tree.json", `{
  "groupId": "com.example", "artifactId": "demo", "version": "1.0.0", "type": "jar",
  "children": [
    {"groupId": "org.example", "artifactId": "a", "version": "1.0", "type": "jar", "scope": "compile",
     "children": [{"groupId": "org.example", "artifactId": "lib", "version": "1.0", "type": "jar", "scope": "compile"}]},
    {"groupId": "org.example", "artifactId": "b", "version": "1.0", "type": "jar", "scope": "compile",
     "children": [{"groupId": "org.example", "artifactId": "lib", "version": "2.0", "type": "jar", "scope": "compile"}]}
  ]
}`)
	listFile := writeFile(t, dir, "list.txt", `[INFO] The following files have been resolved:
[INFO]    org.example:a:jar:1.0:compile
[INFO]    org.example:b:jar:1.0:compile
[INFO]    org.example:lib:jar:2.0:compile
`)

	require.NoError(t, execute(NewExtractCommand(console), "--graph", graphFile, "--list", listFile))

	var report output.SnapshotReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.Equal(t, "graph", report.Strategy)
	require.Len(t, report.Conflicts, 1)
	assert.Equal(t, "org.example:lib", report.Conflicts[0].Artifact)
	assert.Equal(t, output.VersionPair{
		Losing: "1.0", Winning: "2.0", Count: 1, Direction: "UPGRADE", Jump: "major",
	}, report.Conflicts[0].Conflicts[0])
}

func TestExtractCommand_GraphResolved(t *testing.T) {
	dir := isolate(t)
	console, out, _ := newConsole()

	graphFile := writeFile(t, dir, "tree.json", `{
  "groupId": "com.example", "artifactId": "demo", "version": "1.0.0", "type": "jar",
  "children": [
    {"groupId": "org.example", "artifactId": "lib", "version": "2.0", "type": "jar", "scope": "compile"},
    {"groupId": "org.example", "artifactId": "a", "version": "1.0", "type": "jar", "scope": "compile",
     "children": [{"groupId": "org.example", "artifactId": "lib", "version": "1.0", "type": "jar", "scope": "compile"}]}
  ]
}`)
	resolvedFile := writeFile(t, dir, "resolved.json", `{
  "groupId": "com.example", "artifactId": "demo", "version": "1.0.0", "type": "jar",
  "children": [
    {"groupId": "org.example", "artifactId": "lib", "version": "2.0", "type": "jar", "scope": "compile"},
    {"groupId": "org.example", "artifactId": "a", "version": "1.0", "type": "jar", "scope": "compile"}
  ]
}`)

	require.NoError(t, execute(NewExtractCommand(console), "--graph", graphFile, "--resolved", resolvedFile, "--name", "develop"))
	assert.Contains(t, out.String(), "1 conflicting artifacts in develop:")
	assert.Regexp(t, `org\.example:lib\s+1\.0 -> 2\.0\s+UPGRADE\s+1`, out.String())
}

func TestExtractCommand_NoInput(t *testing.T) {
	isolate(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"nothing", nil, "no input"},
		{"both", []string{"--tree", "a", "--graph", "b"}, "either --tree or --graph"},
		{"graph without winners", []string{"--graph", "b"}, "--graph needs --list or --resolved"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			console, _, _ := newConsole()
			err := execute(NewExtractCommand(console), tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLogLevel(t *testing.T) {
	level, err := logLevel("", output.VerbosityDiagnostic)
	require.NoError(t, err)
	assert.Equal(t, observability.DebugLevel, level)

	level, err = logLevel("", output.VerbosityNormal)
	require.NoError(t, err)
	assert.Equal(t, observability.WarnLevel, level)

	level, err = logLevel("error", output.VerbosityDiagnostic)
	require.NoError(t, err)
	assert.Equal(t, observability.ErrorLevel, level)

	_, err = logLevel("chatty", output.VerbosityNormal)
	assert.Error(t, err)
}

func TestSession_MetricsFile(t *testing.T) {
	dir := isolate(t)
	metrics := filepath.Join(dir, "conflictdiff.prom")
	t.Setenv("CONFLICTDIFF_METRICS_FILE", metrics)
	console, _, _ := newConsole()

	require.NoError(t, execute(NewCompareCommand(console),
		"--base-tree", writeFile(t, dir, "develop.txt", baseTree),
		"--current-tree", writeFile(t, dir, "feature.txt", currentTree)))

	data, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(data), "conflictdiff_collections_total")
	assert.Contains(t, string(data), "conflictdiff_compare_results_total")
}

// initRepo creates a repository whose develop and feature branches carry
// different tree.txt files, and a fake mvn that prints tree.txt.
func initRepo(t *testing.T) (repo, mvn string) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	repo = t.TempDir()
	gitRun := func(args ...string) {
		cmd := exec.Command("git", append([]string{"-c", "user.name=test", "-c", "user.email=test@example.com"}, args...)...)
		cmd.Dir = repo
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, string(out))
	}

	gitRun("init", "-q", "-b", "develop")
	writeFile(t, repo, "pom.xml", "<project/>\n")
	writeFile(t, repo, "tree.txt", baseTree)
	gitRun("add", ".")
	gitRun("commit", "-q", "-m", "initial")

	gitRun("checkout", "-q", "-b", "feature")
	writeFile(t, repo, "tree.txt", currentTree)
	gitRun("commit", "-q", "-am", "bump dependencies")

	mvn = writeFile(t, t.TempDir(), "mvn", "#!/bin/sh\ncat tree.txt\n")
	return repo, mvn
}

func TestAnalyzeCommand(t *testing.T) {
	repo, mvn := initRepo(t)
	isolate(t)
	t.Setenv("CONFLICTDIFF_MAVEN_EXECUTABLE", mvn)
	console, out, _ := newConsole()

	require.NoError(t, execute(NewAnalyzeCommand(console), "--dir", repo, "--strategy", "tree"))

	report := out.String()
	assert.Contains(t, report, "between develop and feature")
	assert.Contains(t, report, "NEW CONFLICTS (present in feature but not in develop):")
	assert.Contains(t, report, "SUMMARY: 1 resolved, 1 new, 1 changed")
}

func TestAnalyzeCommand_Sequential(t *testing.T) {
	repo, mvn := initRepo(t)
	isolate(t)
	t.Setenv("CONFLICTDIFF_MAVEN_EXECUTABLE", mvn)
	console, out, _ := newConsole()
	cmd := NewAnalyzeCommand(console)

	flag := cmd.Flags().Lookup("sequential")
	require.NotNil(t, flag)
	assert.Contains(t, flag.Usage, "~/.m2")
	assert.Contains(t, cmd.Long, "--sequential")

	require.NoError(t, execute(cmd, "--dir", repo, "--strategy", "tree", "--sequential"))
	assert.Contains(t, out.String(), "SUMMARY: 1 resolved, 1 new, 1 changed")
}

func TestAnalyzeCommand_BaseBranch(t *testing.T) {
	repo, mvn := initRepo(t)
	isolate(t)
	t.Setenv("CONFLICTDIFF_MAVEN_EXECUTABLE", mvn)
	console, out, errOut := newConsole()

	require.NoError(t, execute(NewAnalyzeCommand(console), "--dir", repo, "--base", "feature"))

	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "Current branch is the base branch feature, skipping")
}

func TestAnalyzeCommand_UnknownBase(t *testing.T) {
	repo, mvn := initRepo(t)
	isolate(t)
	t.Setenv("CONFLICTDIFF_MAVEN_EXECUTABLE", mvn)
	console, _, _ := newConsole()

	err := execute(NewAnalyzeCommand(console), "--dir", repo, "--base", "no-such-branch", "--strategy", "tree")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "check out base branch no-such-branch")
}

func TestAnalyzeCommand_MissingDir(t *testing.T) {
	dir := isolate(t)
	console, _, _ := newConsole()

	err := execute(NewAnalyzeCommand(console), "--dir", filepath.Join(dir, "nope"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestRelativeTo(t *testing.T) {
	top := t.TempDir()
	sub := filepath.Join(top, "services", "billing")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	rel, err := relativeTo(top, sub)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("services", "billing"), rel)

	rel, err = relativeTo(top, top)
	require.NoError(t, err)
	assert.Equal(t, ".", rel)
}
