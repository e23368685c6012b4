package workspace

import (
	"context"
	"os"
	"path/filepath"

	"github.com/willibrandon/conflictdiff/observability"
)

// DefaultMavenExecutable is used when Maven.Executable is empty.
const DefaultMavenExecutable = "mvn"

// Maven invokes maven-dependency-plugin goals in a project directory.
type Maven struct {
	// Executable is the mvn binary (default "mvn", may be a wrapper such as ./mvnw)
	Executable string

	// Args are passed before the goal, e.g. "-B" or "-s settings.xml"
	Args []string

	// Module restricts the run to one module of a multi-module build (-pl)
	Module string

	// Logger receives command and output diagnostics; nil discards them
	Logger observability.Logger
}

// DependencyTree runs dependency:tree and returns the output lines. With
// verbose, omitted nodes are printed with "omitted for conflict with" notes.
func (m *Maven) DependencyTree(ctx context.Context, dir string, verbose bool) ([]string, error) {
	args := []string{"dependency:tree"}
	if verbose {
		args = append(args, "-Dverbose")
	}
	return m.lines(ctx, dir, args...)
}

// DependencyTreeJSON runs verbose dependency:tree with JSON output into
// outFile. Omitted nodes are kept, so every version requested anywhere in
// the graph is present. A relative outFile is resolved against dir.
func (m *Maven) DependencyTreeJSON(ctx context.Context, dir, outFile string) error {
	if !filepath.IsAbs(outFile) {
		outFile = filepath.Join(dir, outFile)
	}
	if err := os.MkdirAll(filepath.Dir(outFile), 0o755); err != nil {
		return err
	}
	_, err := m.lines(ctx, dir, "dependency:tree", "-Dverbose", "-DoutputType=json", "-DoutputFile="+outFile)
	return err
}

// DependencyList runs dependency:list and returns the output lines, which
// carry one resolved artifact per line.
func (m *Maven) DependencyList(ctx context.Context, dir string) ([]string, error) {
	return m.lines(ctx, dir, "dependency:list")
}

func (m *Maven) lines(ctx context.Context, dir string, goal ...string) ([]string, error) {
	logger := observability.OrNull(m.Logger)

	args := append([]string(nil), m.Args...)
	args = append(args, goal...)
	if m.Module != "" {
		args = append(args, "-pl", m.Module)
	}

	output, err := run(ctx, logger, dir, m.executable(), args...)
	if err != nil {
		return nil, err
	}

	lines := splitLines(output)
	for _, line := range lines {
		logger.Verbose("Maven output: {Line}", line)
	}
	return lines, nil
}

func (m *Maven) executable() string {
	if m.Executable == "" {
		return DefaultMavenExecutable
	}
	return m.Executable
}
