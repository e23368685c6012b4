package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/willibrandon/conflictdiff/cmd/conflictdiff/output"
	"github.com/willibrandon/conflictdiff/strategy"
	"github.com/willibrandon/conflictdiff/workspace"
)

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand(console *output.Console) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Compare the dependency conflicts of the current branch with a base branch",
		Long: `Checks the base branch out into a temporary git worktree, runs Maven in both
working trees and reports the conflicts that were resolved, introduced or
changed on the current branch.

Nothing is reported when the current branch is the base branch.

Both branches are collected at the same time. The two Maven runs share the
local repository (~/.m2/repository), and Maven does not lock it against
concurrent downloads; use --sequential when dependencies still have to be
downloaded, e.g. on a fresh CI agent.

Examples:
  conflictdiff analyze
  conflictdiff analyze --base main --strategy tree
  conflictdiff analyze --dir services/billing --fail-on-new
  conflictdiff analyze --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, console, func(ctx context.Context, s *session) error {
				return runAnalyze(ctx, s, dir)
			})
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "Maven project directory inside the git repository")
	cmd.Flags().String("base", "develop", "Base branch to compare against")
	cmd.Flags().String("strategy", strategy.GraphStrategy, "Conflict collection strategy (graph, tree)")
	cmd.Flags().Bool("fail-on-new", false, "Exit with code 2 when new conflicts are found")
	cmd.Flags().Bool("sequential", false, "Collect the base and current branch one after the other (the Maven runs share ~/.m2)")

	return cmd
}

func runAnalyze(ctx context.Context, s *session, dir string) error {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return fmt.Errorf("project directory %s does not exist", dir)
	}

	git := &workspace.Git{Dir: dir, Logger: s.logger}
	current, err := git.CurrentBranch(ctx)
	if err != nil {
		return err
	}
	base := s.cfg.BaseBranch

	if current == base {
		s.console.Info("Current branch is the base branch %s, skipping", base)
		return nil
	}

	baseDir, cleanup, err := checkoutBase(ctx, s, git, base, dir)
	if err != nil {
		return err
	}
	defer func() {
		if err := cleanup(); err != nil {
			s.console.Warning("Failed to remove worktree of %s: %v", base, err)
		}
	}()

	dirs := strategy.Snapshots{base: baseDir, current: dir}
	mvn := s.maven()
	baseCollector, currentCollector, err := s.collectors(
		&strategy.MavenGraphSource{Maven: mvn, Dirs: dirs},
		&strategy.MavenTreeSource{Maven: mvn, Dirs: dirs},
	)
	if err != nil {
		return err
	}

	return s.diff(ctx, baseCollector, currentCollector, base, current)
}

// checkoutBase adds a worktree for base and returns the directory in it that
// corresponds to dir.
func checkoutBase(ctx context.Context, s *session, git *workspace.Git, base, dir string) (string, func() error, error) {
	top, err := git.TopLevel(ctx)
	if err != nil {
		return "", nil, err
	}
	rel, err := relativeTo(top, dir)
	if err != nil {
		return "", nil, err
	}

	s.console.Info("Checking out %s", base)
	worktree, cleanup, err := git.AddWorktree(ctx, base)
	if err != nil {
		return "", nil, fmt.Errorf("check out base branch %s: %w", base, err)
	}
	s.console.Debug("Worktree of %s at %s", base, worktree)
	return filepath.Join(worktree, rel), cleanup, nil
}

// relativeTo returns dir relative to top, resolving symlinks on both sides
// since git reports the real path of the top level.
func relativeTo(top, dir string) (string, error) {
	if resolved, err := filepath.EvalSymlinks(top); err == nil {
		top = resolved
	}
	if resolved, err := filepath.EvalSymlinks(dir); err == nil {
		dir = resolved
	}
	rel, err := filepath.Rel(top, dir)
	if err != nil {
		return "", fmt.Errorf("locate %s in %s: %w", dir, top, err)
	}
	return rel, nil
}
