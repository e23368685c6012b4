package workspace

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/willibrandon/conflictdiff/observability"
)

// Git runs git commands against the repository containing Dir.
type Git struct {
	Dir    string
	Logger observability.Logger
}

// CurrentBranch returns the checked-out branch name. A detached HEAD is
// reported as "HEAD".
func (g *Git) CurrentBranch(ctx context.Context) (string, error) {
	out, err := g.git(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// TopLevel returns the root directory of the work tree.
func (g *Git) TopLevel(ctx context.Context) (string, error) {
	out, err := g.git(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// AddWorktree checks ref out, detached, into a new temporary directory. The
// returned cleanup removes the work tree and must be called once the
// directory is no longer needed.
func (g *Git) AddWorktree(ctx context.Context, ref string) (string, func() error, error) {
	if ref == "" {
		return "", nil, fmt.Errorf("add worktree: empty ref")
	}

	dir, err := os.MkdirTemp("", "conflictdiff-")
	if err != nil {
		return "", nil, fmt.Errorf("create worktree directory: %w", err)
	}

	if _, err := g.git(ctx, "worktree", "add", "--detach", dir, ref); err != nil {
		_ = os.RemoveAll(dir)
		return "", nil, err
	}

	cleanup := func() error {
		// ctx may be cancelled by now; removal must still run
		_, rmErr := g.git(context.WithoutCancel(ctx), "worktree", "remove", "--force", dir)
		if rmErr != nil {
			return errors.Join(rmErr, os.RemoveAll(dir))
		}
		return nil
	}
	return dir, cleanup, nil
}

func (g *Git) git(ctx context.Context, args ...string) (string, error) {
	out, err := run(ctx, observability.OrNull(g.Logger), g.Dir, "git", args...)
	if err != nil {
		var cmdErr *CommandError
		if errors.As(err, &cmdErr) && strings.Contains(cmdErr.Output, "not a git repository") {
			return "", fmt.Errorf("%w: %s", ErrNotARepository, g.Dir)
		}
		return "", err
	}
	return out, nil
}
