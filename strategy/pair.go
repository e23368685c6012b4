package strategy

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/willibrandon/conflictdiff/conflict"
)

// PairOptions controls CollectPair.
type PairOptions struct {
	// Sequential collects base then current on the calling goroutine. Set it
	// when both snapshots share one working directory, or when both Maven runs
	// may download into the same local repository, which Maven does not lock.
	Sequential bool
}

// Pair holds the conflicts of the base and current snapshots.
type Pair struct {
	Base    []*conflict.DependencyConflict
	Current []*conflict.DependencyConflict
}

// CollectPair collects the base and current snapshots. Unless opts.Sequential
// is set, each snapshot is collected on its own goroutine with its own
// collector, and the first failure cancels the other.
func CollectPair(ctx context.Context, base, current Collector, baseSnapshot, currentSnapshot string, opts PairOptions) (*Pair, error) {
	var pair Pair

	if opts.Sequential {
		var err error
		if pair.Base, err = base.Collect(ctx, baseSnapshot); err != nil {
			return nil, err
		}
		if pair.Current, err = current.Collect(ctx, currentSnapshot); err != nil {
			return nil, err
		}
		return &pair, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		pair.Base, err = base.Collect(gctx, baseSnapshot)
		return err
	})
	g.Go(func() error {
		var err error
		pair.Current, err = current.Collect(gctx, currentSnapshot)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &pair, nil
}
