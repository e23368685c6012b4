package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/willibrandon/conflictdiff/cmd/conflictdiff/output"
	"github.com/willibrandon/conflictdiff/strategy"
)

type compareOptions struct {
	baseName     string
	currentName  string
	baseTree     string
	currentTree  string
	baseGraph    string
	baseList     string
	currentGraph string
	currentList  string

	baseResolved    string
	currentResolved string
}

// NewCompareCommand creates the compare command.
func NewCompareCommand(console *output.Console) *cobra.Command {
	opts := &compareOptions{}

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare the dependency conflicts of two saved Maven outputs",
		Long: `Compares saved Maven output of a base and a current snapshot without running
git or Maven.

The tree strategy reads "mvn dependency:tree -Dverbose" output. The graph
strategy reads verbose "mvn dependency:tree -Dverbose -DoutputType=json"
documents. The selected versions come from "mvn dependency:list" output
(--*-list) or from a non-verbose JSON tree (--*-resolved); one of them is
required for each snapshot.

Examples:
  conflictdiff compare --base-tree develop.txt --current-tree feature.txt
  conflictdiff compare --base-graph develop.json --base-list develop-list.txt \
    --current-graph feature.json --current-list feature-list.txt
  conflictdiff compare --base-graph develop.json --base-resolved develop-resolved.json \
    --current-graph feature.json --current-resolved feature-resolved.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.inferStrategy(cmd); err != nil {
				return err
			}
			return run(cmd, console, func(ctx context.Context, s *session) error {
				return runCompare(ctx, s, opts)
			})
		},
	}

	cmd.Flags().StringVar(&opts.baseName, "base-name", "base", "Name of the base snapshot in the report")
	cmd.Flags().StringVar(&opts.currentName, "current-name", "current", "Name of the current snapshot in the report")
	cmd.Flags().StringVar(&opts.baseTree, "base-tree", "", "Verbose dependency:tree output of the base snapshot")
	cmd.Flags().StringVar(&opts.currentTree, "current-tree", "", "Verbose dependency:tree output of the current snapshot")
	cmd.Flags().StringVar(&opts.baseGraph, "base-graph", "", "JSON dependency tree of the base snapshot")
	cmd.Flags().StringVar(&opts.baseList, "base-list", "", "dependency:list output of the base snapshot")
	cmd.Flags().StringVar(&opts.currentGraph, "current-graph", "", "JSON dependency tree of the current snapshot")
	cmd.Flags().StringVar(&opts.currentList, "current-list", "", "dependency:list output of the current snapshot")
	cmd.Flags().StringVar(&opts.baseResolved, "base-resolved", "", "Non-verbose JSON dependency tree of the base snapshot")
	cmd.Flags().StringVar(&opts.currentResolved, "current-resolved", "", "Non-verbose JSON dependency tree of the current snapshot")
	cmd.Flags().String("strategy", "", "Conflict collection strategy (graph, tree); inferred from the inputs when empty")
	cmd.Flags().Bool("fail-on-new", false, "Exit with code 2 when new conflicts are found")
	cmd.Flags().Bool("sequential", false, "Collect the base and current snapshot one after the other")

	return cmd
}

// inferStrategy checks the input flags and sets --strategy from them when
// it was not given.
func (o *compareOptions) inferStrategy(cmd *cobra.Command) error {
	trees := o.baseTree != "" || o.currentTree != ""
	graphs := o.baseGraph != "" || o.currentGraph != ""

	switch {
	case trees && graphs:
		return errors.New("use either --base-tree/--current-tree or --base-graph/--current-graph")
	case trees:
		if o.baseTree == "" || o.currentTree == "" {
			return errors.New("--base-tree and --current-tree are both required")
		}
		return setDefault(cmd, "strategy", strategy.TreeStrategy)
	case graphs:
		if o.baseGraph == "" || o.currentGraph == "" {
			return errors.New("--base-graph and --current-graph are both required")
		}
		if o.baseList == "" && o.baseResolved == "" {
			return errors.New("--base-graph needs --base-list or --base-resolved")
		}
		if o.currentList == "" && o.currentResolved == "" {
			return errors.New("--current-graph needs --current-list or --current-resolved")
		}
		return setDefault(cmd, "strategy", strategy.GraphStrategy)
	}
	return errors.New("no inputs: give --base-tree/--current-tree or --base-graph/--current-graph")
}

func runCompare(ctx context.Context, s *session, opts *compareOptions) error {
	if opts.baseName == opts.currentName {
		return errors.New("--base-name and --current-name must differ")
	}

	base, current, err := s.collectors(
		&strategy.FileGraphSource{Files: map[string]strategy.GraphFiles{
			opts.baseName:    {Tree: opts.baseGraph, List: opts.baseList, Resolved: opts.baseResolved},
			opts.currentName: {Tree: opts.currentGraph, List: opts.currentList, Resolved: opts.currentResolved},
		}},
		&strategy.FileTreeSource{Files: strategy.Snapshots{
			opts.baseName:    opts.baseTree,
			opts.currentName: opts.currentTree,
		}},
	)
	if err != nil {
		return err
	}
	return s.diff(ctx, base, current, opts.baseName, opts.currentName)
}

// setDefault sets an unchanged flag so that it overrides the configuration.
func setDefault(cmd *cobra.Command, name, value string) error {
	if changed(cmd, name) {
		return nil
	}
	return cmd.Flags().Set(name, value)
}
