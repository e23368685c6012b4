package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/willibrandon/conflictdiff/cmd/conflictdiff/output"
	"github.com/willibrandon/conflictdiff/strategy"
)

type extractOptions struct {
	name     string
	tree     string
	graph    string
	list     string
	resolved string
}

// NewExtractCommand creates the extract command.
func NewExtractCommand(console *output.Console) *cobra.Command {
	opts := &extractOptions{}

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "List the dependency conflicts of one saved Maven output",
		Long: `Lists the dependency conflicts of a single snapshot.

Examples:
  mvn dependency:tree -Dverbose | conflictdiff extract --tree -
  conflictdiff extract --tree develop.txt --format json
  conflictdiff extract --graph develop.json --list develop-list.txt
  conflictdiff extract --graph develop.json --resolved develop-resolved.json

--graph takes a verbose JSON tree (mvn dependency:tree -Dverbose
-DoutputType=json) and needs --list or --resolved to name the selected
versions.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case opts.tree != "" && opts.graph != "":
				return errors.New("use either --tree or --graph")
			case opts.tree != "":
				if err := setDefault(cmd, "strategy", strategy.TreeStrategy); err != nil {
					return err
				}
			case opts.graph != "":
				if opts.list == "" && opts.resolved == "" {
					return errors.New("--graph needs --list or --resolved")
				}
				if err := setDefault(cmd, "strategy", strategy.GraphStrategy); err != nil {
					return err
				}
			default:
				return errors.New("no input: give --tree or --graph")
			}
			return run(cmd, console, func(ctx context.Context, s *session) error {
				return runExtract(ctx, s, cmd, opts)
			})
		},
	}

	cmd.Flags().StringVar(&opts.name, "name", "snapshot", "Name of the snapshot in the report")
	cmd.Flags().StringVar(&opts.tree, "tree", "", `Verbose dependency:tree output ("-" reads stdin)`)
	cmd.Flags().StringVar(&opts.graph, "graph", "", "JSON dependency tree")
	cmd.Flags().StringVar(&opts.list, "list", "", "dependency:list output naming the selected versions")
	cmd.Flags().StringVar(&opts.resolved, "resolved", "", "Non-verbose JSON dependency tree naming the selected versions")
	cmd.Flags().String("strategy", "", "Conflict collection strategy (graph, tree); inferred from the inputs when empty")

	return cmd
}

func runExtract(ctx context.Context, s *session, cmd *cobra.Command, opts *extractOptions) error {
	var lines strategy.LineSource = &strategy.FileTreeSource{Files: strategy.Snapshots{opts.name: opts.tree}}
	if opts.tree == "-" {
		lines = &strategy.ReaderLineSource{Reader: cmd.InOrStdin()}
	}
	graphs := &strategy.FileGraphSource{Files: map[string]strategy.GraphFiles{
		opts.name: {Tree: opts.graph, List: opts.list, Resolved: opts.resolved},
	}}

	collector, err := strategy.New(s.cfg.Strategy, graphs, lines, s.logger)
	if err != nil {
		return err
	}
	conflicts, err := collector.Collect(ctx, opts.name)
	if err != nil {
		return err
	}
	return s.snapshot(conflicts, opts.name)
}
