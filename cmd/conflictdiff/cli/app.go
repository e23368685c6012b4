// cmd/conflictdiff/cli/app.go
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/willibrandon/conflictdiff/cmd/conflictdiff/output"
)

var rootCmd = &cobra.Command{
	Use:   "conflictdiff",
	Short: "Diff Maven dependency conflicts between two branches",
	Long: `conflictdiff reports the transitive dependency conflicts of a Maven project
that were resolved, introduced or changed between a base branch and the
current branch.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		// Show help when no command is provided
		_ = cmd.Help()
	},
}

// Console is the global console for CLI commands
var Console *output.Console

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx available to every command
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	// Initialize console
	Console = output.DefaultConsole()

	// Add common flags that will be used by subcommands
	rootCmd.PersistentFlags().String("config", "", "Configuration file (default .conflictdiff.yaml)")
	rootCmd.PersistentFlags().StringP("verbosity", "v", "normal", "Display verbosity (quiet, normal, detailed, diagnostic)")
	rootCmd.PersistentFlags().String("format", "console", "Report format (console, json)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (verbose, debug, info, warn, error); derived from verbosity when empty")
	rootCmd.PersistentFlags().String("metrics-file", "", "Write Prometheus metrics to this file after the run")
	rootCmd.PersistentFlags().String("tracing", "none", "Trace exporter (none, stdout, otlp)")
}

// SetupVersion configures version information after variables are set
func SetupVersion() {
	rootCmd.SetVersionTemplate(GetFullVersion() + "\n")
	rootCmd.Version = GetVersion()
}

// AddCommand adds a command to the root command
func AddCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}

// Root returns the root command
func Root() *cobra.Command {
	return rootCmd
}
