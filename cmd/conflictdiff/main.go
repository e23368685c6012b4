// cmd/conflictdiff/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/willibrandon/conflictdiff/cmd/conflictdiff/cli"
	"github.com/willibrandon/conflictdiff/cmd/conflictdiff/commands"
)

// Version information (set via ldflags during build)
var (
	version = "0.0.0-dev"
	commit  = "unknown"
	date    = "unknown"
	builtBy = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Set version info
	cli.Version = version
	cli.Commit = commit
	cli.Date = date
	cli.BuiltBy = builtBy

	// Setup version after variables are set
	cli.SetupVersion()

	// Register commands
	cli.AddCommand(commands.NewVersionCommand(cli.Console))
	cli.AddCommand(commands.NewAnalyzeCommand(cli.Console))
	cli.AddCommand(commands.NewCompareCommand(cli.Console))
	cli.AddCommand(commands.NewExtractCommand(cli.Console))

	// Cancel running mvn and git processes on interrupt; worktree cleanup
	// still runs
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := cli.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	// Print error to stderr since SilenceErrors is true in rootCmd
	_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)

	var exitErr *commands.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	if ctx.Err() != nil {
		return 130 // 128 + SIGINT
	}
	return 1
}
