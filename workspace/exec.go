// Package workspace runs the host tools conflictdiff depends on: git, to
// materialize a branch in its own work tree, and Maven, to print dependency
// trees and resolved dependency lists.
package workspace

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/willibrandon/conflictdiff/observability"
)

// run executes name with args in dir and returns stdout and stderr
// interleaved, the way a terminal would show them.
func run(ctx context.Context, logger observability.Logger, dir, name string, args ...string) (string, error) {
	ctx, span := observability.StartCommandSpan(ctx, name, dir)

	commandLine := strings.Join(append([]string{name}, args...), " ")
	logger.DebugContext(ctx, "Executing command: {Command} in {Dir}", commandLine, dir)

	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			err = &CommandError{
				Command:  commandLine,
				ExitCode: exitErr.ExitCode(),
				Output:   tail(out.String()),
			}
		} else {
			err = fmt.Errorf("run %s: %w", name, err)
		}
	}

	observability.EndSpanWithError(span, err)
	return out.String(), err
}

func splitLines(output string) []string {
	output = strings.ReplaceAll(output, "\r\n", "\n")
	output = strings.TrimRight(output, "\n")
	if output == "" {
		return nil
	}
	return strings.Split(output, "\n")
}
