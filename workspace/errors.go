package workspace

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotARepository indicates the directory is not inside a git work tree
var ErrNotARepository = errors.New("not a git repository")

// CommandError reports an external command that exited non-zero. Output holds
// the combined stdout and stderr, trimmed to the last lines.
type CommandError struct {
	Command  string
	ExitCode int
	Output   string
}

// Error implements the error interface.
func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s failed with exit code: %d", e.Command, e.ExitCode)
	if e.Output != "" {
		msg += "\n" + e.Output
	}
	return msg
}

const maxErrorLines = 40

func tail(output string) string {
	lines := strings.Split(strings.TrimRight(output, "\n"), "\n")
	if len(lines) > maxErrorLines {
		lines = lines[len(lines)-maxErrorLines:]
	}
	return strings.Join(lines, "\n")
}
