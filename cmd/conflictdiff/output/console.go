package output

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
)

// Verbosity levels
type Verbosity int

const (
	// VerbosityQuiet shows errors and the report only
	VerbosityQuiet Verbosity = iota
	// VerbosityNormal adds progress messages (default)
	VerbosityNormal
	// VerbosityDetailed adds per-snapshot details
	VerbosityDetailed
	// VerbosityDiagnostic adds debug output such as commands run
	VerbosityDiagnostic
)

// ParseVerbosity maps quiet, normal, detailed or diagnostic to a Verbosity.
func ParseVerbosity(s string) (Verbosity, error) {
	switch s {
	case "quiet", "q":
		return VerbosityQuiet, nil
	case "normal", "n", "":
		return VerbosityNormal, nil
	case "detailed", "d":
		return VerbosityDetailed, nil
	case "diagnostic", "diag":
		return VerbosityDiagnostic, nil
	}
	return VerbosityNormal, fmt.Errorf("invalid verbosity %q (want quiet, normal, detailed or diagnostic)", s)
}

// Console writes reports to out and diagnostics to err.
type Console struct {
	out       io.Writer
	err       io.Writer
	verbosity Verbosity
	mu        sync.Mutex
	colors    bool
}

// NewConsole creates a new console
func NewConsole(out, err io.Writer, verbosity Verbosity) *Console {
	c := &Console{
		out:       out,
		err:       err,
		verbosity: verbosity,
		colors:    IsColorEnabled(),
	}

	if !c.colors {
		DisableColors()
	}

	return c
}

// DefaultConsole creates a console with stdout/stderr and normal verbosity
func DefaultConsole() *Console {
	return NewConsole(os.Stdout, os.Stderr, VerbosityNormal)
}

// Out returns the report writer.
func (c *Console) Out() io.Writer {
	return c.out
}

// ErrOut returns the diagnostics writer.
func (c *Console) ErrOut() io.Writer {
	return c.err
}

// SetVerbosity sets the verbosity level
func (c *Console) SetVerbosity(v Verbosity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.verbosity = v
}

// GetVerbosity returns the current verbosity level
func (c *Console) GetVerbosity() Verbosity {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.verbosity
}

// SetColors enables or disables color output
func (c *Console) SetColors(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.colors = enabled
	if enabled {
		EnableColors()
	} else {
		DisableColors()
	}
}

// ColorsEnabled reports whether output is colorized.
func (c *Console) ColorsEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.colors
}

// Println writes line to output
func (c *Console) Println(a ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprintln(c.out, a...)
}

// Printf writes formatted output
func (c *Console) Printf(format string, a ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprintf(c.out, format, a...)
}

// Success writes a success message (green) to the report stream
func (c *Console) Success(format string, a ...any) {
	c.write(c.out, VerbosityQuiet, ColorSuccess, "", format, a...)
}

// Error writes an error message (red) to the diagnostics stream
func (c *Console) Error(format string, a ...any) {
	c.write(c.err, VerbosityQuiet, ColorError, "Error: ", format, a...)
}

// Warning writes a warning message (yellow) to the diagnostics stream
func (c *Console) Warning(format string, a ...any) {
	c.write(c.err, VerbosityNormal, ColorWarning, "Warning: ", format, a...)
}

// Info writes a progress message (cyan) to the diagnostics stream
func (c *Console) Info(format string, a ...any) {
	c.write(c.err, VerbosityNormal, ColorInfo, "", format, a...)
}

// Detail writes a detailed message to the diagnostics stream
func (c *Console) Detail(format string, a ...any) {
	c.write(c.err, VerbosityDetailed, nil, "", format, a...)
}

// Debug writes a debug message (grey) to the diagnostics stream
func (c *Console) Debug(format string, a ...any) {
	c.write(c.err, VerbosityDiagnostic, ColorDebug, "[DEBUG] ", format, a...)
}

func (c *Console) write(w io.Writer, min Verbosity, col *color.Color, prefix, format string, a ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.verbosity < min {
		return
	}
	if c.colors && col != nil {
		_, _ = col.Fprintf(w, prefix+format+"\n", a...)
		return
	}
	_, _ = fmt.Fprintf(w, prefix+format+"\n", a...)
}
