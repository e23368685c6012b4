// Package observability provides logging, metrics and tracing for
// conflictdiff.
package observability

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/willibrandon/mtlog"
	"github.com/willibrandon/mtlog/core"
	"github.com/willibrandon/mtlog/sinks"
)

// Logger is the diagnostic log of a run. It goes to stderr; reports own
// stdout. Message templates name their properties, e.g.
// "Collected {ConflictCount} conflicts for {Snapshot}".
//
// An mtlog core.Logger satisfies Logger as is.
type Logger interface {
	// Verbose carries raw tool output such as individual mvn lines.
	Verbose(messageTemplate string, args ...any)
	Debug(messageTemplate string, args ...any)
	DebugContext(ctx context.Context, messageTemplate string, args ...any)
	Info(messageTemplate string, args ...any)
	InfoContext(ctx context.Context, messageTemplate string, args ...any)
	Warn(messageTemplate string, args ...any)
	Error(messageTemplate string, args ...any)
	ErrorContext(ctx context.Context, messageTemplate string, args ...any)
}

// LogLevel is the minimum level a Logger writes.
type LogLevel int

// Levels from most to least chatty.
const (
	VerboseLevel LogLevel = iota
	DebugLevel
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
)

var mtlogLevels = map[LogLevel]core.LogEventLevel{
	VerboseLevel: core.VerboseLevel,
	DebugLevel:   core.DebugLevel,
	InfoLevel:    core.InformationLevel,
	WarnLevel:    core.WarningLevel,
	ErrorLevel:   core.ErrorLevel,
	FatalLevel:   core.FatalLevel,
}

// NewLogger writes events at or above level to output through an mtlog
// console sink. Every event carries Application=conflictdiff.
func NewLogger(output io.Writer, level LogLevel) Logger {
	minimum, ok := mtlogLevels[level]
	if !ok {
		minimum = core.InformationLevel
	}
	return mtlog.New(
		mtlog.WithSink(sinks.NewConsoleSinkWithWriter(output)),
		mtlog.WithMinimumLevel(minimum),
		mtlog.WithTimestamp(),
		mtlog.WithProcess(),
	).ForContext("Application", "conflictdiff")
}

// NewDefaultLogger logs at Info to stderr.
func NewDefaultLogger() Logger {
	return NewLogger(os.Stderr, InfoLevel)
}

// ParseLogLevel maps a --log-level or CONFLICTDIFF_LOG_LEVEL value to a
// LogLevel. Empty means info.
func ParseLogLevel(name string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "verbose", "trace":
		return VerboseLevel, nil
	case "debug":
		return DebugLevel, nil
	case "info", "information", "":
		return InfoLevel, nil
	case "warn", "warning":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	case "fatal":
		return FatalLevel, nil
	}
	return InfoLevel, fmt.Errorf("unknown log level %q", name)
}

// OrNull returns l, or a Logger that drops everything when l is nil.
// Collectors and workspace runners accept a nil Logger.
func OrNull(l Logger) Logger {
	if l == nil {
		return nullLogger{}
	}
	return l
}

// NewNullLogger returns a Logger that drops everything.
func NewNullLogger() Logger {
	return nullLogger{}
}

type nullLogger struct{}

func (nullLogger) Verbose(string, ...any)                       {}
func (nullLogger) Debug(string, ...any)                         {}
func (nullLogger) DebugContext(context.Context, string, ...any) {}
func (nullLogger) Info(string, ...any)                          {}
func (nullLogger) InfoContext(context.Context, string, ...any)  {}
func (nullLogger) Warn(string, ...any)                          {}
func (nullLogger) Error(string, ...any)                         {}
func (nullLogger) ErrorContext(context.Context, string, ...any) {}
