package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/willibrandon/conflictdiff/cmd/conflictdiff/cli"
	"github.com/willibrandon/conflictdiff/cmd/conflictdiff/config"
	"github.com/willibrandon/conflictdiff/cmd/conflictdiff/output"
	"github.com/willibrandon/conflictdiff/compare"
	"github.com/willibrandon/conflictdiff/conflict"
	"github.com/willibrandon/conflictdiff/observability"
	"github.com/willibrandon/conflictdiff/strategy"
	"github.com/willibrandon/conflictdiff/workspace"
)

// session holds the settings and services of one command run.
type session struct {
	cfg     *config.Config
	console *output.Console
	logger  observability.Logger
	tp      *sdktrace.TracerProvider
	start   time.Time
}

// newSession loads the configuration, applies flag overrides and sets up
// logging and tracing. close must be called when the command finishes.
func newSession(ctx context.Context, cmd *cobra.Command, console *output.Console) (*session, error) {
	start := time.Now()

	cfg, err := config.Load(stringFlag(cmd, "config"))
	if err != nil {
		return nil, err
	}
	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	verbosity, err := output.ParseVerbosity(cfg.Verbosity)
	if err != nil {
		return nil, err
	}
	console.SetVerbosity(verbosity)

	level, err := logLevel(cfg.LogLevel, verbosity)
	if err != nil {
		return nil, err
	}
	logger := observability.NewLogger(console.ErrOut(), level)

	tc := observability.DefaultTracerConfig()
	tc.ServiceVersion = cli.GetVersion()
	tc.Exporter = cfg.Tracing.Exporter
	tc.Endpoint = cfg.Tracing.Endpoint
	tc.Insecure = cfg.Tracing.Insecure
	tc.SamplingRate = cfg.Tracing.SamplingRate
	tp, err := observability.SetupTracing(ctx, tc)
	if err != nil {
		return nil, err
	}

	return &session{
		cfg:     cfg,
		console: console,
		logger:  logger,
		tp:      tp,
		start:   start,
	}, nil
}

// close flushes traces and writes the metrics file.
func (s *session) close(ctx context.Context) error {
	var errs []error
	if s.tp != nil {
		errs = append(errs, observability.ShutdownTracing(context.WithoutCancel(ctx), s.tp))
	}
	if s.cfg.MetricsFile != "" {
		errs = append(errs, observability.WriteMetricsFile(s.cfg.MetricsFile))
	}
	return errors.Join(errs...)
}

// run executes fn inside a session and a command span.
func run(cmd *cobra.Command, console *output.Console, fn func(context.Context, *session) error) (err error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	s, err := newSession(ctx, cmd, console)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := s.close(ctx); closeErr != nil {
			s.logger.Warn("Failed to flush telemetry: {Error}", closeErr)
		}
	}()

	ctx, span := observability.StartSpan(ctx, "conflictdiff."+cmd.Name())
	defer func() { observability.EndSpanWithError(span, err) }()

	return fn(ctx, s)
}

func (s *session) maven() *workspace.Maven {
	return &workspace.Maven{
		Executable: s.cfg.Maven.Executable,
		Args:       s.cfg.Maven.Args,
		Module:     s.cfg.Maven.Module,
		Logger:     s.logger,
	}
}

// collectors returns one collector per snapshot for the configured strategy.
func (s *session) collectors(graphs strategy.GraphSource, lines strategy.LineSource) (base, current strategy.Collector, err error) {
	if base, err = strategy.New(s.cfg.Strategy, graphs, lines, s.logger); err != nil {
		return nil, nil, err
	}
	if current, err = strategy.New(s.cfg.Strategy, graphs, lines, s.logger); err != nil {
		return nil, nil, err
	}
	return base, current, nil
}

// diff collects both snapshots, compares them and writes the report.
func (s *session) diff(ctx context.Context, base, current strategy.Collector, baseName, currentName string) error {
	s.console.Info("Collecting dependency conflicts of %s and %s (%s strategy)", baseName, currentName, s.cfg.Strategy)

	pair, err := strategy.CollectPair(ctx, base, current, baseName, currentName, strategy.PairOptions{
		Sequential: s.cfg.Sequential,
	})
	if err != nil {
		return err
	}
	s.console.Detail("%s: %d conflicting artifacts, %s: %d conflicting artifacts",
		baseName, len(pair.Base), currentName, len(pair.Current))

	result, err := compare.NewComparer(s.logger).Compare(ctx, pair.Base, pair.Current)
	if err != nil {
		return err
	}

	if s.cfg.Format == "json" {
		report := output.NewDiffReport(result, baseName, currentName, s.cfg.Strategy, s.start)
		if err := output.WriteJSON(s.console.Out(), report); err != nil {
			return err
		}
	} else if err := output.RenderDiff(s.console, result, baseName, currentName); err != nil {
		return err
	}

	if s.cfg.FailOnNew && len(result.New) > 0 {
		return &ExitError{
			Code: ExitNewConflicts,
			Err:  fmt.Errorf("%d new dependency conflicts in %s", len(result.New), currentName),
		}
	}
	return nil
}

// snapshot writes the conflicts of one snapshot.
func (s *session) snapshot(conflicts []*conflict.DependencyConflict, name string) error {
	if s.cfg.Format == "json" {
		return output.WriteJSON(s.console.Out(), output.NewSnapshotReport(conflicts, name, s.cfg.Strategy, s.start))
	}
	return output.RenderSnapshot(s.console, conflicts, name)
}

// applyFlags copies explicitly set flags over the loaded configuration.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	for flag, dst := range map[string]*string{
		"verbosity":    &cfg.Verbosity,
		"format":       &cfg.Format,
		"log-level":    &cfg.LogLevel,
		"metrics-file": &cfg.MetricsFile,
		"tracing":      &cfg.Tracing.Exporter,
		"base":         &cfg.BaseBranch,
		"strategy":     &cfg.Strategy,
	} {
		if changed(cmd, flag) {
			*dst = stringFlag(cmd, flag)
		}
	}

	for flag, dst := range map[string]*bool{
		"fail-on-new": &cfg.FailOnNew,
		"sequential":  &cfg.Sequential,
	} {
		if !changed(cmd, flag) {
			continue
		}
		v, err := strconv.ParseBool(cmd.Flags().Lookup(flag).Value.String())
		if err != nil {
			return fmt.Errorf("--%s: %w", flag, err)
		}
		*dst = v
	}
	return nil
}

// logLevel returns the explicit level, or one derived from verbosity. Logs
// share stderr with console messages, so only diagnostic runs log below Warn.
func logLevel(name string, verbosity output.Verbosity) (observability.LogLevel, error) {
	if name != "" {
		return observability.ParseLogLevel(name)
	}
	switch verbosity {
	case output.VerbosityDiagnostic:
		return observability.DebugLevel, nil
	case output.VerbosityQuiet:
		return observability.ErrorLevel, nil
	}
	return observability.WarnLevel, nil
}

func changed(cmd *cobra.Command, name string) bool {
	f := cmd.Flags().Lookup(name)
	return f != nil && f.Changed
}

func stringFlag(cmd *cobra.Command, name string) string {
	f := cmd.Flags().Lookup(name)
	if f == nil {
		return ""
	}
	return f.Value.String()
}
