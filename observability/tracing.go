package observability

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
)

// Span exporters understood by SetupTracing.
const (
	ExporterNone   = "none"
	ExporterStdout = "stdout"
	ExporterOTLP   = "otlp"
)

// shutdownTimeout bounds the final span flush so a dead collector cannot
// hold up the exit code of a CI step.
const shutdownTimeout = 5 * time.Second

// spanOutput receives spans from the stdout exporter. Stdout carries reports.
var spanOutput io.Writer = os.Stderr

// TracerConfig selects where conflictdiff sends the spans of a run.
type TracerConfig struct {
	ServiceName    string
	ServiceVersion string

	// Exporter is one of ExporterNone, ExporterStdout or ExporterOTLP.
	Exporter string

	// Endpoint is the OTLP gRPC collector address, host:port.
	Endpoint string

	// Insecure talks plaintext gRPC to the collector instead of TLS.
	Insecure bool

	// SamplingRate is the fraction of root spans kept, 0 to 1.
	SamplingRate float64
}

// DefaultTracerConfig keeps tracing off and points OTLP at a local collector.
func DefaultTracerConfig() TracerConfig {
	return TracerConfig{
		ServiceName:    "conflictdiff",
		ServiceVersion: "0.1.0",
		Exporter:       ExporterNone,
		Endpoint:       "localhost:4317",
		Insecure:       true,
		SamplingRate:   1.0,
	}
}

// SetupTracing installs a global tracer provider for cfg. With ExporterNone
// spans are still created, so span helpers stay safe to call, but nothing
// leaves the process.
func SetupTracing(ctx context.Context, cfg TracerConfig) (*sdktrace.TracerProvider, error) {
	res, err := resource.New(ctx, resource.WithAttributes(
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.ServiceVersion),
	))
	if err != nil {
		return nil, fmt.Errorf("build trace resource: %w", err)
	}

	exporter, err := newSpanExporter(ctx, cfg)
	if err != nil {
		return nil, err
	}

	opts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}
	if exporter != nil {
		opts = append(opts,
			sdktrace.WithBatcher(exporter),
			sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SamplingRate))),
		)
	}
	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)

	// A trace started by the calling pipeline continues through the mvn and git runs.
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	return tp, nil
}

// newSpanExporter returns nil for ExporterNone.
func newSpanExporter(ctx context.Context, cfg TracerConfig) (sdktrace.SpanExporter, error) {
	switch cfg.Exporter {
	case ExporterNone, "":
		return nil, nil

	case ExporterStdout:
		exp, err := stdouttrace.New(stdouttrace.WithWriter(spanOutput), stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("create stdout span exporter: %w", err)
		}
		return exp, nil

	case ExporterOTLP:
		conn, err := grpc.NewClient(cfg.Endpoint, grpc.WithTransportCredentials(collectorCredentials(cfg.Insecure)))
		if err != nil {
			return nil, fmt.Errorf("connect to OTLP collector %s: %w", cfg.Endpoint, err)
		}
		exp, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
		if err != nil {
			return nil, fmt.Errorf("create OTLP span exporter: %w", err)
		}
		return exp, nil
	}
	return nil, fmt.Errorf("unknown tracing exporter %q (want none, stdout or otlp)", cfg.Exporter)
}

// collectorCredentials picks plaintext or TLS 1.2+ for the OTLP connection.
func collectorCredentials(plaintext bool) credentials.TransportCredentials {
	if plaintext {
		return insecure.NewCredentials()
	}
	return credentials.NewTLS(&tls.Config{MinVersion: tls.VersionTLS12})
}

// ShutdownTracing flushes buffered spans and stops tp.
func ShutdownTracing(ctx context.Context, tp *sdktrace.TracerProvider) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := tp.Shutdown(ctx); err != nil {
		return fmt.Errorf("flush spans: %w", err)
	}
	return nil
}

// StartSpan starts a span on the conflictdiff tracer.
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return otel.Tracer(TracerName).Start(ctx, name, opts...)
}
