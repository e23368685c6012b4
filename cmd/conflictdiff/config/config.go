// Package config loads conflictdiff settings.
//
// Settings are layered: built-in defaults, then the YAML file, then
// CONFLICTDIFF_* environment variables (a .env file in the working directory
// is loaded first), then command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultFileName is the per-project configuration file.
const DefaultFileName = ".conflictdiff.yaml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CONFLICTDIFF_"

// Config holds conflictdiff settings.
type Config struct {
	// BaseBranch is the branch the current branch is compared against
	BaseBranch string `yaml:"baseBranch"`

	// Strategy selects the collector: graph or tree
	Strategy string `yaml:"strategy"`

	Maven MavenConfig `yaml:"maven"`

	// Format is the report format: console or json
	Format string `yaml:"format"`

	// Verbosity is the console verbosity: quiet, normal, detailed, diagnostic
	Verbosity string `yaml:"verbosity"`

	// LogLevel overrides the log level derived from Verbosity
	LogLevel string `yaml:"logLevel"`

	Tracing TracingConfig `yaml:"tracing"`

	// MetricsFile receives Prometheus text-format metrics after each run
	MetricsFile string `yaml:"metricsFile"`

	// FailOnNew makes the run exit with code 2 when new conflicts appear
	FailOnNew bool `yaml:"failOnNew"`

	// Sequential collects base and current one after the other, so the two
	// Maven runs never download into ~/.m2/repository at the same time
	Sequential bool `yaml:"sequential"`
}

// MavenConfig holds the Maven invocation settings.
type MavenConfig struct {
	Executable string   `yaml:"executable"`
	Args       []string `yaml:"args"`
	Module     string   `yaml:"module"`
}

// TracingConfig holds OpenTelemetry exporter settings.
type TracingConfig struct {
	// Exporter is none, stdout or otlp
	Exporter     string  `yaml:"exporter"`
	Endpoint     string  `yaml:"endpoint"`
	Insecure     bool    `yaml:"insecure"`
	SamplingRate float64 `yaml:"samplingRate"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		BaseBranch: "develop",
		Strategy:   "graph",
		Maven: MavenConfig{
			Executable: "mvn",
			Args:       []string{"--batch-mode"},
		},
		Format:    "console",
		Verbosity: "normal",
		Tracing: TracingConfig{
			Exporter:     "none",
			Endpoint:     "localhost:4317",
			Insecure:     true,
			SamplingRate: 1.0,
		},
	}
}

// DefaultConfigLocations returns the configuration files to search, in
// precedence order.
func DefaultConfigLocations() []string {
	var locations []string

	if cwd, err := os.Getwd(); err == nil {
		locations = append(locations, filepath.Join(cwd, DefaultFileName))
	}
	if dir, err := os.UserConfigDir(); err == nil {
		locations = append(locations, filepath.Join(dir, "conflictdiff", "config.yaml"))
	}
	return locations
}

// FindConfigFile returns the first existing default configuration file, or "".
func FindConfigFile() string {
	for _, loc := range DefaultConfigLocations() {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}
	return ""
}

// Load builds the configuration. An explicit path must exist; with an empty
// path the default locations are searched and may all be absent.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = FindConfigFile()
	}
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	if err := LoadEnvFile(".env"); err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadEnvFile loads variables from a dotenv file without overriding ones
// already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			*dst = v
		}
	}
	boolean := func(name string, dst *bool) error {
		v, ok := lookup(EnvPrefix + name)
		if !ok || v == "" {
			return nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
		}
		*dst = b
		return nil
	}

	str("BASE_BRANCH", &c.BaseBranch)
	str("STRATEGY", &c.Strategy)
	str("MAVEN_EXECUTABLE", &c.Maven.Executable)
	str("MAVEN_MODULE", &c.Maven.Module)
	if v, ok := lookup(EnvPrefix + "MAVEN_ARGS"); ok {
		c.Maven.Args = strings.Fields(v)
	}
	str("FORMAT", &c.Format)
	str("VERBOSITY", &c.Verbosity)
	str("LOG_LEVEL", &c.LogLevel)
	str("TRACING_EXPORTER", &c.Tracing.Exporter)
	str("OTLP_ENDPOINT", &c.Tracing.Endpoint)
	str("METRICS_FILE", &c.MetricsFile)

	if err := boolean("OTLP_INSECURE", &c.Tracing.Insecure); err != nil {
		return err
	}
	if err := boolean("FAIL_ON_NEW", &c.FailOnNew); err != nil {
		return err
	}
	return boolean("SEQUENTIAL", &c.Sequential)
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	var errs []error
	if c.BaseBranch == "" {
		errs = append(errs, errors.New("baseBranch cannot be empty"))
	}
	if !oneOf(c.Strategy, "graph", "tree") {
		errs = append(errs, fmt.Errorf("invalid strategy %q (want graph or tree)", c.Strategy))
	}
	if !oneOf(c.Format, "console", "json") {
		errs = append(errs, fmt.Errorf("invalid format %q (want console or json)", c.Format))
	}
	if !oneOf(c.Verbosity, "quiet", "normal", "detailed", "diagnostic") {
		errs = append(errs, fmt.Errorf("invalid verbosity %q", c.Verbosity))
	}
	if !oneOf(c.Tracing.Exporter, "none", "stdout", "otlp") {
		errs = append(errs, fmt.Errorf("invalid tracing exporter %q", c.Tracing.Exporter))
	}
	if c.Tracing.SamplingRate < 0 || c.Tracing.SamplingRate > 1 {
		errs = append(errs, fmt.Errorf("tracing samplingRate %v out of range [0,1]", c.Tracing.SamplingRate))
	}
	return errors.Join(errs...)
}

func oneOf(v string, allowed ...string) bool {
	return slices.Contains(allowed, v)
}
