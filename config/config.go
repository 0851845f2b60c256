package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the complete configuration tree.
type Config struct {
	// Orchestrator tunes handoff execution.
	Orchestrator OrchestratorConfig `yaml:"orchestrator" env:"ORCHESTRATOR"`

	// Store selects the handoff record backend.
	Store StoreConfig `yaml:"store" env:"STORE"`

	// Log configures structured logging.
	Log LogConfig `yaml:"log" env:"LOG"`

	// Telemetry configures tracing and metrics export.
	Telemetry TelemetryConfig `yaml:"telemetry" env:"TELEMETRY"`
}

// OrchestratorConfig tunes handoff execution.
type OrchestratorConfig struct {
	// DefaultTimeout bounds a handoff when the context carries none.
	DefaultTimeout time.Duration `yaml:"default_timeout" env:"DEFAULT_TIMEOUT"`
	// MaxIterations caps iterate-mode refinement loops.
	MaxIterations int `yaml:"max_iterations" env:"MAX_ITERATIONS"`
	// DebateRounds is the number of debate exchanges.
	DebateRounds int `yaml:"debate_rounds" env:"DEBATE_ROUNDS"`
	// ConfidenceThreshold is the synthesis floor below which human input
	// is requested.
	ConfidenceThreshold float64 `yaml:"confidence_threshold" env:"CONFIDENCE_THRESHOLD"`
	// MaxParallel caps concurrent unit invocations in a parallel group
	// (0 = unbounded).
	MaxParallel int `yaml:"max_parallel" env:"MAX_PARALLEL"`
	// InvocationRate paces unit invocations per second (0 = unlimited).
	InvocationRate float64 `yaml:"invocation_rate" env:"INVOCATION_RATE"`
}

// StoreConfig selects and configures the handoff record backend.
type StoreConfig struct {
	// Backend: memory, file, redis, sqlite.
	Backend string `yaml:"backend" env:"BACKEND"`
	// Path is the file path (file and sqlite backends).
	Path string `yaml:"path" env:"PATH"`
	// Addr is the redis address.
	Addr string `yaml:"addr" env:"ADDR"`
	// Password is the redis password.
	Password string `yaml:"password" env:"PASSWORD"`
	// DB is the redis database number.
	DB int `yaml:"db" env:"DB"`
	// TTL expires records after this duration (0 = keep forever).
	TTL time.Duration `yaml:"ttl" env:"TTL"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	// Level: debug, info, warn, error.
	Level string `yaml:"level" env:"LEVEL"`
	// Format: json, console.
	Format string `yaml:"format" env:"FORMAT"`
}

// TelemetryConfig configures tracing and metrics export.
type TelemetryConfig struct {
	// Enabled switches OTel export on. When false all instrumentation is
	// noop.
	Enabled bool `yaml:"enabled" env:"ENABLED"`
	// ServiceName tags exported spans and metrics.
	ServiceName string `yaml:"service_name" env:"SERVICE_NAME"`
	// Endpoint is the OTLP gRPC collector endpoint.
	Endpoint string `yaml:"endpoint" env:"ENDPOINT"`
	// SampleRate is the trace sampling ratio in [0,1].
	SampleRate float64 `yaml:"sample_rate" env:"SAMPLE_RATE"`
	// MetricsEnabled switches prometheus registration on.
	MetricsEnabled bool `yaml:"metrics_enabled" env:"METRICS_ENABLED"`
}

// DefaultConfig returns the configuration used when nothing overrides it.
func DefaultConfig() *Config {
	return &Config{
		Orchestrator: OrchestratorConfig{
			DefaultTimeout:      300 * time.Second,
			MaxIterations:       3,
			DebateRounds:        2,
			ConfidenceThreshold: 0.5,
			MaxParallel:         0,
			InvocationRate:      0,
		},
		Store: StoreConfig{
			Backend: "memory",
			Addr:    "localhost:6379",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Telemetry: TelemetryConfig{
			Enabled:     false,
			ServiceName: "handoffcore",
			Endpoint:    "localhost:4317",
			SampleRate:  1.0,
		},
	}
}

// Validate reports configuration errors in one pass.
func (c *Config) Validate() error {
	var errs []string

	if c.Orchestrator.DefaultTimeout <= 0 {
		errs = append(errs, "default_timeout must be positive")
	}
	if c.Orchestrator.MaxIterations <= 0 {
		errs = append(errs, "max_iterations must be positive")
	}
	if c.Orchestrator.DebateRounds <= 0 {
		errs = append(errs, "debate_rounds must be positive")
	}
	if c.Orchestrator.ConfidenceThreshold < 0 || c.Orchestrator.ConfidenceThreshold > 1 {
		errs = append(errs, "confidence_threshold must be between 0 and 1")
	}

	switch c.Store.Backend {
	case "memory", "file", "redis", "sqlite":
	default:
		errs = append(errs, fmt.Sprintf("unknown store backend %q", c.Store.Backend))
	}

	if c.Telemetry.SampleRate < 0 || c.Telemetry.SampleRate > 1 {
		errs = append(errs, "sample_rate must be between 0 and 1")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors: %s", strings.Join(errs, "; "))
	}
	return nil
}
