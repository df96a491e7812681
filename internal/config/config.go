// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers files and environment over those defaults.
// - External errors are wrapped with this package's sentinel errors.
package config

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var metricNamePart = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// TimelineStepMS is the spacing between timeline entries in milliseconds.
	TimelineStepMS int `koanf:"timeline_step_ms"`

	// MetricsEnabled turns metric recording on or off.
	MetricsEnabled bool `koanf:"metrics_enabled"`

	// MetricsNamespace, MetricsSubsystem and MetricsPrefix build metric names.
	MetricsNamespace string `koanf:"metrics_namespace"`
	MetricsSubsystem string `koanf:"metrics_subsystem"`
	MetricsPrefix    string `koanf:"metrics_prefix"`

	// MetricsRefreshMS is how often system metrics are sampled, in milliseconds.
	MetricsRefreshMS int `koanf:"metrics_refresh_ms"`

	// MetricsLabels are constant labels attached to every metric.
	MetricsLabels map[string]string `koanf:"metrics_labels"`

	// MetricsBuckets overrides the latency histogram buckets.
	MetricsBuckets []float64 `koanf:"metrics_buckets"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":9080",
		TimelineStepMS:   5_000,
		MetricsEnabled:   true,
		MetricsNamespace: "rangers",
		MetricsSubsystem: "widget",
		MetricsRefreshMS: 10_000,
	}
}

// TimelineStep returns the entry spacing as a duration.
func (c *Config) TimelineStep() time.Duration {
	return time.Duration(c.TimelineStepMS) * time.Millisecond
}

// MetricsRefresh returns the system metrics sampling interval.
func (c *Config) MetricsRefresh() time.Duration {
	return time.Duration(c.MetricsRefreshMS) * time.Millisecond
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.TimelineStepMS <= 0:
		return fmt.Errorf("%w: timeline_step_ms must be positive, got %d", ErrInvalidConfig, c.TimelineStepMS)
	case c.MetricsRefreshMS <= 0:
		return fmt.Errorf("%w: metrics_refresh_ms must be positive, got %d", ErrInvalidConfig, c.MetricsRefreshMS)
	}
	for key, v := range map[string]string{
		"metrics_namespace": c.MetricsNamespace,
		"metrics_subsystem": c.MetricsSubsystem,
		"metrics_prefix":    c.MetricsPrefix,
	} {
		if v != "" && !metricNamePart.MatchString(v) {
			return fmt.Errorf("%w: %s %q is not a valid metric name part", ErrInvalidConfig, key, v)
		}
	}
	for name := range c.MetricsLabels {
		if !metricNamePart.MatchString(name) {
			return fmt.Errorf("%w: metrics_labels key %q is not a valid label name", ErrInvalidConfig, name)
		}
	}
	for i := 1; i < len(c.MetricsBuckets); i++ {
		if c.MetricsBuckets[i] <= c.MetricsBuckets[i-1] {
			return fmt.Errorf("%w: metrics_buckets must be strictly increasing", ErrInvalidConfig)
		}
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: unknown log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	return nil
}
