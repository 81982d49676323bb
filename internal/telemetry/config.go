// Package telemetry wires OpenTelemetry tracing and metrics for the
// bookstore API, exported over OTLP/HTTP.
package telemetry

import (
	"errors"
	"fmt"
	"time"
)

const (
	// DefaultServiceName identifies the service when none is configured
	DefaultServiceName = "bookstore-api"

	// DefaultEndpoint is the OTLP/HTTP collector address
	DefaultEndpoint = "localhost:4318"

	// DefaultSampling samples one trace in twenty
	DefaultSampling = 0.05

	// DefaultExportInterval is how often metrics are pushed to the collector
	DefaultExportInterval = 60 * time.Second
)

// Config is the telemetry section of the server configuration.
type Config struct {
	// Enabled turns telemetry on. When false no SDK provider is created.
	Enabled bool `yaml:"enabled"`

	ServiceName    string `yaml:"serviceName,omitempty"`
	ServiceVersion string `yaml:"serviceVersion,omitempty"`

	// Endpoint is "host:port"; the exporters append /v1/traces and /v1/metrics.
	Endpoint string `yaml:"endpoint,omitempty"`

	// Insecure exports over plain HTTP.
	Insecure bool `yaml:"insecure,omitempty"`

	Tracing *TracingConfig `yaml:"tracing,omitempty"`
	Metrics *MetricsConfig `yaml:"metrics,omitempty"`
}

// TracingConfig controls span export.
type TracingConfig struct {
	Enabled bool `yaml:"enabled"`

	// Sampling is the ratio of traces kept, between 0 and 1.
	// Nil means DefaultSampling.
	Sampling *float64 `yaml:"sampling,omitempty"`
}

// MetricsConfig controls metric export.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`

	// Interval is a Go duration string; empty means DefaultExportInterval.
	Interval string `yaml:"interval,omitempty"`

	// Prometheus additionally serves the metrics at /metrics for scraping
	Prometheus bool `yaml:"prometheus,omitempty"`
}

// GetServiceName returns the configured service name or the default
func (c *Config) GetServiceName() string {
	if c.ServiceName == "" {
		return DefaultServiceName
	}
	return c.ServiceName
}

// GetServiceVersion returns the configured service version or "unknown"
func (c *Config) GetServiceVersion() string {
	if c.ServiceVersion == "" {
		return "unknown"
	}
	return c.ServiceVersion
}

// GetEndpoint returns the configured collector endpoint or the default
func (c *Config) GetEndpoint() string {
	if c.Endpoint == "" {
		return DefaultEndpoint
	}
	return c.Endpoint
}

// GetSampling returns the sampling ratio
func (c *TracingConfig) GetSampling() float64 {
	if c == nil || c.Sampling == nil {
		return DefaultSampling
	}
	return *c.Sampling
}

// GetInterval returns the export interval. Call Validate first.
func (c *MetricsConfig) GetInterval() time.Duration {
	if c == nil || c.Interval == "" {
		return DefaultExportInterval
	}
	d, err := time.ParseDuration(c.Interval)
	if err != nil || d <= 0 {
		return DefaultExportInterval
	}
	return d
}

func (c *Config) tracingEnabled() bool {
	return c != nil && c.Enabled && c.Tracing != nil && c.Tracing.Enabled
}

func (c *Config) metricsEnabled() bool {
	return c != nil && c.Enabled && c.Metrics != nil && c.Metrics.Enabled
}

// Validate checks the telemetry configuration. A nil or disabled config is valid.
func (c *Config) Validate() error {
	if c == nil || !c.Enabled {
		return nil
	}

	var errs []error
	if c.Tracing != nil && c.Tracing.Sampling != nil {
		if s := *c.Tracing.Sampling; s < 0 || s > 1 {
			errs = append(errs, fmt.Errorf("tracing: sampling must be between 0.0 and 1.0, got %f", s))
		}
	}
	if c.Metrics != nil && c.Metrics.Interval != "" {
		d, err := time.ParseDuration(c.Metrics.Interval)
		if err != nil {
			errs = append(errs, fmt.Errorf("metrics: invalid interval %q: %w", c.Metrics.Interval, err))
		} else if d <= 0 {
			errs = append(errs, fmt.Errorf("metrics: interval must be positive, got %s", d))
		}
	}

	return errors.Join(errs...)
}
