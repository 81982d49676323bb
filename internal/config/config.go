// Package config provides configuration loading and management for the bookstore API host.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/kaya2m/BookStoreApp-API/internal/telemetry"
	"github.com/kaya2m/BookStoreApp-API/internal/versioning"
)

const (
	// EnvPrefix is the prefix of every environment variable read by the server
	EnvPrefix = "BOOKAPI"

	// SQLConnectionName is the name of the connection string used for the book database
	SQLConnectionName = "sqlConnection"

	// CORSPolicyName is the name of the CORS policy applied to every route
	CORSPolicyName = "CorsPolicy"

	// PaginationHeader is the response header carrying paging metadata
	PaginationHeader = "X-Pagination"

	// DefaultAddress is the HTTP listen address used when none is configured
	DefaultAddress = ":8080"
)

const (
	// LogFormatJSON writes one JSON object per log record
	LogFormatJSON = "json"

	// LogFormatText writes logfmt-style key=value records
	LogFormatText = "text"
)

var validLogLevels = []string{"", "debug", "info", "warn", "warning", "error"}

// Option defines the interface for configuration options
type Option func(*loaderConfig) error

// loaderConfig defines the configuration for loading a configuration
type loaderConfig struct {
	path string
}

// WithConfigPath loads configuration from a YAML file
func WithConfigPath(path string) Option {
	return func(cfg *loaderConfig) error {
		if path == "" {
			return fmt.Errorf("path is required")
		}

		// Resolve symlinks to prevent symlink attacks.
		// Note that this calls filepath.Clean internally.
		realPath, err := filepath.EvalSymlinks(path)
		if err != nil {
			return fmt.Errorf("failed to evaluate symlinks: %w", err)
		}

		if !filepath.IsAbs(realPath) && !filepath.IsLocal(realPath) {
			return fmt.Errorf("path is not local or contains invalid traversal: %s", path)
		}

		cfg.path = realPath
		return nil
	}
}

// Config represents the root configuration structure
type Config struct {
	// ConnectionStrings maps connection names to connection strings.
	// The book database uses the "sqlConnection" entry.
	ConnectionStrings map[string]string `yaml:"connectionStrings,omitempty"`

	Server     *ServerConfig     `yaml:"server,omitempty"`
	Database   *DatabaseConfig   `yaml:"database,omitempty"`
	CORS       *CORSConfig       `yaml:"cors,omitempty"`
	Versioning *VersioningConfig `yaml:"versioning,omitempty"`
	Logging    *LoggingConfig    `yaml:"logging,omitempty"`
	Telemetry  *telemetry.Config `yaml:"telemetry,omitempty"`
}

// ServerConfig defines HTTP listener settings
type ServerConfig struct {
	// Address is the host:port to listen on
	Address string `yaml:"address,omitempty"`

	// RequestTimeout bounds handler execution (e.g., "10s")
	RequestTimeout string `yaml:"requestTimeout,omitempty"`
}

// DatabaseConfig defines connection pool settings.
// The connection target itself comes from ConnectionStrings.
type DatabaseConfig struct {
	// MaxConns is the maximum number of connections in the pool
	MaxConns int32 `yaml:"maxConns,omitempty"`

	// MinConns is the number of connections kept open when idle
	MinConns int32 `yaml:"minConns,omitempty"`

	// ConnMaxLifetime is the maximum lifetime of a connection (e.g., "1h", "30m")
	ConnMaxLifetime string `yaml:"connMaxLifetime,omitempty"`
}

// CORSConfig defines the cross-origin policy
type CORSConfig struct {
	AllowedOrigins   []string `yaml:"allowedOrigins,omitempty"`
	AllowedMethods   []string `yaml:"allowedMethods,omitempty"`
	AllowedHeaders   []string `yaml:"allowedHeaders,omitempty"`
	ExposedHeaders   []string `yaml:"exposedHeaders,omitempty"`
	AllowCredentials bool     `yaml:"allowCredentials,omitempty"`

	// MaxAge is how long, in seconds, preflight results may be cached
	MaxAge int `yaml:"maxAge,omitempty"`
}

// VersioningConfig defines API version negotiation
type VersioningConfig struct {
	// DefaultVersion is the version assumed or advertised as default (e.g., "1.0")
	DefaultVersion string `yaml:"defaultVersion,omitempty"`

	// AssumeDefaultWhenUnspecified serves DefaultVersion to requests without a version.
	// When false such requests are rejected.
	AssumeDefaultWhenUnspecified bool `yaml:"assumeDefaultWhenUnspecified,omitempty"`

	// ReportAPIVersions adds the api-supported-versions response header
	ReportAPIVersions bool `yaml:"reportApiVersions,omitempty"`

	// SupportedVersions lists the accepted versions. Defaults to DefaultVersion only.
	SupportedVersions []string `yaml:"supportedVersions,omitempty"`
}

// LoggingConfig defines log output settings
type LoggingConfig struct {
	// Level is one of debug, info, warn, error
	Level string `yaml:"level,omitempty"`

	// Format is json or text
	Format string `yaml:"format,omitempty"`

	// Output is stderr, stdout, or a file path
	Output string `yaml:"output,omitempty"`

	// Rotation applies when Output is a file path
	Rotation *RotationConfig `yaml:"rotation,omitempty"`
}

// RotationConfig controls log file rotation
type RotationConfig struct {
	MaxSizeMB  int  `yaml:"maxSizeMB,omitempty"`
	MaxBackups int  `yaml:"maxBackups,omitempty"`
	MaxAgeDays int  `yaml:"maxAgeDays,omitempty"`
	Compress   bool `yaml:"compress,omitempty"`
}

// LoadConfig loads and parses configuration from a YAML file.
// Without a path the default configuration is returned.
func LoadConfig(opts ...Option) (*Config, error) {
	loaderCfg := &loaderConfig{}
	for _, opt := range opts {
		if err := opt(loaderCfg); err != nil {
			return nil, err
		}
	}

	config := &Config{}
	if loaderCfg.path != "" {
		data, err := os.ReadFile(loaderCfg.path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// GetConnectionString returns the named connection string.
// The environment variable BOOKAPI_CONNECTIONSTRINGS_<NAME> takes precedence
// over the configuration file.
func (c *Config) GetConnectionString(name string) string {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if fromEnv := v.GetString("connectionstrings." + strings.ToLower(name)); fromEnv != "" {
		return fromEnv
	}
	return c.ConnectionStrings[name]
}

// GetAddress returns the listen address, using DefaultAddress if not specified
func (c *Config) GetAddress() string {
	if c.Server == nil || c.Server.Address == "" {
		return DefaultAddress
	}
	return c.Server.Address
}

// GetRequestTimeout returns the configured request timeout, or fallback if unset
func (c *Config) GetRequestTimeout(fallback time.Duration) time.Duration {
	if c.Server == nil || c.Server.RequestTimeout == "" {
		return fallback
	}
	d, err := time.ParseDuration(c.Server.RequestTimeout)
	if err != nil {
		return fallback
	}
	return d
}

// GetCORS returns the CORS policy with defaults applied: any origin,
// any method, any header, exposing X-Pagination.
func (c *Config) GetCORS() CORSConfig {
	out := CORSConfig{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"*"},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{PaginationHeader},
	}
	if c.CORS == nil {
		return out
	}
	if len(c.CORS.AllowedOrigins) > 0 {
		out.AllowedOrigins = c.CORS.AllowedOrigins
	}
	if len(c.CORS.AllowedMethods) > 0 {
		out.AllowedMethods = c.CORS.AllowedMethods
	}
	if len(c.CORS.AllowedHeaders) > 0 {
		out.AllowedHeaders = c.CORS.AllowedHeaders
	}
	if len(c.CORS.ExposedHeaders) > 0 {
		out.ExposedHeaders = c.CORS.ExposedHeaders
	}
	out.AllowCredentials = c.CORS.AllowCredentials
	out.MaxAge = c.CORS.MaxAge
	return out
}

// GetVersioning returns the API versioning options with defaults applied
func (c *Config) GetVersioning() VersioningConfig {
	out := VersioningConfig{DefaultVersion: versioning.DefaultVersion.String()}
	if c.Versioning == nil {
		return out
	}
	if c.Versioning.DefaultVersion != "" {
		out.DefaultVersion = c.Versioning.DefaultVersion
	}
	out.AssumeDefaultWhenUnspecified = c.Versioning.AssumeDefaultWhenUnspecified
	out.ReportAPIVersions = c.Versioning.ReportAPIVersions
	out.SupportedVersions = c.Versioning.SupportedVersions
	return out
}

// GetLogging returns the logging settings with defaults applied
func (c *Config) GetLogging() LoggingConfig {
	out := LoggingConfig{Level: "info", Format: LogFormatJSON, Output: "stderr"}
	if c.Logging == nil {
		return out
	}
	if c.Logging.Level != "" {
		out.Level = c.Logging.Level
	}
	if c.Logging.Format != "" {
		out.Format = c.Logging.Format
	}
	if c.Logging.Output != "" {
		out.Output = c.Logging.Output
	}
	out.Rotation = c.Logging.Rotation
	return out
}

// Validate performs validation on the configuration
func (c *Config) Validate() error {
	return c.validate()
}

func (c *Config) validate() error {
	if c == nil {
		return fmt.Errorf("config cannot be nil")
	}

	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateCORS(); err != nil {
		return err
	}
	if err := c.validateVersioning(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.Telemetry.Validate(); err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}

	return nil
}

func (c *Config) validateServer() error {
	if c.Server == nil || c.Server.RequestTimeout == "" {
		return nil
	}
	if _, err := time.ParseDuration(c.Server.RequestTimeout); err != nil {
		return fmt.Errorf("server.requestTimeout must be a valid duration (e.g., '10s'): %w", err)
	}
	return nil
}

func (c *Config) validateDatabase() error {
	db := c.Database
	if db == nil {
		return nil
	}
	if db.MaxConns < 0 {
		return fmt.Errorf("database.maxConns cannot be negative")
	}
	if db.MinConns < 0 {
		return fmt.Errorf("database.minConns cannot be negative")
	}
	if db.MaxConns > 0 && db.MinConns > db.MaxConns {
		return fmt.Errorf("database.minConns (%d) cannot exceed database.maxConns (%d)", db.MinConns, db.MaxConns)
	}
	if db.ConnMaxLifetime != "" {
		if _, err := time.ParseDuration(db.ConnMaxLifetime); err != nil {
			return fmt.Errorf("database.connMaxLifetime must be a valid duration (e.g., '30m', '1h'): %w", err)
		}
	}
	return nil
}

func (c *Config) validateCORS() error {
	if c.CORS == nil {
		return nil
	}
	if c.CORS.MaxAge < 0 {
		return fmt.Errorf("cors.maxAge cannot be negative")
	}
	if c.CORS.AllowCredentials && slices.Contains(c.GetCORS().AllowedOrigins, "*") {
		return fmt.Errorf("cors.allowCredentials requires explicit allowedOrigins, not '*'")
	}
	return nil
}

func (c *Config) validateVersioning() error {
	vc := c.GetVersioning()

	defaultVersion, err := versioning.Parse(vc.DefaultVersion)
	if err != nil {
		return fmt.Errorf("versioning.defaultVersion: %w", err)
	}

	if len(vc.SupportedVersions) == 0 {
		return nil
	}

	supported := make([]versioning.Version, 0, len(vc.SupportedVersions))
	for i, s := range vc.SupportedVersions {
		v, err := versioning.Parse(s)
		if err != nil {
			return fmt.Errorf("versioning.supportedVersions[%d]: %w", i, err)
		}
		supported = append(supported, v)
	}
	if !slices.Contains(supported, defaultVersion) {
		return fmt.Errorf("versioning.defaultVersion %s is not listed in supportedVersions", defaultVersion)
	}
	return nil
}

func (c *Config) validateLogging() error {
	if c.Logging == nil {
		return nil
	}
	if !slices.Contains(validLogLevels, strings.ToLower(c.Logging.Level)) {
		return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", LogFormatJSON, LogFormatText:
	default:
		return fmt.Errorf("logging.format must be %s or %s; got %q", LogFormatJSON, LogFormatText, c.Logging.Format)
	}
	return nil
}
