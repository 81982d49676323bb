package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaya2m/BookStoreApp-API/internal/telemetry"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		yaml     string
		wantErr  string
		validate func(*testing.T, *Config)
	}{
		{
			name: "full configuration",
			yaml: `
connectionStrings:
  sqlConnection: "postgres://bookstore@localhost:5432/bookstore"
server:
  address: ":9090"
  requestTimeout: "5s"
database:
  maxConns: 20
  minConns: 2
  connMaxLifetime: "1h"
cors:
  allowedOrigins: ["https://books.example"]
  allowedMethods: ["GET", "POST"]
  allowCredentials: true
  maxAge: 300
versioning:
  defaultVersion: "1.0"
  assumeDefaultWhenUnspecified: true
  reportApiVersions: true
  supportedVersions: ["1.0", "2.0"]
logging:
  level: debug
  format: text
  output: /var/log/bookstore.log
  rotation:
    maxSizeMB: 10
    compress: true
telemetry:
  enabled: true
  serviceName: books
  tracing:
    enabled: true
    sampling: 0.5
`,
			validate: func(t *testing.T, c *Config) {
				t.Helper()
				assert.Equal(t, "postgres://bookstore@localhost:5432/bookstore", c.ConnectionStrings[SQLConnectionName])
				assert.Equal(t, ":9090", c.GetAddress())
				assert.Equal(t, int32(20), c.Database.MaxConns)
				assert.Equal(t, []string{"https://books.example"}, c.GetCORS().AllowedOrigins)
				assert.Equal(t, []string{PaginationHeader}, c.GetCORS().ExposedHeaders)
				assert.True(t, c.GetVersioning().ReportAPIVersions)
				assert.Equal(t, []string{"1.0", "2.0"}, c.GetVersioning().SupportedVersions)
				assert.Equal(t, LogFormatText, c.GetLogging().Format)
				require.NotNil(t, c.GetLogging().Rotation)
				assert.Equal(t, 10, c.GetLogging().Rotation.MaxSizeMB)
				require.NotNil(t, c.Telemetry)
				assert.Equal(t, "books", c.Telemetry.GetServiceName())
				assert.Equal(t, 0.5, c.Telemetry.Tracing.GetSampling())
			},
		},
		{
			name: "empty file uses defaults",
			yaml: "",
			validate: func(t *testing.T, c *Config) {
				t.Helper()
				assert.Equal(t, DefaultAddress, c.GetAddress())
				assert.Equal(t, "1.0", c.GetVersioning().DefaultVersion)
				assert.False(t, c.GetVersioning().AssumeDefaultWhenUnspecified)
			},
		},
		{
			name:    "malformed yaml",
			yaml:    "server: [",
			wantErr: "failed to parse YAML config",
		},
		{
			name:    "invalid request timeout",
			yaml:    "server:\n  requestTimeout: soon\n",
			wantErr: "server.requestTimeout",
		},
		{
			name:    "min above max connections",
			yaml:    "database:\n  maxConns: 2\n  minConns: 5\n",
			wantErr: "cannot exceed",
		},
		{
			name:    "credentials with any origin",
			yaml:    "cors:\n  allowCredentials: true\n",
			wantErr: "cors.allowCredentials",
		},
		{
			name:    "default version not supported",
			yaml:    "versioning:\n  defaultVersion: \"3.0\"\n  supportedVersions: [\"1.0\"]\n",
			wantErr: "is not listed in supportedVersions",
		},
		{
			name:    "unparseable supported version",
			yaml:    "versioning:\n  supportedVersions: [\"1.0\", \"v2-beta\"]\n",
			wantErr: "versioning.supportedVersions[1]",
		},
		{
			name:    "invalid log level",
			yaml:    "logging:\n  level: loud\n",
			wantErr: "logging.level",
		},
		{
			name:    "invalid log format",
			yaml:    "logging:\n  format: xml\n",
			wantErr: "logging.format",
		},
		{
			name:    "invalid telemetry",
			yaml:    "telemetry:\n  enabled: true\n  tracing:\n    enabled: true\n    sampling: 2\n",
			wantErr: "telemetry",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg, err := LoadConfig(WithConfigPath(writeConfig(t, tt.yaml)))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.validate(t, cfg)
		})
	}
}

func TestLoadConfig_NoPath(t *testing.T) {
	t.Parallel()

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, DefaultAddress, cfg.GetAddress())
}

func TestWithConfigPath(t *testing.T) {
	t.Parallel()

	_, err := LoadConfig(WithConfigPath(""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "path is required")

	_, err = LoadConfig(WithConfigPath(filepath.Join(t.TempDir(), "missing.yaml")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to evaluate symlinks")

	target := writeConfig(t, "server:\n  address: \":7000\"\n")
	link := filepath.Join(t.TempDir(), "link.yaml")
	require.NoError(t, os.Symlink(target, link))
	cfg, err := LoadConfig(WithConfigPath(link))
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.GetAddress())
}

func TestConfig_GetConnectionString(t *testing.T) {
	cfg := &Config{ConnectionStrings: map[string]string{SQLConnectionName: "from-file"}}

	t.Setenv("BOOKAPI_CONNECTIONSTRINGS_SQLCONNECTION", "")
	assert.Equal(t, "from-file", cfg.GetConnectionString(SQLConnectionName))
	assert.Equal(t, "", cfg.GetConnectionString("other"))

	t.Setenv("BOOKAPI_CONNECTIONSTRINGS_SQLCONNECTION", "from-env")
	assert.Equal(t, "from-env", cfg.GetConnectionString(SQLConnectionName))
}

func TestConfig_Getters(t *testing.T) {
	t.Parallel()

	cfg := &Config{}
	assert.Equal(t, DefaultAddress, cfg.GetAddress())
	assert.Equal(t, 3*time.Second, cfg.GetRequestTimeout(3*time.Second))

	cors := cfg.GetCORS()
	assert.Equal(t, []string{"*"}, cors.AllowedOrigins)
	assert.Equal(t, []string{"*"}, cors.AllowedMethods)
	assert.Equal(t, []string{"*"}, cors.AllowedHeaders)
	assert.Equal(t, []string{PaginationHeader}, cors.ExposedHeaders)

	logging := cfg.GetLogging()
	assert.Equal(t, "info", logging.Level)
	assert.Equal(t, LogFormatJSON, logging.Format)
	assert.Equal(t, "stderr", logging.Output)

	cfg = &Config{Server: &ServerConfig{RequestTimeout: "2s"}}
	assert.Equal(t, 2*time.Second, cfg.GetRequestTimeout(0))
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	var nilCfg *Config
	require.Error(t, nilCfg.Validate())

	require.NoError(t, (&Config{Telemetry: &telemetry.Config{Enabled: false}}).Validate())

	err := (&Config{Database: &DatabaseConfig{MaxConns: -1}}).Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.maxConns")

	err = (&Config{CORS: &CORSConfig{MaxAge: -5}}).Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cors.maxAge")

	require.NoError(t, (&Config{CORS: &CORSConfig{
		AllowedOrigins:   []string{"https://books.example"},
		AllowCredentials: true,
	}}).Validate())
}
