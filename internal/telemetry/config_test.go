package telemetry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(f float64) *float64 {
	return &f
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		config  *Config
		wantErr string
	}{
		{name: "nil config", config: nil},
		{
			name:   "disabled ignores bad values",
			config: &Config{Tracing: &TracingConfig{Sampling: floatPtr(4)}},
		},
		{
			name: "valid",
			config: &Config{
				Enabled: true,
				Tracing: &TracingConfig{Enabled: true, Sampling: floatPtr(1)},
				Metrics: &MetricsConfig{Enabled: true, Interval: "15s"},
			},
		},
		{
			name: "sampling out of range",
			config: &Config{
				Enabled: true,
				Tracing: &TracingConfig{Enabled: true, Sampling: floatPtr(1.5)},
			},
			wantErr: "sampling must be between 0.0 and 1.0",
		},
		{
			name: "bad interval",
			config: &Config{
				Enabled: true,
				Metrics: &MetricsConfig{Enabled: true, Interval: "soon"},
			},
			wantErr: "invalid interval",
		},
		{
			name: "negative interval",
			config: &Config{
				Enabled: true,
				Metrics: &MetricsConfig{Enabled: true, Interval: "-1s"},
			},
			wantErr: "interval must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.config.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_Defaults(t *testing.T) {
	t.Parallel()

	cfg := &Config{}
	assert.Equal(t, DefaultServiceName, cfg.GetServiceName())
	assert.Equal(t, "unknown", cfg.GetServiceVersion())
	assert.Equal(t, DefaultEndpoint, cfg.GetEndpoint())

	var tracing *TracingConfig
	assert.Equal(t, DefaultSampling, tracing.GetSampling())
	assert.Equal(t, 0.0, (&TracingConfig{Sampling: floatPtr(0)}).GetSampling())

	var metrics *MetricsConfig
	assert.Equal(t, DefaultExportInterval, metrics.GetInterval())
	assert.Equal(t, 10*time.Second, (&MetricsConfig{Interval: "10s"}).GetInterval())

	cfg = &Config{ServiceName: "books", ServiceVersion: "1.2.3", Endpoint: "otel:4318"}
	assert.Equal(t, "books", cfg.GetServiceName())
	assert.Equal(t, "1.2.3", cfg.GetServiceVersion())
	assert.Equal(t, "otel:4318", cfg.GetEndpoint())
}
