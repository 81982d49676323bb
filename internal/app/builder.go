package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/netip"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/kaya2m/BookStoreApp-API/internal/api"
	"github.com/kaya2m/BookStoreApp-API/internal/config"
	"github.com/kaya2m/BookStoreApp-API/internal/cors"
	"github.com/kaya2m/BookStoreApp-API/internal/db"
	"github.com/kaya2m/BookStoreApp-API/internal/filters"
	"github.com/kaya2m/BookStoreApp-API/internal/formatter"
	"github.com/kaya2m/BookStoreApp-API/internal/service"
	"github.com/kaya2m/BookStoreApp-API/internal/telemetry"
	"github.com/kaya2m/BookStoreApp-API/internal/versioning"
)

const (
	defaultRequestTimeout = 10 * time.Second
	defaultReadTimeout    = 10 * time.Second
	defaultWriteTimeout   = 15 * time.Second
	defaultIdleTimeout    = 60 * time.Second
)

// BookstoreAppOptions configures the app builder
type BookstoreAppOptions func(*bookstoreAppConfig) error

type bookstoreAppConfig struct {
	config *config.Config

	// Optional component overrides (primarily for testing)
	registry  *formatter.Registry
	readiness service.ReadinessService
	logger    *slog.Logger

	// HTTP server options
	address      string
	middlewares  []func(http.Handler) http.Handler
	readTimeout  time.Duration
	writeTimeout time.Duration
	idleTimeout  time.Duration

	// Telemetry components
	telemetry      *telemetry.Telemetry
	meterProvider  metric.MeterProvider
	tracerProvider trace.TracerProvider
	metricsHandler http.Handler
}

func baseConfig(opts ...BookstoreAppOptions) (*bookstoreAppConfig, error) {
	cfg := &bookstoreAppConfig{
		readTimeout:  defaultReadTimeout,
		writeTimeout: defaultWriteTimeout,
		idleTimeout:  defaultIdleTimeout,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if cfg.config == nil {
		cfg.config = &config.Config{}
	}
	if cfg.address == "" {
		cfg.address = cfg.config.GetAddress()
	}
	return cfg, nil
}

// NewBookstoreApp builds the application: the formatter registry first
// (custom media types registered exactly once, then frozen), then the
// database, the readiness service and finally the HTTP server.
func NewBookstoreApp(ctx context.Context, opts ...BookstoreAppOptions) (*BookstoreApp, error) {
	cfg, err := baseConfig(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build base configuration: %w", err)
	}

	registry, err := buildFormatterRegistry(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build formatter registry: %w", err)
	}

	conn, err := buildDatabase(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	readiness := cfg.readiness
	if readiness == nil {
		var serviceOpts []service.Option
		if cfg.tracerProvider != nil {
			serviceOpts = append(serviceOpts, service.WithTracer(cfg.tracerProvider.Tracer(telemetry.InstrumentationName)))
		}
		if conn != nil {
			readiness = service.NewReadinessService(conn, serviceOpts...)
		} else {
			readiness = service.NewReadinessService(nil, serviceOpts...)
		}
	}

	httpServer, err := buildHTTPServer(cfg, registry, readiness)
	if err != nil {
		if conn != nil {
			conn.Close()
		}
		return nil, fmt.Errorf("failed to build HTTP server: %w", err)
	}

	return &BookstoreApp{
		config: cfg.config,
		components: &AppComponents{
			Formatters: registry,
			Readiness:  readiness,
			Database:   conn,
		},
		httpServer: httpServer,
		telemetry:  cfg.telemetry,
	}, nil
}

// WithConfig sets the configuration
func WithConfig(c *config.Config) BookstoreAppOptions {
	return func(cfg *bookstoreAppConfig) error {
		cfg.config = c
		return nil
	}
}

// WithAddress overrides the listen address from the configuration
func WithAddress(addr string) BookstoreAppOptions {
	return func(cfg *bookstoreAppConfig) error {
		if addr == "" {
			return fmt.Errorf("address cannot be empty")
		}

		host, port, found := strings.Cut(addr, ":")
		if !found || port == "" {
			return fmt.Errorf("address is not a valid port: %s", addr)
		}
		switch host {
		case "localhost":
			host = "127.0.0.1"
		case "":
			host = "0.0.0.0"
		}
		if _, err := netip.ParseAddrPort(host + ":" + port); err != nil {
			return fmt.Errorf("address is not a valid port: %w", err)
		}

		cfg.address = addr
		return nil
	}
}

// WithMiddlewares replaces the default middleware chain
func WithMiddlewares(mw ...func(http.Handler) http.Handler) BookstoreAppOptions {
	return func(cfg *bookstoreAppConfig) error {
		cfg.middlewares = mw
		return nil
	}
}

// WithFormatterRegistry injects a preconfigured formatter registry. It is
// used as given and frozen; no media types are added to it.
func WithFormatterRegistry(r *formatter.Registry) BookstoreAppOptions {
	return func(cfg *bookstoreAppConfig) error {
		if r == nil {
			return fmt.Errorf("formatter registry cannot be nil")
		}
		cfg.registry = r
		return nil
	}
}

// WithReadinessService injects the readiness service; no database is opened
func WithReadinessService(svc service.ReadinessService) BookstoreAppOptions {
	return func(cfg *bookstoreAppConfig) error {
		cfg.readiness = svc
		return nil
	}
}

// WithLogger sets the logger of the route log filter
func WithLogger(l *slog.Logger) BookstoreAppOptions {
	return func(cfg *bookstoreAppConfig) error {
		cfg.logger = l
		return nil
	}
}

// WithMeterProvider sets the OpenTelemetry meter provider for HTTP and
// negotiation metrics
func WithMeterProvider(mp metric.MeterProvider) BookstoreAppOptions {
	return func(cfg *bookstoreAppConfig) error {
		cfg.meterProvider = mp
		return nil
	}
}

// WithTelemetry uses the providers of t and shuts t down on Stop
func WithTelemetry(t *telemetry.Telemetry) BookstoreAppOptions {
	return func(cfg *bookstoreAppConfig) error {
		if t == nil {
			return nil
		}
		cfg.telemetry = t
		cfg.meterProvider = t.MeterProvider()
		cfg.tracerProvider = t.TracerProvider()
		cfg.metricsHandler = t.MetricsHandler()
		return nil
	}
}

// buildFormatterRegistry returns the frozen registry. The default registry
// gets the vendor media types registered here and nowhere else.
func buildFormatterRegistry(b *bookstoreAppConfig) (*formatter.Registry, error) {
	registry := b.registry
	if registry == nil {
		var err error
		registry, err = formatter.DefaultRegistry()
		if err != nil {
			return nil, err
		}
		formatter.RegisterCustomMediaTypes(registry)
	}

	if b.meterProvider != nil && !registry.Frozen() {
		observer, err := telemetry.NewNegotiationMetrics(b.meterProvider)
		if err != nil {
			return nil, fmt.Errorf("failed to create negotiation metrics: %w", err)
		}
		if err := registry.SetObserver(observer); err != nil {
			return nil, err
		}
	}

	registry.Freeze()
	slog.Info("Formatter registry initialized", "formatters", registry.Len())
	return registry, nil
}

// buildDatabase opens the pool when a connection string is configured
// and no readiness service was injected
func buildDatabase(ctx context.Context, b *bookstoreAppConfig) (*db.Connection, error) {
	if b.readiness != nil {
		return nil, nil
	}

	connString := b.config.GetConnectionString(config.SQLConnectionName)
	if connString == "" {
		slog.Warn("No database connection string configured, running without a database")
		return nil, nil
	}
	return db.NewConnection(ctx, connString, b.config.Database)
}

// versioningOptions converts the configured versioning policy
func versioningOptions(c *config.Config) (versioning.Options, error) {
	vc := c.GetVersioning()

	def, err := versioning.Parse(vc.DefaultVersion)
	if err != nil {
		return versioning.Options{}, fmt.Errorf("invalid default version: %w", err)
	}

	opts := versioning.Options{
		DefaultVersion:               def,
		AssumeDefaultWhenUnspecified: vc.AssumeDefaultWhenUnspecified,
		ReportAPIVersions:            vc.ReportAPIVersions,
	}
	var errs []error
	for _, s := range vc.SupportedVersions {
		v, err := versioning.Parse(s)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		opts.Supported = append(opts.Supported, v)
	}
	return opts, errors.Join(errs...)
}

// buildHTTPServer builds the HTTP server with router and middleware
func buildHTTPServer(
	b *bookstoreAppConfig,
	registry *formatter.Registry,
	readiness service.ReadinessService,
) (*http.Server, error) {
	versioningOpts, err := versioningOptions(b.config)
	if err != nil {
		return nil, fmt.Errorf("invalid versioning configuration: %w", err)
	}

	middlewares := b.middlewares
	if middlewares == nil {
		middlewares = []func(http.Handler) http.Handler{
			middleware.RequestID,
			middleware.RealIP,
			middleware.Recoverer,
			middleware.Timeout(b.config.GetRequestTimeout(defaultRequestTimeout)),
			api.LoggingMiddleware,
			cors.Handler(b.config.GetCORS()),
		}
	}

	// Telemetry goes first so rejected requests are still observed
	if b.meterProvider != nil {
		httpMetrics, err := telemetry.NewHTTPMetrics(b.meterProvider)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP metrics: %w", err)
		}
		middlewares = append([]func(http.Handler) http.Handler{httpMetrics.Middleware}, middlewares...)
	}
	if b.tracerProvider != nil {
		middlewares = append([]func(http.Handler) http.Handler{telemetry.TracingMiddleware(b.tracerProvider)}, middlewares...)
	}

	router := api.NewServer(readiness,
		api.WithMiddlewares(middlewares...),
		api.WithFormatterRegistry(registry),
		api.WithVersioning(versioningOpts),
		api.WithLogFilter(filters.NewLogFilter(b.logger)),
		api.WithMetricsHandler(b.metricsHandler),
	)

	server := &http.Server{
		Addr:         b.address,
		Handler:      router,
		ReadTimeout:  b.readTimeout,
		WriteTimeout: b.writeTimeout,
		IdleTimeout:  b.idleTimeout,
	}

	slog.Info("HTTP server configured",
		"address", b.address,
		"cors_policy", config.CORSPolicyName,
		"metrics_endpoint", b.metricsHandler != nil,
	)
	return server, nil
}
