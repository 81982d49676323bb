package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/kaya2m/BookStoreApp-API/internal/filters"
	"github.com/kaya2m/BookStoreApp-API/internal/formatter"
	"github.com/kaya2m/BookStoreApp-API/internal/service"
	"github.com/kaya2m/BookStoreApp-API/internal/versioning"
)

// ServerOption configures the API server
type ServerOption func(*serverConfig)

type serverConfig struct {
	middlewares []func(http.Handler) http.Handler
	registry    *formatter.Registry
	versioning  versioning.Options
	logFilter   *filters.LogFilter
	metrics     http.Handler
}

// WithMiddlewares adds middleware to the server
func WithMiddlewares(mw ...func(http.Handler) http.Handler) ServerOption {
	return func(cfg *serverConfig) {
		cfg.middlewares = append(cfg.middlewares, mw...)
	}
}

// WithFormatterRegistry sets the registry used to negotiate response formats
func WithFormatterRegistry(r *formatter.Registry) ServerOption {
	return func(cfg *serverConfig) {
		cfg.registry = r
	}
}

// WithVersioning sets the API version policy for the /api routes
func WithVersioning(opts versioning.Options) ServerOption {
	return func(cfg *serverConfig) {
		cfg.versioning = opts
	}
}

// WithLogFilter sets the route log filter shared by the /api routes
func WithLogFilter(f *filters.LogFilter) ServerOption {
	return func(cfg *serverConfig) {
		cfg.logFilter = f
	}
}

// WithMetricsHandler serves h at /metrics
func WithMetricsHandler(h http.Handler) ServerOption {
	return func(cfg *serverConfig) {
		cfg.metrics = h
	}
}

// NewServer creates the HTTP router with the given service and options
func NewServer(svc service.ReadinessService, opts ...ServerOption) *chi.Mux {
	cfg := &serverConfig{
		versioning: versioning.DefaultOptions(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logFilter == nil {
		cfg.logFilter = filters.NewLogFilter(nil)
	}

	r := chi.NewRouter()
	for _, mw := range cfg.middlewares {
		r.Use(mw)
	}
	if cfg.registry != nil {
		r.Use(formatterMiddleware(cfg.registry))
	}

	if cfg.metrics != nil {
		r.Handle("/metrics", cfg.metrics)
	}
	r.Mount("/", OpsRouter(svc))

	r.Route("/api", func(r chi.Router) {
		r.Use(versioning.Middleware(cfg.versioning))
		rootRoutes(r, cfg.logFilter)
	})

	return r
}

// formatterMiddleware makes the registry available to handlers through
// formatter.FromContext
func formatterMiddleware(registry *formatter.Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(formatter.NewContext(r.Context(), registry)))
		})
	}
}

// LoggingMiddleware logs HTTP requests
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		slog.DebugContext(r.Context(), "HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).String(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
