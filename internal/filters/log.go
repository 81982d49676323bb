package filters

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// LogFilter logs the routed method, route pattern and route values before
// the handler runs. One instance is shared by every route.
type LogFilter struct {
	logger *slog.Logger
}

// NewLogFilter creates a LogFilter. A nil logger uses slog.Default.
func NewLogFilter(logger *slog.Logger) *LogFilter {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogFilter{logger: logger}
}

// Middleware must be attached inline (chi's With) so the route is already
// resolved when it runs.
func (f *LogFilter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pattern := r.URL.Path
		params := map[string]string{}
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				pattern = p
			}
			for i, key := range rctx.URLParams.Keys {
				if key == "*" {
					continue
				}
				params[key] = rctx.URLParams.Values[i]
			}
		}

		f.logger.InfoContext(r.Context(), "Route matched",
			"method", r.Method,
			"route", pattern,
			"params", params,
		)
		next.ServeHTTP(w, r)
	})
}
