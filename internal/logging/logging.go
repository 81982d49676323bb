// Package logging builds the slog handler used by the server.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/trace"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	defaultMaxSizeMB  = 100
	defaultMaxBackups = 3
	defaultMaxAgeDays = 28
)

// Options configures the log handler
type Options struct {
	// Level is one of debug, info, warn, error
	Level string

	// Format is json or text
	Format string

	// Output is stderr, stdout, or a file path
	Output string

	// Rotate enables size-based rotation for file outputs
	Rotate     bool
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// LevelFromEnv reads <prefix>_LOG_LEVEL, falling back to LOG_LEVEL.
// It returns "" when neither is set.
func LevelFromEnv(prefix string) string {
	v := viper.New()
	v.SetEnvPrefix(prefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if level := v.GetString("log_level"); level != "" {
		return level
	}
	return os.Getenv("LOG_LEVEL")
}

// ParseLevel maps a level name to a slog.Level, defaulting to info
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "info", "":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		slog.Warn("Invalid log level, using INFO", "value", level)
		return slog.LevelInfo
	}
}

// NewHandler builds a handler writing to the configured output. The returned
// closer releases the output and must be called on shutdown; it is a no-op
// for stdout and stderr.
func NewHandler(opts Options) (slog.Handler, io.Closer, error) {
	w, closer, err := openOutput(opts)
	if err != nil {
		return nil, nil, err
	}

	handlerOpts := &slog.HandlerOptions{Level: ParseLevel(opts.Level)}

	var handler slog.Handler
	if strings.EqualFold(opts.Format, "text") {
		handler = slog.NewTextHandler(w, handlerOpts)
	} else {
		handler = slog.NewJSONHandler(w, handlerOpts)
	}

	return &TraceHandler{Handler: handler}, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func openOutput(opts Options) (io.Writer, io.Closer, error) {
	switch strings.ToLower(opts.Output) {
	case "", "stderr":
		return os.Stderr, nopCloser{}, nil
	case "stdout":
		return os.Stdout, nopCloser{}, nil
	}

	if dir := filepath.Dir(opts.Output); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	if opts.Rotate {
		lj := &lumberjack.Logger{
			Filename:   opts.Output,
			MaxSize:    orDefault(opts.MaxSizeMB, defaultMaxSizeMB),
			MaxBackups: orDefault(opts.MaxBackups, defaultMaxBackups),
			MaxAge:     orDefault(opts.MaxAgeDays, defaultMaxAgeDays),
			Compress:   opts.Compress,
		}
		return lj, lj, nil
	}

	f, err := os.OpenFile(filepath.Clean(opts.Output), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, f, nil
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// TraceHandler wraps an slog.Handler to inject OpenTelemetry trace_id and
// span_id into every record, enabling log-trace correlation.
type TraceHandler struct {
	slog.Handler
}

// Handle adds the span context of ctx, when valid, before delegating
func (h *TraceHandler) Handle(ctx context.Context, r slog.Record) error {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		r.AddAttrs(
			slog.String("trace_id", span.SpanContext().TraceID().String()),
			slog.String("span_id", span.SpanContext().SpanID().String()),
		)
	}
	return h.Handler.Handle(ctx, r)
}

// WithAttrs keeps the trace wrapper around the derived handler
func (h *TraceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &TraceHandler{Handler: h.Handler.WithAttrs(attrs)}
}

// WithGroup keeps the trace wrapper around the derived handler
func (h *TraceHandler) WithGroup(name string) slog.Handler {
	return &TraceHandler{Handler: h.Handler.WithGroup(name)}
}
