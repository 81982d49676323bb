package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kaya2m/BookStoreApp-API/internal/app"
	"github.com/kaya2m/BookStoreApp-API/internal/config"
	"github.com/kaya2m/BookStoreApp-API/internal/logging"
	"github.com/kaya2m/BookStoreApp-API/internal/telemetry"
	"github.com/kaya2m/BookStoreApp-API/internal/versions"
)

const defaultGracefulTimeout = 30 * time.Second

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the bookstore API server",
		Long: `Start the bookstore API server.

The optional configuration file (--config) sets connection strings, CORS,
API versioning, logging and telemetry. Without it the server listens on
:8080 with the default policies and no database.

See examples/ for a sample configuration.`,
		RunE: runServe,
	}

	cmd.Flags().String("address", "", "Address to listen on (overrides server.address)")
	cmd.Flags().String("config", "", "Path to configuration file (YAML format)")
	cmd.Flags().Duration("graceful-timeout", defaultGracefulTimeout, "Time allowed for in-flight requests on shutdown")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	v := viper.New()
	v.SetEnvPrefix(config.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("failed to bind flags: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var loadOpts []config.Option
	if path := v.GetString("config"); path != "" {
		loadOpts = append(loadOpts, config.WithConfigPath(path))
	}
	cfg, err := config.LoadConfig(loadOpts...)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logCloser, err := configureLogging(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logCloser.Close() }()

	if cfg.Telemetry != nil && cfg.Telemetry.ServiceVersion == "" {
		cfg.Telemetry.ServiceVersion = versions.GetVersionInfo().Version
	}
	tel, err := telemetry.New(ctx, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	appOpts := []app.BookstoreAppOptions{
		app.WithConfig(cfg),
		app.WithTelemetry(tel),
		app.WithLogger(slog.Default()),
	}
	if address := v.GetString("address"); address != "" {
		appOpts = append(appOpts, app.WithAddress(address))
	}

	bookstoreApp, err := app.NewBookstoreApp(ctx, appOpts...)
	if err != nil {
		_ = tel.Shutdown(context.Background())
		return fmt.Errorf("failed to build application: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- bookstoreApp.Start()
	}()

	select {
	case err := <-errCh:
		_ = bookstoreApp.Stop(v.GetDuration("graceful-timeout"))
		return err
	case <-ctx.Done():
	}

	return bookstoreApp.Stop(v.GetDuration("graceful-timeout"))
}

// configureLogging replaces the default logger with the one described by
// the configuration. BOOKAPI_LOG_LEVEL still wins over the configured level.
func configureLogging(cfg *config.Config) (io.Closer, error) {
	lc := cfg.GetLogging()
	opts := logging.Options{
		Level:  lc.Level,
		Format: lc.Format,
		Output: lc.Output,
	}
	if level := logging.LevelFromEnv(config.EnvPrefix); level != "" {
		opts.Level = level
	}
	if r := lc.Rotation; r != nil {
		opts.Rotate = true
		opts.MaxSizeMB = r.MaxSizeMB
		opts.MaxBackups = r.MaxBackups
		opts.MaxAgeDays = r.MaxAgeDays
		opts.Compress = r.Compress
	}

	handler, closer, err := logging.NewHandler(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to configure logging: %w", err)
	}
	slog.SetDefault(slog.New(handler))
	return closer, nil
}
