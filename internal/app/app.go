// Package app wires the bookstore API components together and manages
// their lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/kaya2m/BookStoreApp-API/internal/config"
	"github.com/kaya2m/BookStoreApp-API/internal/telemetry"
)

// BookstoreApp holds everything needed to run the API server
type BookstoreApp struct {
	config     *config.Config
	components *AppComponents
	httpServer *http.Server
	telemetry  *telemetry.Telemetry
}

// Start serves HTTP until the server is stopped or fails
func (app *BookstoreApp) Start() error {
	slog.Info("Server listening", "address", app.httpServer.Addr)
	if err := app.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server failed: %w", err)
	}
	return nil
}

// Stop shuts the HTTP server down gracefully, then closes the database and
// flushes telemetry. Every step runs even if an earlier one fails.
func (app *BookstoreApp) Stop(timeout time.Duration) error {
	slog.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var errs []error
	if err := app.httpServer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("server forced to shutdown: %w", err))
	}

	if app.components.Database != nil {
		app.components.Database.Close()
	}

	if app.telemetry != nil {
		if err := app.telemetry.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shutdown telemetry: %w", err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return err
	}
	slog.Info("Server shutdown complete")
	return nil
}

// GetConfig returns the application configuration
func (app *BookstoreApp) GetConfig() *config.Config {
	return app.config
}

// GetComponents returns the components built at startup
func (app *BookstoreApp) GetComponents() *AppComponents {
	return app.components
}

// GetHTTPServer returns the HTTP server
func (app *BookstoreApp) GetHTTPServer() *http.Server {
	return app.httpServer
}
