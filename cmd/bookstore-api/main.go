// Package main is the entry point for the bookstore API server.
package main

import (
	"log/slog"
	"os"

	"github.com/kaya2m/BookStoreApp-API/cmd/bookstore-api/app"
	"github.com/kaya2m/BookStoreApp-API/internal/config"
	"github.com/kaya2m/BookStoreApp-API/internal/logging"
)

func main() {
	// stderr keeps stdout clean for commands that print data (version --format json)
	handler, _, err := logging.NewHandler(logging.Options{
		Level: logging.LevelFromEnv(config.EnvPrefix),
	})
	if err != nil {
		slog.Error("Failed to create log handler", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(handler))

	if err := app.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
