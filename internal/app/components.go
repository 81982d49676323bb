package app

import (
	"github.com/kaya2m/BookStoreApp-API/internal/db"
	"github.com/kaya2m/BookStoreApp-API/internal/formatter"
	"github.com/kaya2m/BookStoreApp-API/internal/service"
)

// AppComponents groups the long-lived components built at startup
//
//nolint:revive // This name is fine
type AppComponents struct {
	// Formatters is the frozen response formatter registry
	Formatters *formatter.Registry

	// Readiness backs the /readiness endpoint
	Readiness service.ReadinessService

	// Database is the connection pool (nil when no connection string is configured)
	Database *db.Connection
}
