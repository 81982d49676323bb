// Package db opens the PostgreSQL connection pool used by the API.
package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kaya2m/BookStoreApp-API/internal/config"
)

// ErrNoConnectionString is returned when no connection string is configured
var ErrNoConnectionString = errors.New("database connection string is required")

// Connection wraps the pgx connection pool
type Connection struct {
	pool *pgxpool.Pool
}

// NewConnection creates a pool for connString, applies the limits in cfg
// (nil keeps the pgx defaults) and verifies the database is reachable.
func NewConnection(ctx context.Context, connString string, cfg *config.DatabaseConfig) (*Connection, error) {
	poolConfig, err := buildPoolConfig(connString, cfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create database connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	slog.Info("Database connection pool created",
		"host", poolConfig.ConnConfig.Host,
		"database", poolConfig.ConnConfig.Database,
		"max_conns", poolConfig.MaxConns,
	)
	return &Connection{pool: pool}, nil
}

func buildPoolConfig(connString string, cfg *config.DatabaseConfig) (*pgxpool.Config, error) {
	if connString == "" {
		return nil, ErrNoConnectionString
	}

	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database connection string: %w", err)
	}
	if cfg == nil {
		return poolConfig, nil
	}

	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = cfg.MinConns
	}
	if cfg.ConnMaxLifetime != "" {
		lifetime, err := time.ParseDuration(cfg.ConnMaxLifetime)
		if err != nil {
			return nil, fmt.Errorf("failed to parse connMaxLifetime: %w", err)
		}
		poolConfig.MaxConnLifetime = lifetime
	}
	return poolConfig, nil
}

// Ping checks that the database answers
func (c *Connection) Ping(ctx context.Context) error {
	return c.pool.Ping(ctx)
}

// Close releases every connection in the pool
func (c *Connection) Close() {
	c.pool.Close()
}
