// Package database provides a disposable Postgres for tests that need a
// real book database.
package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	tclog "github.com/testcontainers/testcontainers-go/log"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

type nopLogger struct{}

func (*nopLogger) Printf(_ string, _ ...any) {}

var _ tclog.Logger = (*nopLogger)(nil)

var (
	dbName = "bookstore"
	dbUser = "bookstore"
	dbPass = "bookstore"
)

// TestDB is a Postgres container started for a single test
type TestDB struct {
	// ConnString is the connection string for the sqlConnection entry
	ConnString string

	container *postgres.PostgresContainer
}

// SetupTestDBContainer starts Postgres and removes it when the test ends.
// The test is skipped when no container runtime is reachable.
func SetupTestDBContainer(t *testing.T, ctx context.Context) *TestDB {
	t.Helper()
	tc.SkipIfProviderIsNotHealthy(t)

	postgresContainer, err := postgres.Run(
		ctx,
		"postgres:16-alpine",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPass),
		postgres.BasicWaitStrategies(),
		tc.WithLogger(&nopLogger{}),
	)
	require.NoError(t, err)
	tc.CleanupContainer(t, postgresContainer)

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	return &TestDB{ConnString: connStr, container: postgresContainer}
}

// Stop stops the container while keeping it registered for cleanup, so
// tests can observe the database going away
func (d *TestDB) Stop(ctx context.Context) error {
	timeout := 5 * time.Second
	return d.container.Stop(ctx, &timeout)
}
