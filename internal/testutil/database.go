package testutil

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/platewise/staffhub-backend/internal/database"
	"github.com/platewise/staffhub-backend/internal/store"
)

// TestDatabase wraps a real PostgreSQL database for integration tests. Tests
// that need it are skipped unless TEST_DATABASE_URL points at a disposable
// database.
type TestDatabase struct {
	pool  *pgxpool.Pool
	store *store.Store
}

// NewTestDatabase connects to the database named by TEST_DATABASE_URL, or
// skips the test when the variable is unset.
func NewTestDatabase(t *testing.T) *TestDatabase {
	t.Helper()

	connStr := os.Getenv("TEST_DATABASE_URL")
	if connStr == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping database integration tests")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err, "Failed to create connection pool")
	require.NoError(t, pool.Ping(ctx), "Failed to ping database")

	return &TestDatabase{
		pool:  pool,
		store: store.New(pool),
	}
}

func (tdb *TestDatabase) Pool() *pgxpool.Pool {
	return tdb.pool
}

func (tdb *TestDatabase) Store() *store.Store {
	return tdb.store
}

// Close releases the connection pool.
func (tdb *TestDatabase) Close() {
	tdb.pool.Close()
}

// RunMigrations applies the embedded goose migrations.
func (tdb *TestDatabase) RunMigrations(t *testing.T) {
	require.NoError(t, database.MigrateUp(tdb.pool), "Failed to run goose migrations")
}

// CleanupDatabase truncates all tables for test isolation. The permissions
// catalog is reseeded because position grants reference it by code.
func (tdb *TestDatabase) CleanupDatabase(t *testing.T) {
	ctx := context.Background()

	tables := []string{
		"notifications",
		"announcements",
		"timesheets",
		"tasks",
		"shift_swap_requests",
		"shifts",
		"restaurant_memberships",
		"position_permissions",
		"positions",
		"departments",
		"restaurants",
		"users",
	}

	for _, table := range tables {
		_, err := tdb.pool.Exec(ctx, "TRUNCATE TABLE "+table+" CASCADE")
		if err != nil {
			t.Logf("Failed to truncate table %s: %v", table, err)
		}
	}
}
