package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/platewise/staffhub-backend/internal/config"
	"github.com/platewise/staffhub-backend/internal/store"
)

//go:embed migrations/*.sql
var migrations embed.FS

type Database struct {
	pool  *pgxpool.Pool
	store *store.Store
}

func New(cfg *config.DatabaseConfig) (*Database, error) {
	pool, err := pgxpool.New(context.Background(), cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Activate and test the connection
	if err := pool.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Database{
		pool:  pool,
		store: store.New(pool),
	}, nil
}

// Migrate applies the embedded goose migrations. Serving traffic against an
// unmigrated schema is the only alternative, so main calls this before the
// listener comes up.
func (d *Database) Migrate() error {
	return MigrateUp(d.pool)
}

// MigrateUp applies the embedded goose migrations against an existing pool.
func MigrateUp(pool *pgxpool.Pool) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	db := sql.OpenDB(stdlib.GetPoolConnector(pool))
	defer db.Close()

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (d *Database) Close() {
	if d.pool != nil {
		d.pool.Close()
	}
}

func (d *Database) Store() *store.Store {
	return d.store
}

func (d *Database) Pool() *pgxpool.Pool {
	return d.pool
}
