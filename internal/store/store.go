// Package store holds the hand-written SQL layer. One file per entity; every
// method takes a context and returns wrapped errors. Row-not-found is always
// reported as ErrNotFound so handlers can map it to a 404 without inspecting
// driver errors.
package store

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/platewise/staffhub-backend/internal/permissions"
)

// ErrNotFound is shared with the permissions package so the engine's provider
// contract and the CRUD layer agree on what "absent" looks like.
var ErrNotFound = permissions.ErrNotFound

type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func notFound(err error, what string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("%s: %w", what, err)
}
