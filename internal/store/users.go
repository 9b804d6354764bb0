package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/platewise/staffhub-backend/internal/permissions"
)

const userColumns = `id, email, name, role, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func (s *Store) CreateUser(ctx context.Context, email, name string, role permissions.Role) (User, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO users (email, name, role) VALUES ($1, $2, $3)
		RETURNING `+userColumns, email, name, string(role))
	u, err := scanUser(row)
	if err != nil {
		return User{}, fmt.Errorf("creating user: %w", err)
	}
	return u, nil
}

func (s *Store) GetUserByID(ctx context.Context, id uuid.UUID) (User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if err != nil {
		return User{}, notFound(err, "user")
	}
	return u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	u, err := scanUser(row)
	if err != nil {
		return User{}, notFound(err, "user")
	}
	return u, nil
}

func (s *Store) UpdateUser(ctx context.Context, id uuid.UUID, name string) (User, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE users SET name = $2, updated_at = now() WHERE id = $1
		RETURNING `+userColumns, id, name)
	u, err := scanUser(row)
	if err != nil {
		return User{}, notFound(err, "user")
	}
	return u, nil
}

// GetUserEmails resolves user IDs to email addresses; used by the
// notification dispatcher. IDs with no matching user are silently dropped.
func (s *Store) GetUserEmails(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, email FROM users WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("querying user emails: %w", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID]string, len(ids))
	for rows.Next() {
		var id uuid.UUID
		var email string
		if err := rows.Scan(&id, &email); err != nil {
			return nil, fmt.Errorf("scanning user email: %w", err)
		}
		out[id] = email
	}
	return out, rows.Err()
}
