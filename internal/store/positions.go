package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/platewise/staffhub-backend/internal/permissions"
)

func (s *Store) CreatePosition(ctx context.Context, restaurantID uuid.UUID, departmentID *uuid.UUID, name string) (Position, error) {
	var p Position
	err := s.pool.QueryRow(ctx, `
		INSERT INTO positions (restaurant_id, department_id, name) VALUES ($1, $2, $3)
		RETURNING id, restaurant_id, department_id, name, created_at`,
		restaurantID, departmentID, name).
		Scan(&p.ID, &p.RestaurantID, &p.DepartmentID, &p.Name, &p.CreatedAt)
	if err != nil {
		return Position{}, fmt.Errorf("creating position: %w", err)
	}
	return p, nil
}

func (s *Store) GetPosition(ctx context.Context, restaurantID, positionID uuid.UUID) (Position, error) {
	var p Position
	err := s.pool.QueryRow(ctx, `
		SELECT id, restaurant_id, department_id, name, created_at
		FROM positions WHERE id = $1 AND restaurant_id = $2`,
		positionID, restaurantID).
		Scan(&p.ID, &p.RestaurantID, &p.DepartmentID, &p.Name, &p.CreatedAt)
	if err != nil {
		return Position{}, notFound(err, "position")
	}
	return p, nil
}

func (s *Store) ListPositions(ctx context.Context, restaurantID uuid.UUID) ([]Position, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, restaurant_id, department_id, name, created_at
		FROM positions WHERE restaurant_id = $1 ORDER BY name`, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("listing positions: %w", err)
	}
	defer rows.Close()

	var out []Position
	for rows.Next() {
		var p Position
		if err := rows.Scan(&p.ID, &p.RestaurantID, &p.DepartmentID, &p.Name, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning position: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) UpdatePosition(ctx context.Context, restaurantID, positionID uuid.UUID, departmentID *uuid.UUID, name string) (Position, error) {
	var p Position
	err := s.pool.QueryRow(ctx, `
		UPDATE positions SET department_id = $3, name = $4
		WHERE id = $1 AND restaurant_id = $2
		RETURNING id, restaurant_id, department_id, name, created_at`,
		positionID, restaurantID, departmentID, name).
		Scan(&p.ID, &p.RestaurantID, &p.DepartmentID, &p.Name, &p.CreatedAt)
	if err != nil {
		return Position{}, notFound(err, "position")
	}
	return p, nil
}

func (s *Store) DeletePosition(ctx context.Context, restaurantID, positionID uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM positions WHERE id = $1 AND restaurant_id = $2`, positionID, restaurantID)
	if err != nil {
		return fmt.Errorf("deleting position: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("position: %w", ErrNotFound)
	}
	return nil
}

func (s *Store) GetPositionPermissions(ctx context.Context, positionID uuid.UUID) ([]permissions.Code, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT p.code
		FROM position_permissions pp
		JOIN permissions p ON p.id = pp.permission_id
		WHERE pp.position_id = $1
		ORDER BY p.code`, positionID)
	if err != nil {
		return nil, fmt.Errorf("querying position permissions: %w", err)
	}
	defer rows.Close()

	var out []permissions.Code
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("scanning permission code: %w", err)
		}
		out = append(out, permissions.Code(code))
	}
	return out, rows.Err()
}

// ReplacePositionPermissions swaps the position's assigned code set in one
// transaction so concurrent permission checks never observe a half-applied
// assignment.
func (s *Store) ReplacePositionPermissions(ctx context.Context, positionID uuid.UUID, codes []permissions.Code) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM position_permissions WHERE position_id = $1`, positionID); err != nil {
		return fmt.Errorf("clearing position permissions: %w", err)
	}

	for _, code := range codes {
		tag, err := tx.Exec(ctx, `
			INSERT INTO position_permissions (position_id, permission_id)
			SELECT $1, id FROM permissions WHERE code = $2`, positionID, string(code))
		if err != nil {
			return fmt.Errorf("assigning permission %s: %w", code, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("permission %s: %w", code, ErrNotFound)
		}
	}

	return tx.Commit(ctx)
}
