package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

func (s *Store) CreateDepartment(ctx context.Context, restaurantID uuid.UUID, name string) (Department, error) {
	var d Department
	err := s.pool.QueryRow(ctx, `
		INSERT INTO departments (restaurant_id, name) VALUES ($1, $2)
		RETURNING id, restaurant_id, name, created_at`,
		restaurantID, name).
		Scan(&d.ID, &d.RestaurantID, &d.Name, &d.CreatedAt)
	if err != nil {
		return Department{}, fmt.Errorf("creating department: %w", err)
	}
	return d, nil
}

func (s *Store) ListDepartments(ctx context.Context, restaurantID uuid.UUID) ([]Department, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, restaurant_id, name, created_at
		FROM departments WHERE restaurant_id = $1 ORDER BY name`, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("listing departments: %w", err)
	}
	defer rows.Close()

	var out []Department
	for rows.Next() {
		var d Department
		if err := rows.Scan(&d.ID, &d.RestaurantID, &d.Name, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning department: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Store) UpdateDepartment(ctx context.Context, restaurantID, departmentID uuid.UUID, name string) (Department, error) {
	var d Department
	err := s.pool.QueryRow(ctx, `
		UPDATE departments SET name = $3
		WHERE id = $1 AND restaurant_id = $2
		RETURNING id, restaurant_id, name, created_at`,
		departmentID, restaurantID, name).
		Scan(&d.ID, &d.RestaurantID, &d.Name, &d.CreatedAt)
	if err != nil {
		return Department{}, notFound(err, "department")
	}
	return d, nil
}

func (s *Store) DeleteDepartment(ctx context.Context, restaurantID, departmentID uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM departments WHERE id = $1 AND restaurant_id = $2`, departmentID, restaurantID)
	if err != nil {
		return fmt.Errorf("deleting department: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("department: %w", ErrNotFound)
	}
	return nil
}
