package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

const restaurantColumns = `id, name, address, phone, manager_id, logo_key, created_at, updated_at`

func scanRestaurant(row interface{ Scan(...any) error }) (Restaurant, error) {
	var r Restaurant
	err := row.Scan(&r.ID, &r.Name, &r.Address, &r.Phone, &r.ManagerID, &r.LogoKey, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

func (s *Store) CreateRestaurant(ctx context.Context, name, address, phone string) (Restaurant, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO restaurants (name, address, phone) VALUES ($1, $2, $3)
		RETURNING `+restaurantColumns, name, address, phone)
	r, err := scanRestaurant(row)
	if err != nil {
		return Restaurant{}, fmt.Errorf("creating restaurant: %w", err)
	}
	return r, nil
}

func (s *Store) GetRestaurantByID(ctx context.Context, id uuid.UUID) (Restaurant, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+restaurantColumns+` FROM restaurants WHERE id = $1`, id)
	r, err := scanRestaurant(row)
	if err != nil {
		return Restaurant{}, notFound(err, "restaurant")
	}
	return r, nil
}

func (s *Store) ListRestaurants(ctx context.Context) ([]Restaurant, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+restaurantColumns+` FROM restaurants ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing restaurants: %w", err)
	}
	defer rows.Close()

	var out []Restaurant
	for rows.Next() {
		r, err := scanRestaurant(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning restaurant: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) UpdateRestaurant(ctx context.Context, id uuid.UUID, name, address, phone string) (Restaurant, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE restaurants SET name = $2, address = $3, phone = $4, updated_at = now()
		WHERE id = $1
		RETURNING `+restaurantColumns, id, name, address, phone)
	r, err := scanRestaurant(row)
	if err != nil {
		return Restaurant{}, notFound(err, "restaurant")
	}
	return r, nil
}

func (s *Store) SetRestaurantManager(ctx context.Context, id uuid.UUID, managerID *uuid.UUID) (Restaurant, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE restaurants SET manager_id = $2, updated_at = now() WHERE id = $1
		RETURNING `+restaurantColumns, id, managerID)
	r, err := scanRestaurant(row)
	if err != nil {
		return Restaurant{}, notFound(err, "restaurant")
	}
	return r, nil
}

func (s *Store) SetRestaurantLogoKey(ctx context.Context, id uuid.UUID, key string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE restaurants SET logo_key = $2, updated_at = now() WHERE id = $1`, id, key)
	if err != nil {
		return fmt.Errorf("updating restaurant logo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("restaurant: %w", ErrNotFound)
	}
	return nil
}

func (s *Store) ClearRestaurantLogoKey(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE restaurants SET logo_key = NULL, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("clearing restaurant logo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("restaurant: %w", ErrNotFound)
	}
	return nil
}
