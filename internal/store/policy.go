package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/platewise/staffhub-backend/internal/permissions"
)

// The Store backs the permission engine: these four methods implement
// permissions.Provider. They read current rows on every call; nothing here is
// cached.

func (s *Store) GetUserRole(ctx context.Context, userID uuid.UUID) (permissions.Role, error) {
	var role string
	err := s.pool.QueryRow(ctx, `SELECT role FROM users WHERE id = $1`, userID).Scan(&role)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("user %s: %w", userID, permissions.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("querying user role: %w", err)
	}
	return permissions.Role(role), nil
}

func (s *Store) GetRestaurantManagerID(ctx context.Context, restaurantID uuid.UUID) (uuid.UUID, bool, error) {
	var managerID *uuid.UUID
	err := s.pool.QueryRow(ctx, `SELECT manager_id FROM restaurants WHERE id = $1`, restaurantID).Scan(&managerID)
	if errors.Is(err, pgx.ErrNoRows) {
		// An unknown restaurant simply has no manager; it is not a fault.
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("querying restaurant manager: %w", err)
	}
	if managerID == nil {
		return uuid.Nil, false, nil
	}
	return *managerID, true, nil
}

func (s *Store) IsRestaurantMember(ctx context.Context, userID, restaurantID uuid.UUID) (bool, error) {
	var member bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM restaurant_memberships
			WHERE user_id = $1 AND restaurant_id = $2 AND is_active
		)`, userID, restaurantID).Scan(&member)
	if err != nil {
		return false, fmt.Errorf("querying membership: %w", err)
	}
	return member, nil
}

func (s *Store) GetUserPositionPermissions(ctx context.Context, userID, restaurantID uuid.UUID) ([]permissions.Code, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT p.code
		FROM restaurant_memberships m
		JOIN position_permissions pp ON pp.position_id = m.position_id
		JOIN permissions p ON p.id = pp.permission_id
		WHERE m.user_id = $1 AND m.restaurant_id = $2 AND m.is_active`,
		userID, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("querying position permissions: %w", err)
	}
	defer rows.Close()

	var codes []permissions.Code
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("scanning position permission: %w", err)
		}
		codes = append(codes, permissions.Code(code))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading position permissions: %w", err)
	}
	return codes, nil
}
