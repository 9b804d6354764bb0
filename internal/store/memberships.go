package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

func (s *Store) UpsertMembership(ctx context.Context, userID, restaurantID uuid.UUID, positionID *uuid.UUID, isActive bool) (Membership, error) {
	var m Membership
	err := s.pool.QueryRow(ctx, `
		INSERT INTO restaurant_memberships (user_id, restaurant_id, position_id, is_active)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, restaurant_id)
		DO UPDATE SET position_id = EXCLUDED.position_id, is_active = EXCLUDED.is_active
		RETURNING user_id, restaurant_id, position_id, is_active, joined_at`,
		userID, restaurantID, positionID, isActive).
		Scan(&m.UserID, &m.RestaurantID, &m.PositionID, &m.IsActive, &m.JoinedAt)
	if err != nil {
		return Membership{}, fmt.Errorf("upserting membership: %w", err)
	}
	return m, nil
}

func (s *Store) GetMembership(ctx context.Context, userID, restaurantID uuid.UUID) (Membership, error) {
	var m Membership
	err := s.pool.QueryRow(ctx, `
		SELECT user_id, restaurant_id, position_id, is_active, joined_at
		FROM restaurant_memberships
		WHERE user_id = $1 AND restaurant_id = $2`,
		userID, restaurantID).
		Scan(&m.UserID, &m.RestaurantID, &m.PositionID, &m.IsActive, &m.JoinedAt)
	if err != nil {
		return Membership{}, notFound(err, "membership")
	}
	return m, nil
}

// DeactivateMembership soft-deletes: the row survives, but the member stops
// counting for authorization and stops receiving announcements.
func (s *Store) DeactivateMembership(ctx context.Context, userID, restaurantID uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE restaurant_memberships SET is_active = FALSE
		WHERE user_id = $1 AND restaurant_id = $2`, userID, restaurantID)
	if err != nil {
		return fmt.Errorf("deactivating membership: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("membership: %w", ErrNotFound)
	}
	return nil
}

func (s *Store) ListEmployees(ctx context.Context, restaurantID uuid.UUID) ([]Employee, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT m.user_id, u.email, u.name, m.position_id, p.name, m.is_active, m.joined_at
		FROM restaurant_memberships m
		JOIN users u ON u.id = m.user_id
		LEFT JOIN positions p ON p.id = m.position_id
		WHERE m.restaurant_id = $1
		ORDER BY u.name, u.email`, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("listing employees: %w", err)
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		var e Employee
		if err := rows.Scan(&e.UserID, &e.Email, &e.Name, &e.PositionID, &e.PositionName, &e.IsActive, &e.JoinedAt); err != nil {
			return nil, fmt.Errorf("scanning employee: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ListActiveMemberIDs returns the user IDs holding an active membership;
// announcement fan-out uses it to build the recipient list.
func (s *Store) ListActiveMemberIDs(ctx context.Context, restaurantID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT user_id FROM restaurant_memberships
		WHERE restaurant_id = $1 AND is_active`, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("listing active members: %w", err)
	}
	defer rows.Close()

	var out []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning member id: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
