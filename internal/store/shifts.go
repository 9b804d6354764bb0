package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const shiftColumns = `id, restaurant_id, user_id, starts_at, ends_at, notes, created_at`

func scanShift(row interface{ Scan(...any) error }) (Shift, error) {
	var sh Shift
	err := row.Scan(&sh.ID, &sh.RestaurantID, &sh.UserID, &sh.StartsAt, &sh.EndsAt, &sh.Notes, &sh.CreatedAt)
	return sh, err
}

func (s *Store) CreateShift(ctx context.Context, restaurantID, userID uuid.UUID, startsAt, endsAt time.Time, notes string) (Shift, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO shifts (restaurant_id, user_id, starts_at, ends_at, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+shiftColumns, restaurantID, userID, startsAt, endsAt, notes)
	sh, err := scanShift(row)
	if err != nil {
		return Shift{}, fmt.Errorf("creating shift: %w", err)
	}
	return sh, nil
}

func (s *Store) GetShift(ctx context.Context, restaurantID, shiftID uuid.UUID) (Shift, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+shiftColumns+` FROM shifts WHERE id = $1 AND restaurant_id = $2`,
		shiftID, restaurantID)
	sh, err := scanShift(row)
	if err != nil {
		return Shift{}, notFound(err, "shift")
	}
	return sh, nil
}

// ListShifts returns the restaurant's shifts overlapping [from, to).
func (s *Store) ListShifts(ctx context.Context, restaurantID uuid.UUID, from, to time.Time) ([]Shift, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+shiftColumns+` FROM shifts
		WHERE restaurant_id = $1 AND starts_at < $3 AND ends_at > $2
		ORDER BY starts_at`, restaurantID, from, to)
	if err != nil {
		return nil, fmt.Errorf("listing shifts: %w", err)
	}
	defer rows.Close()

	var out []Shift
	for rows.Next() {
		sh, err := scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning shift: %w", err)
		}
		out = append(out, sh)
	}
	return out, rows.Err()
}

func (s *Store) UpdateShift(ctx context.Context, restaurantID, shiftID, userID uuid.UUID, startsAt, endsAt time.Time, notes string) (Shift, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE shifts SET user_id = $3, starts_at = $4, ends_at = $5, notes = $6
		WHERE id = $1 AND restaurant_id = $2
		RETURNING `+shiftColumns, shiftID, restaurantID, userID, startsAt, endsAt, notes)
	sh, err := scanShift(row)
	if err != nil {
		return Shift{}, notFound(err, "shift")
	}
	return sh, nil
}

func (s *Store) DeleteShift(ctx context.Context, restaurantID, shiftID uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM shifts WHERE id = $1 AND restaurant_id = $2`, shiftID, restaurantID)
	if err != nil {
		return fmt.Errorf("deleting shift: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("shift: %w", ErrNotFound)
	}
	return nil
}

func (s *Store) CreateSwapRequest(ctx context.Context, shiftID, requesterID uuid.UUID, targetUserID *uuid.UUID) (SwapRequest, error) {
	var r SwapRequest
	err := s.pool.QueryRow(ctx, `
		INSERT INTO shift_swap_requests (shift_id, requester_id, target_user_id)
		VALUES ($1, $2, $3)
		RETURNING id, shift_id, requester_id, target_user_id, status, resolved_by, created_at, resolved_at`,
		shiftID, requesterID, targetUserID).
		Scan(&r.ID, &r.ShiftID, &r.RequesterID, &r.TargetUserID, &r.Status, &r.ResolvedBy, &r.CreatedAt, &r.ResolvedAt)
	if err != nil {
		return SwapRequest{}, fmt.Errorf("creating swap request: %w", err)
	}
	return r, nil
}

func (s *Store) GetSwapRequest(ctx context.Context, requestID uuid.UUID) (SwapRequest, error) {
	var r SwapRequest
	err := s.pool.QueryRow(ctx, `
		SELECT id, shift_id, requester_id, target_user_id, status, resolved_by, created_at, resolved_at
		FROM shift_swap_requests WHERE id = $1`, requestID).
		Scan(&r.ID, &r.ShiftID, &r.RequesterID, &r.TargetUserID, &r.Status, &r.ResolvedBy, &r.CreatedAt, &r.ResolvedAt)
	if err != nil {
		return SwapRequest{}, notFound(err, "swap request")
	}
	return r, nil
}

func (s *Store) ListSwapRequests(ctx context.Context, restaurantID uuid.UUID, status string) ([]SwapRequest, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT r.id, r.shift_id, r.requester_id, r.target_user_id, r.status, r.resolved_by, r.created_at, r.resolved_at
		FROM shift_swap_requests r
		JOIN shifts sh ON sh.id = r.shift_id
		WHERE sh.restaurant_id = $1 AND ($2 = '' OR r.status = $2)
		ORDER BY r.created_at`, restaurantID, status)
	if err != nil {
		return nil, fmt.Errorf("listing swap requests: %w", err)
	}
	defer rows.Close()

	var out []SwapRequest
	for rows.Next() {
		var r SwapRequest
		if err := rows.Scan(&r.ID, &r.ShiftID, &r.RequesterID, &r.TargetUserID, &r.Status, &r.ResolvedBy, &r.CreatedAt, &r.ResolvedAt); err != nil {
			return nil, fmt.Errorf("scanning swap request: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ResolveSwapRequest marks a pending request approved or rejected; approval
// also reassigns the shift to the incoming user inside the same transaction.
func (s *Store) ResolveSwapRequest(ctx context.Context, requestID, resolverID uuid.UUID, approve bool) (SwapRequest, error) {
	status := SwapStatusRejected
	if approve {
		status = SwapStatusApproved
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return SwapRequest{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var r SwapRequest
	err = tx.QueryRow(ctx, `
		UPDATE shift_swap_requests
		SET status = $2, resolved_by = $3, resolved_at = now()
		WHERE id = $1 AND status = $4
		RETURNING id, shift_id, requester_id, target_user_id, status, resolved_by, created_at, resolved_at`,
		requestID, status, resolverID, SwapStatusPending).
		Scan(&r.ID, &r.ShiftID, &r.RequesterID, &r.TargetUserID, &r.Status, &r.ResolvedBy, &r.CreatedAt, &r.ResolvedAt)
	if err != nil {
		return SwapRequest{}, notFound(err, "pending swap request")
	}

	if approve && r.TargetUserID != nil {
		if _, err := tx.Exec(ctx, `UPDATE shifts SET user_id = $2 WHERE id = $1`, r.ShiftID, *r.TargetUserID); err != nil {
			return SwapRequest{}, fmt.Errorf("reassigning shift: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return SwapRequest{}, fmt.Errorf("committing swap resolution: %w", err)
	}
	return r, nil
}
