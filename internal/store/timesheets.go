package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrAlreadyClockedIn rejects a clock-in while an entry is still open.
var ErrAlreadyClockedIn = errors.New("an open timesheet entry already exists")

const timesheetColumns = `id, restaurant_id, user_id, clock_in, clock_out, note, created_at`

func scanTimesheet(row interface{ Scan(...any) error }) (Timesheet, error) {
	var t Timesheet
	err := row.Scan(&t.ID, &t.RestaurantID, &t.UserID, &t.ClockIn, &t.ClockOut, &t.Note, &t.CreatedAt)
	return t, err
}

func (s *Store) ClockIn(ctx context.Context, restaurantID, userID uuid.UUID, at time.Time, note string) (Timesheet, error) {
	var open bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM timesheets
			WHERE restaurant_id = $1 AND user_id = $2 AND clock_out IS NULL
		)`, restaurantID, userID).Scan(&open)
	if err != nil {
		return Timesheet{}, fmt.Errorf("checking open timesheet: %w", err)
	}
	if open {
		return Timesheet{}, ErrAlreadyClockedIn
	}

	row := s.pool.QueryRow(ctx, `
		INSERT INTO timesheets (restaurant_id, user_id, clock_in, note)
		VALUES ($1, $2, $3, $4)
		RETURNING `+timesheetColumns, restaurantID, userID, at, note)
	t, err := scanTimesheet(row)
	if err != nil {
		return Timesheet{}, fmt.Errorf("clocking in: %w", err)
	}
	return t, nil
}

func (s *Store) ClockOut(ctx context.Context, restaurantID, userID uuid.UUID, at time.Time) (Timesheet, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE timesheets SET clock_out = $3
		WHERE restaurant_id = $1 AND user_id = $2 AND clock_out IS NULL
		RETURNING `+timesheetColumns, restaurantID, userID, at)
	t, err := scanTimesheet(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Timesheet{}, fmt.Errorf("open timesheet entry: %w", ErrNotFound)
	}
	if err != nil {
		return Timesheet{}, fmt.Errorf("clocking out: %w", err)
	}
	return t, nil
}

func (s *Store) ListTimesheets(ctx context.Context, restaurantID uuid.UUID, from, to time.Time) ([]Timesheet, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+timesheetColumns+` FROM timesheets
		WHERE restaurant_id = $1 AND clock_in >= $2 AND clock_in < $3
		ORDER BY clock_in`, restaurantID, from, to)
	if err != nil {
		return nil, fmt.Errorf("listing timesheets: %w", err)
	}
	defer rows.Close()
	return collectTimesheets(rows)
}

func (s *Store) ListTimesheetsByUser(ctx context.Context, restaurantID, userID uuid.UUID, from, to time.Time) ([]Timesheet, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+timesheetColumns+` FROM timesheets
		WHERE restaurant_id = $1 AND user_id = $2 AND clock_in >= $3 AND clock_in < $4
		ORDER BY clock_in`, restaurantID, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("listing user timesheets: %w", err)
	}
	defer rows.Close()
	return collectTimesheets(rows)
}

func collectTimesheets(rows interface {
	Next() bool
	Scan(...any) error
	Err() error
}) ([]Timesheet, error) {
	var out []Timesheet
	for rows.Next() {
		t, err := scanTimesheet(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning timesheet: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) UpdateTimesheet(ctx context.Context, restaurantID, timesheetID uuid.UUID, clockIn time.Time, clockOut *time.Time, note string) (Timesheet, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE timesheets SET clock_in = $3, clock_out = $4, note = $5
		WHERE id = $1 AND restaurant_id = $2
		RETURNING `+timesheetColumns, timesheetID, restaurantID, clockIn, clockOut, note)
	t, err := scanTimesheet(row)
	if err != nil {
		return Timesheet{}, notFound(err, "timesheet")
	}
	return t, nil
}

// HoursReport sums closed entries per user over [from, to).
func (s *Store) HoursReport(ctx context.Context, restaurantID uuid.UUID, from, to time.Time) ([]HoursReportRow, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT t.user_id, u.email, u.name,
		       COALESCE(SUM(EXTRACT(EPOCH FROM (t.clock_out - t.clock_in)) / 60), 0)::BIGINT,
		       COUNT(*)
		FROM timesheets t
		JOIN users u ON u.id = t.user_id
		WHERE t.restaurant_id = $1 AND t.clock_out IS NOT NULL
		  AND t.clock_in >= $2 AND t.clock_in < $3
		GROUP BY t.user_id, u.email, u.name
		ORDER BY u.name, u.email`, restaurantID, from, to)
	if err != nil {
		return nil, fmt.Errorf("building hours report: %w", err)
	}
	defer rows.Close()

	var out []HoursReportRow
	for rows.Next() {
		var r HoursReportRow
		if err := rows.Scan(&r.UserID, &r.Email, &r.Name, &r.TotalMinutes, &r.Entries); err != nil {
			return nil, fmt.Errorf("scanning report row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
