package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

const announcementColumns = `id, restaurant_id, sender_id, title, body, created_at`

func (s *Store) CreateAnnouncement(ctx context.Context, restaurantID, senderID uuid.UUID, title, body string) (Announcement, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO announcements (restaurant_id, sender_id, title, body)
		VALUES ($1, $2, $3, $4)
		RETURNING `+announcementColumns, restaurantID, senderID, title, body)
	var a Announcement
	err := row.Scan(&a.ID, &a.RestaurantID, &a.SenderID, &a.Title, &a.Body, &a.CreatedAt)
	if err != nil {
		return Announcement{}, fmt.Errorf("creating announcement: %w", err)
	}
	return a, nil
}

func (s *Store) GetAnnouncement(ctx context.Context, restaurantID, announcementID uuid.UUID) (Announcement, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+announcementColumns+` FROM announcements
		WHERE id = $1 AND restaurant_id = $2`, announcementID, restaurantID)
	var a Announcement
	err := row.Scan(&a.ID, &a.RestaurantID, &a.SenderID, &a.Title, &a.Body, &a.CreatedAt)
	if err != nil {
		return Announcement{}, notFound(err, "announcement")
	}
	return a, nil
}

func (s *Store) ListAnnouncements(ctx context.Context, restaurantID uuid.UUID, limit, offset int) ([]Announcement, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+announcementColumns+` FROM announcements
		WHERE restaurant_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, restaurantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing announcements: %w", err)
	}
	defer rows.Close()

	var out []Announcement
	for rows.Next() {
		var a Announcement
		if err := rows.Scan(&a.ID, &a.RestaurantID, &a.SenderID, &a.Title, &a.Body, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning announcement: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
