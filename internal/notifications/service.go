package notifications

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/platewise/staffhub-backend/internal/store"
)

// notificationStore is the slice of the store the service needs.
type notificationStore interface {
	PublishNotifications(ctx context.Context, recipients []uuid.UUID, actorID uuid.UUID, entityType string, entityID uuid.UUID, title, body string) error
	ListNotifications(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit, offset int) ([]store.Notification, error)
	MarkNotificationRead(ctx context.Context, userID, notificationID uuid.UUID) error
	MarkAllNotificationsRead(ctx context.Context, userID uuid.UUID) (int64, error)
	UnreadNotificationCount(ctx context.Context, userID uuid.UUID) (int64, error)
}

type NotificationService struct {
	store notificationStore
}

func NewNotificationService(st notificationStore) *NotificationService {
	return &NotificationService{store: st}
}

// Publish writes one in-app notification per recipient. The actor never
// notifies themselves.
func (s *NotificationService) Publish(ctx context.Context, actorID uuid.UUID, entityType string, entityID uuid.UUID, title, body string, notifierIDs []uuid.UUID) error {
	recipients := make([]uuid.UUID, 0, len(notifierIDs))
	seen := make(map[uuid.UUID]struct{}, len(notifierIDs))
	for _, id := range notifierIDs {
		if id == actorID {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		recipients = append(recipients, id)
	}

	if len(recipients) == 0 {
		return nil
	}

	if err := s.store.PublishNotifications(ctx, recipients, actorID, entityType, entityID, title, body); err != nil {
		return fmt.Errorf("failed to publish notifications: %w", err)
	}
	return nil
}

func (s *NotificationService) GetUserNotifications(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit, offset int) ([]store.Notification, error) {
	return s.store.ListNotifications(ctx, userID, unreadOnly, limit, offset)
}

func (s *NotificationService) MarkAsRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	return s.store.MarkNotificationRead(ctx, userID, notificationID)
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.store.MarkAllNotificationsRead(ctx, userID)
}

func (s *NotificationService) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.store.UnreadNotificationCount(ctx, userID)
}
