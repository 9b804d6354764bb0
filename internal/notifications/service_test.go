package notifications

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/platewise/staffhub-backend/internal/store"
)

type mockNotificationStore struct {
	mock.Mock
}

func (m *mockNotificationStore) PublishNotifications(ctx context.Context, recipients []uuid.UUID, actorID uuid.UUID, entityType string, entityID uuid.UUID, title, body string) error {
	args := m.Called(ctx, recipients, actorID, entityType, entityID, title, body)
	return args.Error(0)
}

func (m *mockNotificationStore) ListNotifications(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit, offset int) ([]store.Notification, error) {
	args := m.Called(ctx, userID, unreadOnly, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.Notification), args.Error(1)
}

func (m *mockNotificationStore) MarkNotificationRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	args := m.Called(ctx, userID, notificationID)
	return args.Error(0)
}

func (m *mockNotificationStore) MarkAllNotificationsRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockNotificationStore) UnreadNotificationCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func TestNotificationService_Publish(t *testing.T) {
	ctx := context.Background()
	actor := uuid.New()
	entity := uuid.New()

	t.Run("excludes the actor from recipients", func(t *testing.T) {
		st := &mockNotificationStore{}
		st.Test(t)
		svc := NewNotificationService(st)

		other := uuid.New()
		st.On("PublishNotifications", mock.Anything, []uuid.UUID{other}, actor, EntityAnnouncement, entity, "title", "body").Return(nil)

		err := svc.Publish(ctx, actor, EntityAnnouncement, entity, "title", "body", []uuid.UUID{actor, other})
		require.NoError(t, err)
		st.AssertExpectations(t)
	})

	t.Run("deduplicates recipients", func(t *testing.T) {
		st := &mockNotificationStore{}
		st.Test(t)
		svc := NewNotificationService(st)

		other := uuid.New()
		st.On("PublishNotifications", mock.Anything, []uuid.UUID{other}, actor, EntityTask, entity, "title", "body").Return(nil)

		err := svc.Publish(ctx, actor, EntityTask, entity, "title", "body", []uuid.UUID{other, other, other})
		require.NoError(t, err)
		st.AssertExpectations(t)
	})

	t.Run("no recipients is a no-op", func(t *testing.T) {
		st := &mockNotificationStore{}
		st.Test(t)
		svc := NewNotificationService(st)

		err := svc.Publish(ctx, actor, EntityShift, entity, "title", "body", []uuid.UUID{actor})
		require.NoError(t, err)
		st.AssertNotCalled(t, "PublishNotifications")
	})

	t.Run("store failure propagates", func(t *testing.T) {
		st := &mockNotificationStore{}
		st.Test(t)
		svc := NewNotificationService(st)

		other := uuid.New()
		st.On("PublishNotifications", mock.Anything, mock.Anything, actor, EntityShift, entity, "t", "b").Return(errors.New("db down"))

		err := svc.Publish(ctx, actor, EntityShift, entity, "t", "b", []uuid.UUID{other})
		assert.ErrorContains(t, err, "db down")
	})
}
