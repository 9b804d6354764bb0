package notifications

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/platewise/staffhub-backend/internal/queue"
	"github.com/platewise/staffhub-backend/internal/store"
)

type mockNotificationSvc struct {
	mock.Mock
}

func (m *mockNotificationSvc) Publish(ctx context.Context, actorID uuid.UUID, entityType string, entityID uuid.UUID, title, body string, notifierIDs []uuid.UUID) error {
	args := m.Called(ctx, actorID, entityType, entityID, title, body, notifierIDs)
	return args.Error(0)
}

func (m *mockNotificationSvc) GetUserNotifications(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit, offset int) ([]store.Notification, error) {
	args := m.Called(ctx, userID, unreadOnly, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.Notification), args.Error(1)
}

func (m *mockNotificationSvc) MarkAsRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	args := m.Called(ctx, userID, notificationID)
	return args.Error(0)
}

func (m *mockNotificationSvc) MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockNotificationSvc) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

type mockQueue struct {
	mock.Mock
}

func (m *mockQueue) Enqueue(taskType string, data interface{}) (*asynq.TaskInfo, error) {
	args := m.Called(taskType, data)
	return nil, args.Error(1)
}

func newTestDispatcher(t *testing.T, svc notificationSvc, q queueService, emails map[uuid.UUID]string) *NotificationDispatcher {
	t.Helper()
	tmpl, err := DefaultTemplates()
	require.NoError(t, err)

	lookup := func(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
		return emails, nil
	}
	return NewNotificationDispatcher(svc, q, tmpl, lookup)
}

func TestDispatcher_Notify(t *testing.T) {
	ctx := context.Background()
	actor := uuid.New()
	entity := uuid.New()

	t.Run("publishes in-app and enqueues emails", func(t *testing.T) {
		svc := &mockNotificationSvc{}
		svc.Test(t)
		q := &mockQueue{}
		q.Test(t)

		recipient := uuid.New()
		d := newTestDispatcher(t, svc, q, map[uuid.UUID]string{recipient: "cook@example.com"})

		svc.On("Publish", mock.Anything, actor, EntityAnnouncement, entity, "Closed Monday", "We are closed.", []uuid.UUID{recipient}).Return(nil)
		q.On("Enqueue", queue.TypeEmailDelivery, mock.MatchedBy(func(p interface{}) bool {
			payload, ok := p.(queue.EmailDeliveryPayload)
			return ok && payload.To == "cook@example.com" && payload.Subject != ""
		})).Return(nil, nil)

		err := d.Notify(ctx, actor, EntityAnnouncement, entity, "Closed Monday", "We are closed.", []NotifierGroup{{
			IDs:      []uuid.UUID{recipient},
			Template: TemplateAnnouncement,
			TemplateData: map[string]interface{}{
				"RestaurantName": "Test Kitchen",
				"Title":          "Closed Monday",
				"Body":           "We are closed.",
			},
		}})

		require.NoError(t, err)
		svc.AssertExpectations(t)
		q.AssertExpectations(t)
	})

	t.Run("empty template skips email", func(t *testing.T) {
		svc := &mockNotificationSvc{}
		svc.Test(t)
		q := &mockQueue{}
		q.Test(t)

		recipient := uuid.New()
		d := newTestDispatcher(t, svc, q, map[uuid.UUID]string{recipient: "cook@example.com"})

		svc.On("Publish", mock.Anything, actor, EntityTask, entity, "New task", "", []uuid.UUID{recipient}).Return(nil)

		err := d.Notify(ctx, actor, EntityTask, entity, "New task", "", []NotifierGroup{{
			IDs: []uuid.UUID{recipient},
		}})

		require.NoError(t, err)
		q.AssertNotCalled(t, "Enqueue")
	})

	t.Run("no recipients is a no-op", func(t *testing.T) {
		svc := &mockNotificationSvc{}
		svc.Test(t)
		q := &mockQueue{}
		q.Test(t)

		d := newTestDispatcher(t, svc, q, nil)

		err := d.Notify(ctx, actor, EntityShift, entity, "title", "body", nil)
		require.NoError(t, err)
		svc.AssertNotCalled(t, "Publish")
	})

	t.Run("enqueue failure does not fail the call", func(t *testing.T) {
		svc := &mockNotificationSvc{}
		svc.Test(t)
		q := &mockQueue{}
		q.Test(t)

		recipient := uuid.New()
		d := newTestDispatcher(t, svc, q, map[uuid.UUID]string{recipient: "cook@example.com"})

		svc.On("Publish", mock.Anything, actor, EntitySwapRequest, entity, "Swap", "", []uuid.UUID{recipient}).Return(nil)
		q.On("Enqueue", queue.TypeEmailDelivery, mock.Anything).Return(nil, assert.AnError)

		err := d.Notify(ctx, actor, EntitySwapRequest, entity, "Swap", "", []NotifierGroup{{
			IDs:      []uuid.UUID{recipient},
			Template: TemplateSwapRequest,
			TemplateData: map[string]interface{}{
				"RestaurantName": "Test Kitchen",
				"RequesterName":  "Sam",
				"ShiftDate":      "2024-01-02",
			},
		}})

		require.NoError(t, err)
	})
}

func TestDefaultTemplates(t *testing.T) {
	tmpl, err := DefaultTemplates()
	require.NoError(t, err)

	for _, name := range []string{TemplateAnnouncement, TemplateSwapRequest, TemplateSwapResolved, TemplateOTP} {
		assert.NotNil(t, tmpl.Lookup(name+":subject"), "missing subject block for %s", name)
		assert.NotNil(t, tmpl.Lookup(name+":body"), "missing body block for %s", name)
	}
}
