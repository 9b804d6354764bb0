package api

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/mock"

	"github.com/platewise/staffhub-backend/internal/config"
	"github.com/platewise/staffhub-backend/internal/notifications"
	"github.com/platewise/staffhub-backend/internal/permissions"
	"github.com/platewise/staffhub-backend/internal/store"
	"github.com/platewise/staffhub-backend/internal/testutil"
)

type mockPermissionService struct {
	mock.Mock
}

func (m *mockPermissionService) CheckPermission(ctx context.Context, userID uuid.UUID, restaurantID *uuid.UUID, code permissions.Code) (permissions.Decision, error) {
	args := m.Called(ctx, userID, restaurantID, code)
	return args.Get(0).(permissions.Decision), args.Error(1)
}

func (m *mockPermissionService) CheckAnyPermission(ctx context.Context, userID uuid.UUID, restaurantID *uuid.UUID, codes []permissions.Code) (permissions.Decision, error) {
	args := m.Called(ctx, userID, restaurantID, codes)
	return args.Get(0).(permissions.Decision), args.Error(1)
}

func (m *mockPermissionService) GetUserPermissions(ctx context.Context, userID, restaurantID uuid.UUID) ([]permissions.Code, error) {
	args := m.Called(ctx, userID, restaurantID)
	return args.Get(0).([]permissions.Code), args.Error(1)
}

func (m *mockPermissionService) CheckRestaurantAccess(ctx context.Context, userID, restaurantID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, restaurantID)
	return args.Bool(0), args.Error(1)
}

func (m *mockPermissionService) ExpectCheck(userID uuid.UUID, code permissions.Code, decision permissions.Decision) {
	m.On("CheckPermission", mock.Anything, userID, mock.Anything, code).Return(decision, nil)
}

type mockAuthFlowService struct {
	mock.Mock
}

func (m *mockAuthFlowService) RequestOTP(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}

func (m *mockAuthFlowService) VerifyOTP(ctx context.Context, email, code string) (string, string, error) {
	args := m.Called(ctx, email, code)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *mockAuthFlowService) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	args := m.Called(ctx, refreshToken)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *mockAuthFlowService) Logout(ctx context.Context, refreshToken string) error {
	args := m.Called(ctx, refreshToken)
	return args.Error(0)
}

type mockNotifierService struct {
	mock.Mock
}

func (m *mockNotifierService) Notify(ctx context.Context, actorID uuid.UUID, entityType string, entityID uuid.UUID, title, body string, groups []notifications.NotifierGroup) error {
	args := m.Called(ctx, actorID, entityType, entityID, title, body, groups)
	return args.Error(0)
}

func (m *mockNotifierService) SendOTPEmail(ctx context.Context, to, code string, expiresIn time.Duration) error {
	args := m.Called(ctx, to, code, expiresIn)
	return args.Error(0)
}

func (m *mockNotifierService) GetUserNotifications(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit, offset int) ([]store.Notification, error) {
	args := m.Called(ctx, userID, unreadOnly, limit, offset)
	return args.Get(0).([]store.Notification), args.Error(1)
}

func (m *mockNotifierService) MarkAsRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	args := m.Called(ctx, userID, notificationID)
	return args.Error(0)
}

func (m *mockNotifierService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockNotifierService) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

type mockQueueService struct {
	mock.Mock
}

func (m *mockQueueService) Enqueue(taskType string, data interface{}) (*asynq.TaskInfo, error) {
	args := m.Called(taskType, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*asynq.TaskInfo), args.Error(1)
}

type mockStorageService struct {
	mock.Mock
}

func (m *mockStorageService) PutObject(ctx context.Context, key string, body io.Reader, contentType string) error {
	args := m.Called(ctx, key, body, contentType)
	return args.Error(0)
}

func (m *mockStorageService) GetObject(ctx context.Context, key string) (io.ReadCloser, string, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.String(1), args.Error(2)
}

func (m *mockStorageService) GeneratePresignedURL(ctx context.Context, method string, key string, duration time.Duration) (string, error) {
	args := m.Called(ctx, method, key, duration)
	return args.String(0), args.Error(1)
}

func (m *mockStorageService) DeleteObject(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// testDeps bundles the mock collaborators a unit test wires into a Server.
type testDeps struct {
	engine   *mockPermissionService
	authFlow *mockAuthFlowService
	notifier *mockNotifierService
	queue    *mockQueueService
	storage  *mockStorageService
}

// newTestServer builds a Server on mocks only. Handlers that reach the
// database need the integration harness in server_test.go instead.
func newTestServer() (*Server, *testDeps) {
	deps := &testDeps{
		engine:   &mockPermissionService{},
		authFlow: &mockAuthFlowService{},
		notifier: &mockNotifierService{},
		queue:    &mockQueueService{},
		storage:  &mockStorageService{},
	}
	server := NewServer(nil, deps.engine, deps.authFlow, nil, nil, deps.notifier, deps.queue, deps.storage, config.AuthConfig{
		OTPExpiry:      10 * time.Minute,
		OTPCooldown:    time.Minute,
		OTPMaxAttempts: 5,
		RefreshExpiry:  30 * 24 * time.Hour,
	})
	return server, deps
}

// asUser injects an authenticated principal the way the bearer middleware
// does, for routers built in tests.
func asUser(user *testutil.TestUser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(testutil.ContextWithUser(r.Context(), user)))
		})
	}
}
