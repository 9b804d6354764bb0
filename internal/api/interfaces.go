package api

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/platewise/staffhub-backend/internal/auth"
	"github.com/platewise/staffhub-backend/internal/notifications"
	"github.com/platewise/staffhub-backend/internal/permissions"
	"github.com/platewise/staffhub-backend/internal/store"
)

// DatabaseService defines the interface for database access
type DatabaseService interface {
	Store() *store.Store
	Pool() *pgxpool.Pool
	Close()
}

// JWTService defines the interface for JWT operations
type JWTService interface {
	GenerateToken(ctx context.Context, userID uuid.UUID, email string) (string, error)
	ValidateToken(ctx context.Context, token string) (*auth.TokenClaims, error)
}

// AuthFlowService defines the interface for the OTP login flow
type AuthFlowService interface {
	RequestOTP(ctx context.Context, email string) (string, error)
	VerifyOTP(ctx context.Context, email, code string) (accessToken, refreshToken string, err error)
	Refresh(ctx context.Context, refreshToken string) (newAccess, newRefresh string, err error)
	Logout(ctx context.Context, refreshToken string) error
}

// PermissionService defines the interface for authorization decisions
type PermissionService interface {
	CheckPermission(ctx context.Context, userID uuid.UUID, restaurantID *uuid.UUID, code permissions.Code) (permissions.Decision, error)
	CheckAnyPermission(ctx context.Context, userID uuid.UUID, restaurantID *uuid.UUID, codes []permissions.Code) (permissions.Decision, error)
	GetUserPermissions(ctx context.Context, userID, restaurantID uuid.UUID) ([]permissions.Code, error)
	CheckRestaurantAccess(ctx context.Context, userID, restaurantID uuid.UUID) (bool, error)
}

// NotifierService defines the interface for in-app + email fan-out
type NotifierService interface {
	Notify(ctx context.Context, actorID uuid.UUID, entityType string, entityID uuid.UUID, title, body string, groups []notifications.NotifierGroup) error
	SendOTPEmail(ctx context.Context, to, code string, expiresIn time.Duration) error
	GetUserNotifications(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit, offset int) ([]store.Notification, error)
	MarkAsRead(ctx context.Context, userID, notificationID uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, error)
	GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
}

// RedisQueueService defines the interface for background task submission
type RedisQueueService interface {
	Enqueue(taskType string, data interface{}) (*asynq.TaskInfo, error)
}

// ObjectStorageService defines the interface for blob storage (restaurant logos)
type ObjectStorageService interface {
	PutObject(ctx context.Context, key string, body io.Reader, contentType string) error
	GetObject(ctx context.Context, key string) (io.ReadCloser, string, error)
	GeneratePresignedURL(ctx context.Context, method string, key string, duration time.Duration) (string, error)
	DeleteObject(ctx context.Context, key string) error
}
