package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/platewise/staffhub-backend/internal/logging"
	"github.com/platewise/staffhub-backend/internal/permissions"
)

type contextKey string

const (
	UserIDKey contextKey = "user_id"
	UserKey   contextKey = "authenticated_user"
)

// AuthenticatedUser is what the request context carries after a successful
// bearer-token check.
type AuthenticatedUser struct {
	ID    uuid.UUID
	Email string
	Role  permissions.Role
}

type Authenticator struct {
	jwtService *JWTService
	users      UserDirectory
}

func NewAuthenticator(jwtService *JWTService, users UserDirectory) *Authenticator {
	return &Authenticator{
		jwtService: jwtService,
		users:      users,
	}
}

// Middleware validates the Authorization header and loads the user. Requests
// without a valid token get 401 before any handler runs.
func (a *Authenticator) Middleware(onUnauthorized func(w http.ResponseWriter, r *http.Request, reason string)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				onUnauthorized(w, r, "authorization header missing")
				return
			}

			const bearerPrefix = "Bearer "
			if !strings.HasPrefix(authHeader, bearerPrefix) {
				onUnauthorized(w, r, "invalid authorization header format")
				return
			}

			token := strings.TrimPrefix(authHeader, bearerPrefix)
			claims, err := a.jwtService.ValidateToken(r.Context(), token)
			if err != nil {
				onUnauthorized(w, r, "invalid or expired token")
				return
			}

			user, err := a.users.GetUserByID(r.Context(), claims.UserID)
			if err != nil {
				logging.Warn("token subject has no matching user", "user_id", claims.UserID)
				onUnauthorized(w, r, "user not found")
				return
			}

			authed := &AuthenticatedUser{
				ID:    user.ID,
				Email: user.Email,
				Role:  user.Role,
			}

			ctx := context.WithValue(r.Context(), UserIDKey, user.ID)
			ctx = context.WithValue(ctx, UserKey, authed)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

func GetAuthenticatedUser(ctx context.Context) (*AuthenticatedUser, bool) {
	user, ok := ctx.Value(UserKey).(*AuthenticatedUser)
	return user, ok
}
