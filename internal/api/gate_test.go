package api

import (
	"errors"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/platewise/staffhub-backend/internal/permissions"
	"github.com/platewise/staffhub-backend/internal/testutil"
)

func gatedRouter(server *Server, user *testutil.TestUser, gate func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	if user != nil {
		r.Use(asUser(user))
	}
	r.With(gate).Get("/restaurants/{restaurantID}/probe", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return r
}

func TestRequirePermission(t *testing.T) {
	restaurantID := testutil.NewUUID()
	path := "/restaurants/" + restaurantID.String() + "/probe"

	t.Run("allowed request reaches the handler", func(t *testing.T) {
		server, deps := newTestServer()
		user := testutil.NewTestUser()
		deps.engine.On("CheckPermission", mock.Anything, user.ID, mock.Anything, permViewSchedule).
			Return(permissions.Decision{Allowed: true, Reason: permissions.ReasonPositionGrant}, nil)

		resp := testutil.MakeRequest(t, gatedRouter(server, user, server.RequirePermission(permViewSchedule)), testutil.Request{
			Method: http.MethodGet,
			Path:   path,
		})

		assert.Equal(t, http.StatusOK, resp.Code)
		deps.engine.AssertExpectations(t)
	})

	t.Run("denial returns 403 with the decision reason", func(t *testing.T) {
		server, deps := newTestServer()
		user := testutil.NewTestUser()
		deps.engine.On("CheckPermission", mock.Anything, user.ID, mock.Anything, permEditSchedule).
			Return(permissions.Decision{Allowed: false, Reason: permissions.ReasonNotMember}, nil)

		resp := testutil.MakeRequest(t, gatedRouter(server, user, server.RequirePermission(permEditSchedule)), testutil.Request{
			Method: http.MethodGet,
			Path:   path,
		})

		require.Equal(t, http.StatusForbidden, resp.Code)
		errBody, ok := resp.Body["error"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, CodePermissionDenied, errBody["code"])
		ctx, ok := errBody["context"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, permissions.ReasonNotMember, ctx["reason"])
		assert.Equal(t, string(permEditSchedule), ctx["permission"])
	})

	t.Run("provider fault returns 500, not a denial", func(t *testing.T) {
		server, deps := newTestServer()
		user := testutil.NewTestUser()
		deps.engine.On("CheckPermission", mock.Anything, user.ID, mock.Anything, permViewSchedule).
			Return(permissions.Decision{}, errors.New("connection refused"))

		resp := testutil.MakeRequest(t, gatedRouter(server, user, server.RequirePermission(permViewSchedule)), testutil.Request{
			Method: http.MethodGet,
			Path:   path,
		})

		assert.Equal(t, http.StatusInternalServerError, resp.Code)
	})

	t.Run("missing principal returns 401 without consulting the engine", func(t *testing.T) {
		server, deps := newTestServer()

		resp := testutil.MakeRequest(t, gatedRouter(server, nil, server.RequirePermission(permViewSchedule)), testutil.Request{
			Method: http.MethodGet,
			Path:   path,
		})

		assert.Equal(t, http.StatusUnauthorized, resp.Code)
		deps.engine.AssertNotCalled(t, "CheckPermission")
	})

	t.Run("malformed restaurant id returns 400", func(t *testing.T) {
		server, deps := newTestServer()
		user := testutil.NewTestUser()

		resp := testutil.MakeRequest(t, gatedRouter(server, user, server.RequirePermission(permViewSchedule)), testutil.Request{
			Method: http.MethodGet,
			Path:   "/restaurants/not-a-uuid/probe",
		})

		assert.Equal(t, http.StatusBadRequest, resp.Code)
		deps.engine.AssertNotCalled(t, "CheckPermission")
	})
}

func TestRequireAnyPermission(t *testing.T) {
	restaurantID := testutil.NewUUID()
	path := "/restaurants/" + restaurantID.String() + "/probe"
	codes := []permissions.Code{permViewTimesheets, permViewOwnTimesheets}

	t.Run("one grant is enough", func(t *testing.T) {
		server, deps := newTestServer()
		user := testutil.NewTestUser()
		deps.engine.On("CheckAnyPermission", mock.Anything, user.ID, mock.Anything, codes).
			Return(permissions.Decision{Allowed: true, Reason: permissions.ReasonDefaultGrant}, nil)

		resp := testutil.MakeRequest(t, gatedRouter(server, user, server.RequireAnyPermission(codes...)), testutil.Request{
			Method: http.MethodGet,
			Path:   path,
		})

		assert.Equal(t, http.StatusOK, resp.Code)
	})

	t.Run("no grants denies with the aggregate reason", func(t *testing.T) {
		server, deps := newTestServer()
		user := testutil.NewTestUser()
		deps.engine.On("CheckAnyPermission", mock.Anything, user.ID, mock.Anything, codes).
			Return(permissions.Decision{Allowed: false, Reason: permissions.ReasonNoneOfRequired}, nil)

		resp := testutil.MakeRequest(t, gatedRouter(server, user, server.RequireAnyPermission(codes...)), testutil.Request{
			Method: http.MethodGet,
			Path:   path,
		})

		require.Equal(t, http.StatusForbidden, resp.Code)
		errBody, ok := resp.Body["error"].(map[string]interface{})
		require.True(t, ok)
		ctx, ok := errBody["context"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, permissions.ReasonNoneOfRequired, ctx["reason"])
	})
}
