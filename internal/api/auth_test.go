package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/platewise/staffhub-backend/internal/auth"
	"github.com/platewise/staffhub-backend/internal/testutil"
)

func TestServer_RequestOTP(t *testing.T) {
	t.Run("known email gets a code by mail", func(t *testing.T) {
		server, deps := newTestServer()
		deps.authFlow.On("RequestOTP", mock.Anything, "cook@example.com").Return("482913", nil)
		deps.notifier.On("SendOTPEmail", mock.Anything, "cook@example.com", "482913", mock.Anything).Return(nil)

		resp := testutil.MakeRequest(t, http.HandlerFunc(server.RequestOTP), testutil.Request{
			Method: http.MethodPost,
			Path:   "/auth/otp/request",
			Body:   map[string]string{"email": "cook@example.com"},
		})

		assert.Equal(t, http.StatusAccepted, resp.Code)
		deps.notifier.AssertExpectations(t)
	})

	t.Run("unknown email gets the same response and no mail", func(t *testing.T) {
		server, deps := newTestServer()
		deps.authFlow.On("RequestOTP", mock.Anything, "stranger@example.com").Return("", auth.ErrUserNotFound)

		resp := testutil.MakeRequest(t, http.HandlerFunc(server.RequestOTP), testutil.Request{
			Method: http.MethodPost,
			Path:   "/auth/otp/request",
			Body:   map[string]string{"email": "stranger@example.com"},
		})

		assert.Equal(t, http.StatusAccepted, resp.Code)
		deps.notifier.AssertNotCalled(t, "SendOTPEmail")
	})

	t.Run("cooldown maps to 429", func(t *testing.T) {
		server, deps := newTestServer()
		deps.authFlow.On("RequestOTP", mock.Anything, "cook@example.com").Return("", auth.ErrOTPCooldown)

		resp := testutil.MakeRequest(t, http.HandlerFunc(server.RequestOTP), testutil.Request{
			Method: http.MethodPost,
			Path:   "/auth/otp/request",
			Body:   map[string]string{"email": "cook@example.com"},
		})

		assert.Equal(t, http.StatusTooManyRequests, resp.Code)
		errBody := resp.Body["error"].(map[string]interface{})
		assert.Equal(t, CodeRateLimited, errBody["code"])
	})

	t.Run("missing email is a 400", func(t *testing.T) {
		server, _ := newTestServer()

		resp := testutil.MakeRequest(t, http.HandlerFunc(server.RequestOTP), testutil.Request{
			Method: http.MethodPost,
			Path:   "/auth/otp/request",
			Body:   map[string]string{},
		})

		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})
}

func TestServer_VerifyOTP(t *testing.T) {
	t.Run("valid code returns a token pair", func(t *testing.T) {
		server, deps := newTestServer()
		deps.authFlow.On("VerifyOTP", mock.Anything, "cook@example.com", "482913").
			Return("access-token", "refresh-token", nil)

		resp := testutil.MakeRequest(t, http.HandlerFunc(server.VerifyOTP), testutil.Request{
			Method: http.MethodPost,
			Path:   "/auth/otp/verify",
			Body:   map[string]string{"email": "cook@example.com", "code": "482913"},
		})

		require.Equal(t, http.StatusOK, resp.Code)
		testutil.AssertJSON(t, resp, "access_token", "access-token")
		testutil.AssertJSON(t, resp, "refresh_token", "refresh-token")
	})

	t.Run("wrong code is a 401", func(t *testing.T) {
		server, deps := newTestServer()
		deps.authFlow.On("VerifyOTP", mock.Anything, "cook@example.com", "000000").
			Return("", "", auth.ErrOTPInvalid)

		resp := testutil.MakeRequest(t, http.HandlerFunc(server.VerifyOTP), testutil.Request{
			Method: http.MethodPost,
			Path:   "/auth/otp/verify",
			Body:   map[string]string{"email": "cook@example.com", "code": "000000"},
		})

		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	})

	t.Run("too many attempts is a 401", func(t *testing.T) {
		server, deps := newTestServer()
		deps.authFlow.On("VerifyOTP", mock.Anything, "cook@example.com", "482913").
			Return("", "", auth.ErrOTPMaxAttempts)

		resp := testutil.MakeRequest(t, http.HandlerFunc(server.VerifyOTP), testutil.Request{
			Method: http.MethodPost,
			Path:   "/auth/otp/verify",
			Body:   map[string]string{"email": "cook@example.com", "code": "482913"},
		})

		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	})
}

func TestServer_RefreshToken(t *testing.T) {
	t.Run("valid refresh rotates the pair", func(t *testing.T) {
		server, deps := newTestServer()
		deps.authFlow.On("Refresh", mock.Anything, "old-refresh").
			Return("new-access", "new-refresh", nil)

		resp := testutil.MakeRequest(t, http.HandlerFunc(server.RefreshToken), testutil.Request{
			Method: http.MethodPost,
			Path:   "/auth/refresh",
			Body:   map[string]string{"refresh_token": "old-refresh"},
		})

		require.Equal(t, http.StatusOK, resp.Code)
		testutil.AssertJSON(t, resp, "access_token", "new-access")
		testutil.AssertJSON(t, resp, "refresh_token", "new-refresh")
	})

	t.Run("revoked refresh is a 401", func(t *testing.T) {
		server, deps := newTestServer()
		deps.authFlow.On("Refresh", mock.Anything, "revoked").
			Return("", "", auth.ErrRefreshInvalid)

		resp := testutil.MakeRequest(t, http.HandlerFunc(server.RefreshToken), testutil.Request{
			Method: http.MethodPost,
			Path:   "/auth/refresh",
			Body:   map[string]string{"refresh_token": "revoked"},
		})

		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	})
}

func TestServer_Logout(t *testing.T) {
	server, deps := newTestServer()
	deps.authFlow.On("Logout", mock.Anything, "refresh-token").Return(nil)

	resp := testutil.MakeRequest(t, http.HandlerFunc(server.Logout), testutil.Request{
		Method: http.MethodPost,
		Path:   "/auth/logout",
		Body:   map[string]string{"refresh_token": "refresh-token"},
	})

	assert.Equal(t, http.StatusOK, resp.Code)
	deps.authFlow.AssertExpectations(t)
}

func TestRequestOTP_EmptyBody(t *testing.T) {
	server, _ := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/auth/otp/request", nil)
	rec := httptest.NewRecorder()
	server.RequestOTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
