package api

import (
	"errors"
	"net/http"

	"github.com/platewise/staffhub-backend/internal/auth"
	"github.com/platewise/staffhub-backend/internal/middleware"
)

type requestOTPBody struct {
	Email string `json:"email"`
}

type verifyOTPBody struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type refreshBody struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// RequestOTP emails a one-time sign-in code. Unknown emails get the same
// response as known ones so the endpoint cannot be used to probe accounts.
func (s *Server) RequestOTP(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLoggerFromContext(r.Context())

	var body requestOTPBody
	if err := decodeJSON(r, &body); err != nil || body.Email == "" {
		writeError(w, http.StatusBadRequest, ValidationErr("A valid email is required", []ErrorDetail{
			{Field: "email", Message: "must be a non-empty email address"},
		}))
		return
	}

	code, err := s.authFlow.RequestOTP(r.Context(), body.Email)
	switch {
	case errors.Is(err, auth.ErrUserNotFound):
		// fall through to the generic accepted response
	case errors.Is(err, auth.ErrOTPCooldown):
		writeError(w, http.StatusTooManyRequests, RateLimitedErr("Please wait before requesting another code"))
		return
	case err != nil:
		logger.Error("Failed to issue OTP", "error", err)
		writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
		return
	default:
		if err := s.notifier.SendOTPEmail(r.Context(), body.Email, code, s.authCfg.OTPExpiry); err != nil {
			logger.Error("Failed to enqueue OTP email", "error", err)
			writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
			return
		}
	}

	writeJSON(w, http.StatusAccepted, messageResponse{
		Message: "If the email is registered, a sign-in code has been sent",
	})
}

func (s *Server) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLoggerFromContext(r.Context())

	var body verifyOTPBody
	if err := decodeJSON(r, &body); err != nil || body.Email == "" || body.Code == "" {
		writeError(w, http.StatusBadRequest, ValidationErr("Email and code are required", nil))
		return
	}

	access, refresh, err := s.authFlow.VerifyOTP(r.Context(), body.Email, body.Code)
	switch {
	case errors.Is(err, auth.ErrOTPInvalid), errors.Is(err, auth.ErrUserNotFound):
		writeError(w, http.StatusUnauthorized, Unauthorized("Invalid or expired code"))
		return
	case errors.Is(err, auth.ErrOTPMaxAttempts):
		writeError(w, http.StatusUnauthorized, Unauthorized("Too many attempts, request a new code"))
		return
	case err != nil:
		logger.Error("Failed to verify OTP", "error", err)
		writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
		return
	}

	writeJSON(w, http.StatusOK, tokenPairResponse{
		AccessToken:  access,
		RefreshToken: refresh,
	})
}

func (s *Server) RefreshToken(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLoggerFromContext(r.Context())

	var body refreshBody
	if err := decodeJSON(r, &body); err != nil || body.RefreshToken == "" {
		writeError(w, http.StatusBadRequest, ValidationErr("refresh_token is required", nil))
		return
	}

	access, refresh, err := s.authFlow.Refresh(r.Context(), body.RefreshToken)
	switch {
	case errors.Is(err, auth.ErrRefreshInvalid), errors.Is(err, auth.ErrUserNotFound):
		writeError(w, http.StatusUnauthorized, Unauthorized("Invalid or expired refresh token"))
		return
	case err != nil:
		logger.Error("Failed to rotate refresh token", "error", err)
		writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
		return
	}

	writeJSON(w, http.StatusOK, tokenPairResponse{
		AccessToken:  access,
		RefreshToken: refresh,
	})
}

func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLoggerFromContext(r.Context())

	var body refreshBody
	if err := decodeJSON(r, &body); err != nil || body.RefreshToken == "" {
		writeError(w, http.StatusBadRequest, ValidationErr("refresh_token is required", nil))
		return
	}

	if err := s.authFlow.Logout(r.Context(), body.RefreshToken); err != nil {
		logger.Error("Failed to log out", "error", err)
		writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Logged out"})
}
