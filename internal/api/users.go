package api

import (
	"errors"
	"net/http"

	"github.com/platewise/staffhub-backend/internal/middleware"
	"github.com/platewise/staffhub-backend/internal/permissions"
	"github.com/platewise/staffhub-backend/internal/store"
)

func (s *Server) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	record, err := s.db.Store().GetUserByID(r.Context(), user.ID)
	if err != nil {
		writeError(w, http.StatusNotFound, NotFoundErr("User"))
		return
	}

	writeJSON(w, http.StatusOK, record)
}

type updateUserBody struct {
	Name string `json:"name"`
}

func (s *Server) UpdateCurrentUser(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLoggerFromContext(r.Context())

	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var body updateUserBody
	if err := decodeJSON(r, &body); err != nil || body.Name == "" {
		writeError(w, http.StatusBadRequest, ValidationErr("name is required", []ErrorDetail{
			{Field: "name", Message: "must be non-empty"},
		}))
		return
	}

	record, err := s.db.Store().UpdateUser(r.Context(), user.ID, body.Name)
	if err != nil {
		logger.Error("Failed to update user", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
		return
	}

	writeJSON(w, http.StatusOK, record)
}

// GetUserByID returns another user's profile. Users can always read their own
// record; reading someone else's requires OWNER or ADMIN.
func (s *Server) GetUserByID(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLoggerFromContext(r.Context())

	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	targetID, ok := urlUUID(w, r, "userID")
	if !ok {
		return
	}

	if !permissions.IsDataOwner(user.ID, targetID) && !user.Role.Bypasses() {
		writeError(w, http.StatusForbidden, PermissionDenied("Insufficient permissions"))
		return
	}

	record, err := s.db.Store().GetUserByID(r.Context(), targetID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, NotFoundErr("User"))
		return
	}
	if err != nil {
		logger.Error("Failed to get user", "user_id", targetID, "error", err)
		writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
		return
	}

	writeJSON(w, http.StatusOK, record)
}
