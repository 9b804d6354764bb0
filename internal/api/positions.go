package api

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/platewise/staffhub-backend/internal/middleware"
	"github.com/platewise/staffhub-backend/internal/permissions"
	"github.com/platewise/staffhub-backend/internal/store"
)

type positionBody struct {
	Name         string     `json:"name"`
	DepartmentID *uuid.UUID `json:"department_id"`
}

func (s *Server) ListPositions(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLoggerFromContext(r.Context())

	restaurantID, ok := restaurantScope(w, r)
	if !ok {
		return
	}

	positions, err := s.db.Store().ListPositions(r.Context(), restaurantID)
	if err != nil {
		logger.Error("Failed to list positions", "restaurant_id", restaurantID, "error", err)
		writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
		return
	}

	writeJSON(w, http.StatusOK, positions)
}

func (s *Server) CreatePosition(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLoggerFromContext(r.Context())

	restaurantID, ok := restaurantScope(w, r)
	if !ok {
		return
	}

	var body positionBody
	if err := decodeJSON(r, &body); err != nil || body.Name == "" {
		writeError(w, http.StatusBadRequest, ValidationErr("name is required", []ErrorDetail{
			{Field: "name", Message: "must be non-empty"},
		}))
		return
	}

	position, err := s.db.Store().CreatePosition(r.Context(), restaurantID, body.DepartmentID, body.Name)
	if err != nil {
		logger.Error("Failed to create position", "restaurant_id", restaurantID, "error", err)
		writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
		return
	}

	writeJSON(w, http.StatusCreated, position)
}

func (s *Server) GetPosition(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLoggerFromContext(r.Context())

	restaurantID, ok := restaurantScope(w, r)
	if !ok {
		return
	}
	positionID, ok := urlUUID(w, r, "positionID")
	if !ok {
		return
	}

	position, err := s.db.Store().GetPosition(r.Context(), restaurantID, positionID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, NotFoundErr("Position"))
		return
	}
	if err != nil {
		logger.Error("Failed to get position", "position_id", positionID, "error", err)
		writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
		return
	}

	writeJSON(w, http.StatusOK, position)
}

func (s *Server) UpdatePosition(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLoggerFromContext(r.Context())

	restaurantID, ok := restaurantScope(w, r)
	if !ok {
		return
	}
	positionID, ok := urlUUID(w, r, "positionID")
	if !ok {
		return
	}

	var body positionBody
	if err := decodeJSON(r, &body); err != nil || body.Name == "" {
		writeError(w, http.StatusBadRequest, ValidationErr("name is required", nil))
		return
	}

	position, err := s.db.Store().UpdatePosition(r.Context(), restaurantID, positionID, body.DepartmentID, body.Name)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, NotFoundErr("Position"))
		return
	}
	if err != nil {
		logger.Error("Failed to update position", "position_id", positionID, "error", err)
		writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
		return
	}

	writeJSON(w, http.StatusOK, position)
}

func (s *Server) DeletePosition(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLoggerFromContext(r.Context())

	restaurantID, ok := restaurantScope(w, r)
	if !ok {
		return
	}
	positionID, ok := urlUUID(w, r, "positionID")
	if !ok {
		return
	}

	err := s.db.Store().DeletePosition(r.Context(), restaurantID, positionID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, NotFoundErr("Position"))
		return
	}
	if err != nil {
		logger.Error("Failed to delete position", "position_id", positionID, "error", err)
		writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) GetPositionPermissions(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLoggerFromContext(r.Context())

	restaurantID, ok := restaurantScope(w, r)
	if !ok {
		return
	}
	positionID, ok := urlUUID(w, r, "positionID")
	if !ok {
		return
	}

	if _, err := s.db.Store().GetPosition(r.Context(), restaurantID, positionID); err != nil {
		writeError(w, http.StatusNotFound, NotFoundErr("Position"))
		return
	}

	codes, err := s.db.Store().GetPositionPermissions(r.Context(), positionID)
	if err != nil {
		logger.Error("Failed to get position permissions", "position_id", positionID, "error", err)
		writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
		return
	}

	writeJSON(w, http.StatusOK, permissionsResponse{Permissions: codes})
}

type replacePermissionsBody struct {
	Permissions []string `json:"permissions"`
}

// ReplacePositionPermissions sets the position's grants to exactly the given
// codes. Unknown codes reject the whole request.
func (s *Server) ReplacePositionPermissions(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLoggerFromContext(r.Context())

	restaurantID, ok := restaurantScope(w, r)
	if !ok {
		return
	}
	positionID, ok := urlUUID(w, r, "positionID")
	if !ok {
		return
	}

	var body replacePermissionsBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, ValidationErr("Invalid request body", nil))
		return
	}

	codes := make([]permissions.Code, 0, len(body.Permissions))
	var details []ErrorDetail
	for _, raw := range body.Permissions {
		code, err := permissions.ParseCode(raw)
		if err != nil {
			details = append(details, ErrorDetail{Field: "permissions", Message: err.Error()})
			continue
		}
		codes = append(codes, code)
	}
	if len(details) > 0 {
		writeError(w, http.StatusBadRequest, ValidationErr("Unknown permission codes", details))
		return
	}

	if _, err := s.db.Store().GetPosition(r.Context(), restaurantID, positionID); err != nil {
		writeError(w, http.StatusNotFound, NotFoundErr("Position"))
		return
	}

	if err := s.db.Store().ReplacePositionPermissions(r.Context(), positionID, codes); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, NotFoundErr("Position"))
			return
		}
		logger.Error("Failed to replace position permissions", "position_id", positionID, "error", err)
		writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
		return
	}

	writeJSON(w, http.StatusOK, permissionsResponse{Permissions: codes})
}
