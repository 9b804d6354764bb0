package api

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/platewise/staffhub-backend/internal/middleware"
	"github.com/platewise/staffhub-backend/internal/store"
)

func (s *Server) ListEmployees(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLoggerFromContext(r.Context())

	restaurantID, ok := restaurantScope(w, r)
	if !ok {
		return
	}

	employees, err := s.db.Store().ListEmployees(r.Context(), restaurantID)
	if err != nil {
		logger.Error("Failed to list employees", "restaurant_id", restaurantID, "error", err)
		writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
		return
	}

	writeJSON(w, http.StatusOK, employees)
}

type addEmployeeBody struct {
	UserID     uuid.UUID  `json:"user_id"`
	PositionID *uuid.UUID `json:"position_id"`
}

func (s *Server) AddEmployee(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLoggerFromContext(r.Context())

	restaurantID, ok := restaurantScope(w, r)
	if !ok {
		return
	}

	var body addEmployeeBody
	if err := decodeJSON(r, &body); err != nil || body.UserID == uuid.Nil {
		writeError(w, http.StatusBadRequest, ValidationErr("user_id is required", []ErrorDetail{
			{Field: "user_id", Message: "must be a valid user ID"},
		}))
		return
	}

	if _, err := s.db.Store().GetUserByID(r.Context(), body.UserID); err != nil {
		writeError(w, http.StatusNotFound, NotFoundErr("User"))
		return
	}
	if body.PositionID != nil {
		if _, err := s.db.Store().GetPosition(r.Context(), restaurantID, *body.PositionID); err != nil {
			writeError(w, http.StatusNotFound, NotFoundErr("Position"))
			return
		}
	}

	membership, err := s.db.Store().UpsertMembership(r.Context(), body.UserID, restaurantID, body.PositionID, true)
	if err != nil {
		logger.Error("Failed to add employee", "restaurant_id", restaurantID, "user_id", body.UserID, "error", err)
		writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
		return
	}

	writeJSON(w, http.StatusCreated, membership)
}

type updateEmployeeBody struct {
	PositionID *uuid.UUID `json:"position_id"`
}

// UpdateEmployee reassigns the employee's position within the restaurant.
func (s *Server) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLoggerFromContext(r.Context())

	restaurantID, ok := restaurantScope(w, r)
	if !ok {
		return
	}
	userID, ok := urlUUID(w, r, "userID")
	if !ok {
		return
	}

	var body updateEmployeeBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, ValidationErr("Invalid request body", nil))
		return
	}

	if _, err := s.db.Store().GetMembership(r.Context(), userID, restaurantID); err != nil {
		writeError(w, http.StatusNotFound, NotFoundErr("Employee"))
		return
	}
	if body.PositionID != nil {
		if _, err := s.db.Store().GetPosition(r.Context(), restaurantID, *body.PositionID); err != nil {
			writeError(w, http.StatusNotFound, NotFoundErr("Position"))
			return
		}
	}

	membership, err := s.db.Store().UpsertMembership(r.Context(), userID, restaurantID, body.PositionID, true)
	if err != nil {
		logger.Error("Failed to update employee", "restaurant_id", restaurantID, "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
		return
	}

	writeJSON(w, http.StatusOK, membership)
}

// RemoveEmployee deactivates the membership. History referencing the user is
// kept, so this is a soft removal.
func (s *Server) RemoveEmployee(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLoggerFromContext(r.Context())

	restaurantID, ok := restaurantScope(w, r)
	if !ok {
		return
	}
	userID, ok := urlUUID(w, r, "userID")
	if !ok {
		return
	}

	err := s.db.Store().DeactivateMembership(r.Context(), userID, restaurantID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, NotFoundErr("Employee"))
		return
	}
	if err != nil {
		logger.Error("Failed to remove employee", "restaurant_id", restaurantID, "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
