package api

import (
	"errors"
	"net/http"

	"github.com/platewise/staffhub-backend/internal/middleware"
	"github.com/platewise/staffhub-backend/internal/store"
)

type departmentBody struct {
	Name string `json:"name"`
}

func (s *Server) ListDepartments(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLoggerFromContext(r.Context())

	restaurantID, ok := restaurantScope(w, r)
	if !ok {
		return
	}

	departments, err := s.db.Store().ListDepartments(r.Context(), restaurantID)
	if err != nil {
		logger.Error("Failed to list departments", "restaurant_id", restaurantID, "error", err)
		writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
		return
	}

	writeJSON(w, http.StatusOK, departments)
}

func (s *Server) CreateDepartment(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLoggerFromContext(r.Context())

	restaurantID, ok := restaurantScope(w, r)
	if !ok {
		return
	}

	var body departmentBody
	if err := decodeJSON(r, &body); err != nil || body.Name == "" {
		writeError(w, http.StatusBadRequest, ValidationErr("name is required", []ErrorDetail{
			{Field: "name", Message: "must be non-empty"},
		}))
		return
	}

	department, err := s.db.Store().CreateDepartment(r.Context(), restaurantID, body.Name)
	if err != nil {
		logger.Error("Failed to create department", "restaurant_id", restaurantID, "error", err)
		writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
		return
	}

	writeJSON(w, http.StatusCreated, department)
}

func (s *Server) UpdateDepartment(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLoggerFromContext(r.Context())

	restaurantID, ok := restaurantScope(w, r)
	if !ok {
		return
	}
	departmentID, ok := urlUUID(w, r, "departmentID")
	if !ok {
		return
	}

	var body departmentBody
	if err := decodeJSON(r, &body); err != nil || body.Name == "" {
		writeError(w, http.StatusBadRequest, ValidationErr("name is required", nil))
		return
	}

	department, err := s.db.Store().UpdateDepartment(r.Context(), restaurantID, departmentID, body.Name)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, NotFoundErr("Department"))
		return
	}
	if err != nil {
		logger.Error("Failed to update department", "department_id", departmentID, "error", err)
		writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
		return
	}

	writeJSON(w, http.StatusOK, department)
}

func (s *Server) DeleteDepartment(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLoggerFromContext(r.Context())

	restaurantID, ok := restaurantScope(w, r)
	if !ok {
		return
	}
	departmentID, ok := urlUUID(w, r, "departmentID")
	if !ok {
		return
	}

	err := s.db.Store().DeleteDepartment(r.Context(), restaurantID, departmentID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, NotFoundErr("Department"))
		return
	}
	if err != nil {
		logger.Error("Failed to delete department", "department_id", departmentID, "error", err)
		writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
