package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/platewise/staffhub-backend/internal/middleware"
	"github.com/platewise/staffhub-backend/internal/store"
)

// ListTimesheets returns every entry in the range for holders of the broad
// view permission and only the caller's own entries otherwise.
func (s *Server) ListTimesheets(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLoggerFromContext(r.Context())

	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	restaurantID, ok := restaurantScope(w, r)
	if !ok {
		return
	}

	from, to, err := parseTimeRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, ValidationErr(err.Error(), nil))
		return
	}

	viewAll, err := s.canViewAll(r, user.ID, restaurantID, permViewTimesheets)
	if err != nil {
		logger.Error("Failed to resolve timesheet visibility", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
		return
	}

	var entries []store.Timesheet
	if viewAll {
		entries, err = s.db.Store().ListTimesheets(r.Context(), restaurantID, from, to)
	} else {
		entries, err = s.db.Store().ListTimesheetsByUser(r.Context(), restaurantID, user.ID, from, to)
	}
	if err != nil {
		logger.Error("Failed to list timesheets", "restaurant_id", restaurantID, "error", err)
		writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

type clockBody struct {
	Note string `json:"note"`
}

func (s *Server) ClockIn(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLoggerFromContext(r.Context())

	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	restaurantID, ok := restaurantScope(w, r)
	if !ok {
		return
	}

	var body clockBody
	if err := decodeJSON(r, &body); err != nil && !errors.Is(err, errEmptyBody) {
		writeError(w, http.StatusBadRequest, ValidationErr("Invalid request body", nil))
		return
	}

	if _, err := s.db.Store().GetMembership(r.Context(), user.ID, restaurantID); err != nil {
		writeError(w, http.StatusForbidden, PermissionDenied("You are not an employee of this restaurant"))
		return
	}

	entry, err := s.db.Store().ClockIn(r.Context(), restaurantID, user.ID, time.Now().UTC(), body.Note)
	if errors.Is(err, store.ErrAlreadyClockedIn) {
		writeError(w, http.StatusConflict, ConflictErr("You are already clocked in"))
		return
	}
	if err != nil {
		logger.Error("Failed to clock in", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) ClockOut(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLoggerFromContext(r.Context())

	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	restaurantID, ok := restaurantScope(w, r)
	if !ok {
		return
	}

	entry, err := s.db.Store().ClockOut(r.Context(), restaurantID, user.ID, time.Now().UTC())
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusConflict, ConflictErr("You are not clocked in"))
		return
	}
	if err != nil {
		logger.Error("Failed to clock out", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

type updateTimesheetBody struct {
	ClockIn  time.Time  `json:"clock_in"`
	ClockOut *time.Time `json:"clock_out"`
	Note     string     `json:"note"`
}

func (s *Server) UpdateTimesheet(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLoggerFromContext(r.Context())

	restaurantID, ok := restaurantScope(w, r)
	if !ok {
		return
	}
	timesheetID, ok := urlUUID(w, r, "timesheetID")
	if !ok {
		return
	}

	var body updateTimesheetBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, ValidationErr("Invalid request body", nil))
		return
	}
	if body.ClockIn.IsZero() {
		writeError(w, http.StatusBadRequest, ValidationErr("clock_in is required", []ErrorDetail{
			{Field: "clock_in", Message: "must be a valid timestamp"},
		}))
		return
	}
	if body.ClockOut != nil && !body.ClockOut.After(body.ClockIn) {
		writeError(w, http.StatusBadRequest, ValidationErr("clock_out must be after clock_in", []ErrorDetail{
			{Field: "clock_out", Message: "must be after clock_in"},
		}))
		return
	}

	entry, err := s.db.Store().UpdateTimesheet(r.Context(), restaurantID, timesheetID, body.ClockIn, body.ClockOut, body.Note)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, NotFoundErr("Timesheet entry"))
		return
	}
	if err != nil {
		logger.Error("Failed to update timesheet", "timesheet_id", timesheetID, "error", err)
		writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
		return
	}

	writeJSON(w, http.StatusOK, entry)
}
