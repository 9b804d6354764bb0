package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/platewise/staffhub-backend/internal/middleware"
	"github.com/platewise/staffhub-backend/internal/notifications"
	"github.com/platewise/staffhub-backend/internal/store"
)

type shiftBody struct {
	UserID   uuid.UUID `json:"user_id"`
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
	Notes    string    `json:"notes"`
}

func (b shiftBody) validate() []ErrorDetail {
	var details []ErrorDetail
	if b.UserID == uuid.Nil {
		details = append(details, ErrorDetail{Field: "user_id", Message: "is required"})
	}
	if b.StartsAt.IsZero() || b.EndsAt.IsZero() {
		details = append(details, ErrorDetail{Field: "starts_at", Message: "starts_at and ends_at are required"})
	} else if !b.EndsAt.After(b.StartsAt) {
		details = append(details, ErrorDetail{Field: "ends_at", Message: "must be after starts_at"})
	}
	return details
}

func (s *Server) ListShifts(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLoggerFromContext(r.Context())

	restaurantID, ok := restaurantScope(w, r)
	if !ok {
		return
	}

	from, to, err := parseTimeRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, ValidationErr(err.Error(), nil))
		return
	}

	shifts, err := s.db.Store().ListShifts(r.Context(), restaurantID, from, to)
	if err != nil {
		logger.Error("Failed to list shifts", "restaurant_id", restaurantID, "error", err)
		writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
		return
	}

	writeJSON(w, http.StatusOK, shifts)
}

func (s *Server) CreateShift(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLoggerFromContext(r.Context())

	restaurantID, ok := restaurantScope(w, r)
	if !ok {
		return
	}

	var body shiftBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, ValidationErr("Invalid request body", nil))
		return
	}
	if details := body.validate(); len(details) > 0 {
		writeError(w, http.StatusBadRequest, ValidationErr("Invalid shift", details))
		return
	}

	if _, err := s.db.Store().GetMembership(r.Context(), body.UserID, restaurantID); err != nil {
		writeError(w, http.StatusBadRequest, ValidationErr("User is not an employee of this restaurant", []ErrorDetail{
			{Field: "user_id", Message: "no active membership"},
		}))
		return
	}

	shift, err := s.db.Store().CreateShift(r.Context(), restaurantID, body.UserID, body.StartsAt, body.EndsAt, body.Notes)
	if err != nil {
		logger.Error("Failed to create shift", "restaurant_id", restaurantID, "error", err)
		writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
		return
	}

	writeJSON(w, http.StatusCreated, shift)
}

func (s *Server) GetShift(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLoggerFromContext(r.Context())

	restaurantID, ok := restaurantScope(w, r)
	if !ok {
		return
	}
	shiftID, ok := urlUUID(w, r, "shiftID")
	if !ok {
		return
	}

	shift, err := s.db.Store().GetShift(r.Context(), restaurantID, shiftID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, NotFoundErr("Shift"))
		return
	}
	if err != nil {
		logger.Error("Failed to get shift", "shift_id", shiftID, "error", err)
		writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
		return
	}

	writeJSON(w, http.StatusOK, shift)
}

func (s *Server) UpdateShift(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLoggerFromContext(r.Context())

	restaurantID, ok := restaurantScope(w, r)
	if !ok {
		return
	}
	shiftID, ok := urlUUID(w, r, "shiftID")
	if !ok {
		return
	}

	var body shiftBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, ValidationErr("Invalid request body", nil))
		return
	}
	if details := body.validate(); len(details) > 0 {
		writeError(w, http.StatusBadRequest, ValidationErr("Invalid shift", details))
		return
	}

	shift, err := s.db.Store().UpdateShift(r.Context(), restaurantID, shiftID, body.UserID, body.StartsAt, body.EndsAt, body.Notes)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, NotFoundErr("Shift"))
		return
	}
	if err != nil {
		logger.Error("Failed to update shift", "shift_id", shiftID, "error", err)
		writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
		return
	}

	writeJSON(w, http.StatusOK, shift)
}

func (s *Server) DeleteShift(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLoggerFromContext(r.Context())

	restaurantID, ok := restaurantScope(w, r)
	if !ok {
		return
	}
	shiftID, ok := urlUUID(w, r, "shiftID")
	if !ok {
		return
	}

	err := s.db.Store().DeleteShift(r.Context(), restaurantID, shiftID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, NotFoundErr("Shift"))
		return
	}
	if err != nil {
		logger.Error("Failed to delete shift", "shift_id", shiftID, "error", err)
		writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type swapRequestBody struct {
	TargetUserID *uuid.UUID `json:"target_user_id"`
}

// CreateSwapRequest opens a swap request for one of the caller's own shifts
// and notifies the restaurant manager.
func (s *Server) CreateSwapRequest(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLoggerFromContext(r.Context())

	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	restaurantID, ok := restaurantScope(w, r)
	if !ok {
		return
	}
	shiftID, ok := urlUUID(w, r, "shiftID")
	if !ok {
		return
	}

	var body swapRequestBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, ValidationErr("Invalid request body", nil))
		return
	}

	shift, err := s.db.Store().GetShift(r.Context(), restaurantID, shiftID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, NotFoundErr("Shift"))
		return
	}
	if err != nil {
		logger.Error("Failed to get shift", "shift_id", shiftID, "error", err)
		writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
		return
	}

	if shift.UserID != user.ID {
		writeError(w, http.StatusForbidden, PermissionDenied("You can only request swaps for your own shifts"))
		return
	}

	request, err := s.db.Store().CreateSwapRequest(r.Context(), shiftID, user.ID, body.TargetUserID)
	if err != nil {
		logger.Error("Failed to create swap request", "shift_id", shiftID, "error", err)
		writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
		return
	}

	s.notifySwapRequested(r, restaurantID, shift, request)

	writeJSON(w, http.StatusCreated, request)
}

// notifySwapRequested alerts the restaurant manager. Notification failures
// never fail the request itself.
func (s *Server) notifySwapRequested(r *http.Request, restaurantID uuid.UUID, shift store.Shift, request store.SwapRequest) {
	logger := middleware.GetLoggerFromContext(r.Context())

	managerID, hasManager, err := s.db.Store().GetRestaurantManagerID(r.Context(), restaurantID)
	if err != nil || !hasManager {
		if err != nil {
			logger.Error("Failed to look up restaurant manager", "restaurant_id", restaurantID, "error", err)
		}
		return
	}

	restaurant, err := s.db.Store().GetRestaurantByID(r.Context(), restaurantID)
	if err != nil {
		logger.Error("Failed to load restaurant for notification", "restaurant_id", restaurantID, "error", err)
		return
	}
	requester, err := s.db.Store().GetUserByID(r.Context(), request.RequesterID)
	if err != nil {
		logger.Error("Failed to load requester for notification", "user_id", request.RequesterID, "error", err)
		return
	}

	err = s.notifier.Notify(r.Context(), request.RequesterID,
		notifications.EntitySwapRequest, request.ID,
		"Shift swap requested",
		requester.Name+" requested a swap for the shift on "+shift.StartsAt.Format("Jan 2, 2006"),
		[]notifications.NotifierGroup{{
			IDs:      []uuid.UUID{managerID},
			Template: notifications.TemplateSwapRequest,
			TemplateData: map[string]interface{}{
				"RequesterName":  requester.Name,
				"ShiftDate":      shift.StartsAt.Format("Jan 2, 2006 15:04"),
				"RestaurantName": restaurant.Name,
			},
		}})
	if err != nil {
		logger.Error("Failed to send swap request notification", "request_id", request.ID, "error", err)
	}
}

func (s *Server) ListSwapRequests(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLoggerFromContext(r.Context())

	restaurantID, ok := restaurantScope(w, r)
	if !ok {
		return
	}

	status := r.URL.Query().Get("status")
	switch status {
	case "", store.SwapStatusPending, store.SwapStatusApproved, store.SwapStatusRejected:
	default:
		writeError(w, http.StatusBadRequest, ValidationErr("Unknown status filter", []ErrorDetail{
			{Field: "status", Message: "must be PENDING, APPROVED or REJECTED"},
		}))
		return
	}

	requests, err := s.db.Store().ListSwapRequests(r.Context(), restaurantID, status)
	if err != nil {
		logger.Error("Failed to list swap requests", "restaurant_id", restaurantID, "error", err)
		writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
		return
	}

	writeJSON(w, http.StatusOK, requests)
}

type resolveSwapBody struct {
	Approve bool `json:"approve"`
}

func (s *Server) ResolveSwapRequest(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLoggerFromContext(r.Context())

	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	restaurantID, ok := restaurantScope(w, r)
	if !ok {
		return
	}
	requestID, ok := urlUUID(w, r, "requestID")
	if !ok {
		return
	}

	var body resolveSwapBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, ValidationErr("Invalid request body", nil))
		return
	}

	request, err := s.db.Store().ResolveSwapRequest(r.Context(), requestID, user.ID, body.Approve)
	if errors.Is(err, store.ErrNotFound) {
		// No pending row: either the request never existed or it was
		// already resolved by someone else.
		if existing, getErr := s.db.Store().GetSwapRequest(r.Context(), requestID); getErr == nil && existing.Status != store.SwapStatusPending {
			writeError(w, http.StatusConflict, ConflictErr("Swap request is already resolved"))
			return
		}
		writeError(w, http.StatusNotFound, NotFoundErr("Swap request"))
		return
	}
	if err != nil {
		logger.Error("Failed to resolve swap request", "request_id", requestID, "error", err)
		writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
		return
	}

	s.notifySwapResolved(r, restaurantID, request)

	writeJSON(w, http.StatusOK, request)
}

func (s *Server) notifySwapResolved(r *http.Request, restaurantID uuid.UUID, request store.SwapRequest) {
	logger := middleware.GetLoggerFromContext(r.Context())

	shift, err := s.db.Store().GetShift(r.Context(), restaurantID, request.ShiftID)
	if err != nil {
		logger.Error("Failed to load shift for notification", "shift_id", request.ShiftID, "error", err)
		return
	}
	restaurant, err := s.db.Store().GetRestaurantByID(r.Context(), restaurantID)
	if err != nil {
		logger.Error("Failed to load restaurant for notification", "restaurant_id", restaurantID, "error", err)
		return
	}

	resolver := uuid.Nil
	if request.ResolvedBy != nil {
		resolver = *request.ResolvedBy
	}

	status := "approved"
	if request.Status == store.SwapStatusRejected {
		status = "rejected"
	}

	recipients := []uuid.UUID{request.RequesterID}
	if request.TargetUserID != nil {
		recipients = append(recipients, *request.TargetUserID)
	}

	err = s.notifier.Notify(r.Context(), resolver,
		notifications.EntitySwapRequest, request.ID,
		"Shift swap "+status,
		"The swap request for "+shift.StartsAt.Format("Jan 2, 2006")+" was "+status,
		[]notifications.NotifierGroup{{
			IDs:      recipients,
			Template: notifications.TemplateSwapResolved,
			TemplateData: map[string]interface{}{
				"Status":         status,
				"ShiftDate":      shift.StartsAt.Format("Jan 2, 2006 15:04"),
				"RestaurantName": restaurant.Name,
			},
		}})
	if err != nil {
		logger.Error("Failed to send swap resolution notification", "request_id", request.ID, "error", err)
	}
}
