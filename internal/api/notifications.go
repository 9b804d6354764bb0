package api

import (
	"errors"
	"net/http"

	"github.com/platewise/staffhub-backend/internal/middleware"
	"github.com/platewise/staffhub-backend/internal/store"
)

func (s *Server) ListNotifications(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLoggerFromContext(r.Context())

	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	limit, offset := parsePagination(r)
	unreadOnly := r.URL.Query().Get("unread") == "true"

	items, err := s.notifier.GetUserNotifications(r.Context(), user.ID, unreadOnly, limit, offset)
	if err != nil {
		logger.Error("Failed to list notifications", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
		return
	}

	writeJSON(w, http.StatusOK, items)
}

type unreadCountResponse struct {
	Count int64 `json:"count"`
}

func (s *Server) GetUnreadNotificationCount(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLoggerFromContext(r.Context())

	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	count, err := s.notifier.GetUnreadCount(r.Context(), user.ID)
	if err != nil {
		logger.Error("Failed to count unread notifications", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
		return
	}

	writeJSON(w, http.StatusOK, unreadCountResponse{Count: count})
}

func (s *Server) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLoggerFromContext(r.Context())

	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	notificationID, ok := urlUUID(w, r, "notificationID")
	if !ok {
		return
	}

	err := s.notifier.MarkAsRead(r.Context(), user.ID, notificationID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, NotFoundErr("Notification"))
		return
	}
	if err != nil {
		logger.Error("Failed to mark notification read", "notification_id", notificationID, "error", err)
		writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type markAllReadResponse struct {
	Updated int64 `json:"updated"`
}

func (s *Server) MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLoggerFromContext(r.Context())

	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	updated, err := s.notifier.MarkAllAsRead(r.Context(), user.ID)
	if err != nil {
		logger.Error("Failed to mark notifications read", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
		return
	}

	writeJSON(w, http.StatusOK, markAllReadResponse{Updated: updated})
}
