package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/platewise/staffhub-backend/internal/middleware"
	"github.com/platewise/staffhub-backend/internal/permissions"
	"github.com/platewise/staffhub-backend/internal/store"
)

type taskBody struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	AssigneeID  *uuid.UUID `json:"assignee_id"`
	DueAt       *time.Time `json:"due_at"`
}

// ListTasks returns every task for holders of the broad view permission and
// only the caller's assigned tasks otherwise.
func (s *Server) ListTasks(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLoggerFromContext(r.Context())

	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	restaurantID, ok := restaurantScope(w, r)
	if !ok {
		return
	}

	viewAll, err := s.canViewAll(r, user.ID, restaurantID, permViewTasks)
	if err != nil {
		logger.Error("Failed to resolve task visibility", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
		return
	}

	var tasks []store.Task
	if viewAll {
		tasks, err = s.db.Store().ListTasks(r.Context(), restaurantID)
	} else {
		tasks, err = s.db.Store().ListTasksByAssignee(r.Context(), restaurantID, user.ID)
	}
	if err != nil {
		logger.Error("Failed to list tasks", "restaurant_id", restaurantID, "error", err)
		writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
		return
	}

	writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) CreateTask(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLoggerFromContext(r.Context())

	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	restaurantID, ok := restaurantScope(w, r)
	if !ok {
		return
	}

	var body taskBody
	if err := decodeJSON(r, &body); err != nil || body.Title == "" {
		writeError(w, http.StatusBadRequest, ValidationErr("title is required", []ErrorDetail{
			{Field: "title", Message: "must be non-empty"},
		}))
		return
	}

	task, err := s.db.Store().CreateTask(r.Context(), restaurantID, user.ID, body.AssigneeID, body.Title, body.Description, body.DueAt)
	if err != nil {
		logger.Error("Failed to create task", "restaurant_id", restaurantID, "error", err)
		writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
		return
	}

	writeJSON(w, http.StatusCreated, task)
}

func (s *Server) GetTask(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLoggerFromContext(r.Context())

	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	restaurantID, ok := restaurantScope(w, r)
	if !ok {
		return
	}
	taskID, ok := urlUUID(w, r, "taskID")
	if !ok {
		return
	}

	task, err := s.db.Store().GetTask(r.Context(), restaurantID, taskID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, NotFoundErr("Task"))
		return
	}
	if err != nil {
		logger.Error("Failed to get task", "task_id", taskID, "error", err)
		writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
		return
	}

	// Without the broad view permission a task is only visible to its
	// own assignee.
	if task.AssigneeID == nil || !permissions.IsDataOwner(user.ID, *task.AssigneeID) {
		viewAll, err := s.canViewAll(r, user.ID, restaurantID, permViewTasks)
		if err != nil {
			logger.Error("Failed to resolve task visibility", "user_id", user.ID, "error", err)
			writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
			return
		}
		if !viewAll {
			writeError(w, http.StatusNotFound, NotFoundErr("Task"))
			return
		}
	}

	writeJSON(w, http.StatusOK, task)
}

func (s *Server) UpdateTask(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLoggerFromContext(r.Context())

	restaurantID, ok := restaurantScope(w, r)
	if !ok {
		return
	}
	taskID, ok := urlUUID(w, r, "taskID")
	if !ok {
		return
	}

	var body taskBody
	if err := decodeJSON(r, &body); err != nil || body.Title == "" {
		writeError(w, http.StatusBadRequest, ValidationErr("title is required", nil))
		return
	}

	task, err := s.db.Store().UpdateTask(r.Context(), restaurantID, taskID, body.AssigneeID, body.Title, body.Description, body.DueAt)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, NotFoundErr("Task"))
		return
	}
	if err != nil {
		logger.Error("Failed to update task", "task_id", taskID, "error", err)
		writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
		return
	}

	writeJSON(w, http.StatusOK, task)
}

// CompleteTask is available to the task's assignee as well as anyone holding
// the edit permission.
func (s *Server) CompleteTask(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLoggerFromContext(r.Context())

	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	restaurantID, ok := restaurantScope(w, r)
	if !ok {
		return
	}
	taskID, ok := urlUUID(w, r, "taskID")
	if !ok {
		return
	}

	task, err := s.db.Store().GetTask(r.Context(), restaurantID, taskID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, NotFoundErr("Task"))
		return
	}
	if err != nil {
		logger.Error("Failed to get task", "task_id", taskID, "error", err)
		writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
		return
	}

	isAssignee := task.AssigneeID != nil && permissions.IsDataOwner(user.ID, *task.AssigneeID)
	if !isAssignee {
		decision, err := s.engine.CheckPermission(r.Context(), user.ID, &restaurantID, permEditTasks)
		if err != nil {
			logger.Error("Permission check failed", "user_id", user.ID, "error", err)
			writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
			return
		}
		if !decision.Allowed {
			writeError(w, http.StatusForbidden, PermissionDenied("Only the assignee or a task editor can complete a task"))
			return
		}
	}

	task, err = s.db.Store().CompleteTask(r.Context(), restaurantID, taskID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, NotFoundErr("Task"))
		return
	}
	if err != nil {
		logger.Error("Failed to complete task", "task_id", taskID, "error", err)
		writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
		return
	}

	writeJSON(w, http.StatusOK, task)
}

func (s *Server) DeleteTask(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLoggerFromContext(r.Context())

	restaurantID, ok := restaurantScope(w, r)
	if !ok {
		return
	}
	taskID, ok := urlUUID(w, r, "taskID")
	if !ok {
		return
	}

	err := s.db.Store().DeleteTask(r.Context(), restaurantID, taskID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, NotFoundErr("Task"))
		return
	}
	if err != nil {
		logger.Error("Failed to delete task", "task_id", taskID, "error", err)
		writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
