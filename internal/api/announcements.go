package api

import (
	"net/http"

	"github.com/platewise/staffhub-backend/internal/middleware"
	"github.com/platewise/staffhub-backend/internal/notifications"
)

func (s *Server) ListAnnouncements(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLoggerFromContext(r.Context())

	restaurantID, ok := restaurantScope(w, r)
	if !ok {
		return
	}
	limit, offset := parsePagination(r)

	announcements, err := s.db.Store().ListAnnouncements(r.Context(), restaurantID, limit, offset)
	if err != nil {
		logger.Error("Failed to list announcements", "restaurant_id", restaurantID, "error", err)
		writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
		return
	}

	writeJSON(w, http.StatusOK, announcements)
}

type announcementBody struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// CreateAnnouncement persists the announcement and fans it out to every
// active member of the restaurant. Fan-out failures are logged, not surfaced.
func (s *Server) CreateAnnouncement(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLoggerFromContext(r.Context())

	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	restaurantID, ok := restaurantScope(w, r)
	if !ok {
		return
	}

	var body announcementBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, ValidationErr("Invalid request body", nil))
		return
	}
	var details []ErrorDetail
	if body.Title == "" {
		details = append(details, ErrorDetail{Field: "title", Message: "must be non-empty"})
	}
	if body.Body == "" {
		details = append(details, ErrorDetail{Field: "body", Message: "must be non-empty"})
	}
	if len(details) > 0 {
		writeError(w, http.StatusBadRequest, ValidationErr("Invalid announcement", details))
		return
	}

	announcement, err := s.db.Store().CreateAnnouncement(r.Context(), restaurantID, user.ID, body.Title, body.Body)
	if err != nil {
		logger.Error("Failed to create announcement", "restaurant_id", restaurantID, "error", err)
		writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
		return
	}

	if memberIDs, err := s.db.Store().ListActiveMemberIDs(r.Context(), restaurantID); err != nil {
		logger.Error("Failed to list members for announcement fan-out", "restaurant_id", restaurantID, "error", err)
	} else if restaurant, err := s.db.Store().GetRestaurantByID(r.Context(), restaurantID); err != nil {
		logger.Error("Failed to load restaurant for announcement fan-out", "restaurant_id", restaurantID, "error", err)
	} else {
		err := s.notifier.Notify(r.Context(), user.ID,
			notifications.EntityAnnouncement, announcement.ID,
			announcement.Title, announcement.Body,
			[]notifications.NotifierGroup{{
				IDs:      memberIDs,
				Template: notifications.TemplateAnnouncement,
				TemplateData: map[string]interface{}{
					"RestaurantName": restaurant.Name,
					"Title":          announcement.Title,
					"Body":           announcement.Body,
				},
			}})
		if err != nil {
			logger.Error("Failed to fan out announcement", "announcement_id", announcement.ID, "error", err)
		}
	}

	writeJSON(w, http.StatusCreated, announcement)
}
