package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/platewise/staffhub-backend/internal/image"
	"github.com/platewise/staffhub-backend/internal/middleware"
	"github.com/platewise/staffhub-backend/internal/permissions"
	"github.com/platewise/staffhub-backend/internal/store"
)

func (s *Server) ListRestaurants(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLoggerFromContext(r.Context())

	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	decision, err := s.engine.CheckPermission(r.Context(), user.ID, nil, permViewRestaurants)
	if err != nil {
		logger.Error("permission check failed", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, InternalError("Internal server error"))
		return
	}
	if !decision.Allowed {
		writeError(w, http.StatusForbidden, PermissionDenied("Insufficient permissions"))
		return
	}

	restaurants, err := s.db.Store().ListRestaurants(r.Context())
	if err != nil {
		logger.Error("Failed to list restaurants", "error", err)
		writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
		return
	}

	writeJSON(w, http.StatusOK, restaurants)
}

type restaurantBody struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// CreateRestaurant is reserved for OWNER/ADMIN: creation has no restaurant
// scope, so EDIT_RESTAURANTS without context only passes the role bypass.
func (s *Server) CreateRestaurant(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLoggerFromContext(r.Context())

	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	decision, err := s.engine.CheckPermission(r.Context(), user.ID, nil, permEditRestaurants)
	if err != nil {
		logger.Error("permission check failed", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, InternalError("Internal server error"))
		return
	}
	if !decision.Allowed {
		writeError(w, http.StatusForbidden, PermissionDenied("Insufficient permissions"))
		return
	}

	var body restaurantBody
	if err := decodeJSON(r, &body); err != nil || body.Name == "" {
		writeError(w, http.StatusBadRequest, ValidationErr("name is required", []ErrorDetail{
			{Field: "name", Message: "must be non-empty"},
		}))
		return
	}

	restaurant, err := s.db.Store().CreateRestaurant(r.Context(), body.Name, body.Address, body.Phone)
	if err != nil {
		logger.Error("Failed to create restaurant", "error", err)
		writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
		return
	}

	writeJSON(w, http.StatusCreated, restaurant)
}

func (s *Server) GetRestaurant(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLoggerFromContext(r.Context())

	if _, ok := currentUser(w, r); !ok {
		return
	}
	restaurantID, ok := restaurantScope(w, r)
	if !ok {
		return
	}

	restaurant, err := s.db.Store().GetRestaurantByID(r.Context(), restaurantID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, NotFoundErr("Restaurant"))
		return
	}
	if err != nil {
		logger.Error("Failed to get restaurant", "restaurant_id", restaurantID, "error", err)
		writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
		return
	}

	writeJSON(w, http.StatusOK, restaurant)
}

func (s *Server) UpdateRestaurant(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLoggerFromContext(r.Context())

	restaurantID, ok := restaurantScope(w, r)
	if !ok {
		return
	}

	var body restaurantBody
	if err := decodeJSON(r, &body); err != nil || body.Name == "" {
		writeError(w, http.StatusBadRequest, ValidationErr("name is required", nil))
		return
	}

	restaurant, err := s.db.Store().UpdateRestaurant(r.Context(), restaurantID, body.Name, body.Address, body.Phone)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, NotFoundErr("Restaurant"))
		return
	}
	if err != nil {
		logger.Error("Failed to update restaurant", "restaurant_id", restaurantID, "error", err)
		writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
		return
	}

	writeJSON(w, http.StatusOK, restaurant)
}

type setManagerBody struct {
	ManagerID *uuid.UUID `json:"manager_id"`
}

// SetRestaurantManager assigns or clears the restaurant's manager. A null
// manager_id clears the assignment.
func (s *Server) SetRestaurantManager(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLoggerFromContext(r.Context())

	restaurantID, ok := restaurantScope(w, r)
	if !ok {
		return
	}

	var body setManagerBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, ValidationErr("Invalid request body", nil))
		return
	}

	if body.ManagerID != nil {
		if _, err := s.db.Store().GetUserByID(r.Context(), *body.ManagerID); err != nil {
			writeError(w, http.StatusNotFound, NotFoundErr("User"))
			return
		}
	}

	restaurant, err := s.db.Store().SetRestaurantManager(r.Context(), restaurantID, body.ManagerID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, NotFoundErr("Restaurant"))
		return
	}
	if err != nil {
		logger.Error("Failed to set restaurant manager", "restaurant_id", restaurantID, "error", err)
		writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
		return
	}

	writeJSON(w, http.StatusOK, restaurant)
}

type logoResponse struct {
	LogoURL string `json:"logo_url"`
}

// UploadRestaurantLogo accepts a multipart "logo" file, validates and
// thumbnails it, and stores both renditions in object storage.
func (s *Server) UploadRestaurantLogo(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLoggerFromContext(r.Context())

	restaurantID, ok := restaurantScope(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(image.MaxLogoBytes); err != nil {
		writeError(w, http.StatusBadRequest, ValidationErr("Invalid multipart form", nil))
		return
	}

	file, header, err := r.FormFile("logo")
	if err != nil {
		writeError(w, http.StatusBadRequest, ValidationErr("logo file is required", []ErrorDetail{
			{Field: "logo", Message: "must be a jpeg or png upload"},
		}))
		return
	}
	defer file.Close()

	processed, err := image.ProcessLogo(file, header)
	if err != nil {
		writeError(w, http.StatusBadRequest, ValidationErr(err.Error(), nil))
		return
	}
	if !image.IsSquare(processed.Width, processed.Height) {
		logger.Warn("Logo is not square, thumbnail will crop",
			"restaurant_id", restaurantID, "width", processed.Width, "height", processed.Height)
	}

	key := fmt.Sprintf("restaurants/%s/logo", restaurantID)
	if err := s.storage.PutObject(r.Context(), key, bytes.NewReader(processed.Original), processed.ContentType); err != nil {
		logger.Error("Failed to store logo", "restaurant_id", restaurantID, "error", err)
		writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
		return
	}
	if err := s.storage.PutObject(r.Context(), key+"-thumb", bytes.NewReader(processed.Thumbnail), processed.ContentType); err != nil {
		logger.Error("Failed to store logo thumbnail", "restaurant_id", restaurantID, "error", err)
		writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
		return
	}

	if err := s.db.Store().SetRestaurantLogoKey(r.Context(), restaurantID, key); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, NotFoundErr("Restaurant"))
			return
		}
		logger.Error("Failed to record logo key", "restaurant_id", restaurantID, "error", err)
		writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
		return
	}

	url, err := s.storage.GeneratePresignedURL(r.Context(), http.MethodGet, key, 15*time.Minute)
	if err != nil {
		logger.Error("Failed to presign logo URL", "restaurant_id", restaurantID, "error", err)
		writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
		return
	}

	writeJSON(w, http.StatusOK, logoResponse{LogoURL: url})
}

// GetRestaurantLogo streams the stored logo. ?thumb=1 serves the thumbnail
// rendition instead of the original.
func (s *Server) GetRestaurantLogo(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLoggerFromContext(r.Context())

	if _, ok := currentUser(w, r); !ok {
		return
	}
	restaurantID, ok := restaurantScope(w, r)
	if !ok {
		return
	}

	restaurant, err := s.db.Store().GetRestaurantByID(r.Context(), restaurantID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, NotFoundErr("Restaurant"))
		return
	}
	if err != nil {
		logger.Error("Failed to get restaurant", "restaurant_id", restaurantID, "error", err)
		writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
		return
	}
	if restaurant.LogoKey == nil || *restaurant.LogoKey == "" {
		writeError(w, http.StatusNotFound, NotFoundErr("Logo"))
		return
	}

	key := *restaurant.LogoKey
	if r.URL.Query().Get("thumb") == "1" {
		key += "-thumb"
	}

	body, contentType, err := s.storage.GetObject(r.Context(), key)
	if err != nil {
		logger.Error("Failed to fetch logo", "restaurant_id", restaurantID, "key", key, "error", err)
		writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
		return
	}
	defer body.Close()

	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, body); err != nil {
		logger.Error("Failed to stream logo", "restaurant_id", restaurantID, "key", key, "error", err)
	}
}

// DeleteRestaurantLogo removes both stored renditions and clears the
// restaurant's logo key.
func (s *Server) DeleteRestaurantLogo(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLoggerFromContext(r.Context())

	restaurantID, ok := restaurantScope(w, r)
	if !ok {
		return
	}

	restaurant, err := s.db.Store().GetRestaurantByID(r.Context(), restaurantID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, NotFoundErr("Restaurant"))
		return
	}
	if err != nil {
		logger.Error("Failed to get restaurant", "restaurant_id", restaurantID, "error", err)
		writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
		return
	}
	if restaurant.LogoKey == nil || *restaurant.LogoKey == "" {
		writeError(w, http.StatusNotFound, NotFoundErr("Logo"))
		return
	}

	key := *restaurant.LogoKey
	if err := s.storage.DeleteObject(r.Context(), key); err != nil {
		logger.Error("Failed to delete logo", "restaurant_id", restaurantID, "key", key, "error", err)
		writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
		return
	}
	// An orphaned thumbnail is harmless; don't fail the request over it.
	if err := s.storage.DeleteObject(r.Context(), key+"-thumb"); err != nil {
		logger.Error("Failed to delete logo thumbnail", "restaurant_id", restaurantID, "key", key, "error", err)
	}

	if err := s.db.Store().ClearRestaurantLogoKey(r.Context(), restaurantID); err != nil {
		logger.Error("Failed to clear logo key", "restaurant_id", restaurantID, "error", err)
		writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type permissionsResponse struct {
	Permissions []permissions.Code `json:"permissions"`
}

// GetMyRestaurantPermissions enumerates the caller's effective permission set
// for the restaurant, so clients can shape their UI in one round trip.
func (s *Server) GetMyRestaurantPermissions(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLoggerFromContext(r.Context())

	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	restaurantID, ok := restaurantScope(w, r)
	if !ok {
		return
	}

	codes, err := s.engine.GetUserPermissions(r.Context(), user.ID, restaurantID)
	if err != nil {
		logger.Error("Failed to enumerate permissions", "user_id", user.ID, "restaurant_id", restaurantID, "error", err)
		writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
		return
	}

	writeJSON(w, http.StatusOK, permissionsResponse{Permissions: codes})
}
