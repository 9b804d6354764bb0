package api

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/platewise/staffhub-backend/internal/auth"
	"github.com/platewise/staffhub-backend/internal/middleware"
	"github.com/platewise/staffhub-backend/internal/permissions"
)

// Route-level shorthand for the permission catalog.
const (
	permViewSchedule      = permissions.ViewSchedule
	permEditSchedule      = permissions.EditSchedule
	permViewOwnTasks      = permissions.ViewOwnTasks
	permViewTasks         = permissions.ViewAllTasks
	permEditTasks         = permissions.EditTasks
	permViewOwnTimesheets = permissions.ViewOwnTimesheets
	permViewTimesheets    = permissions.ViewAllTimesheets
	permEditTimesheets    = permissions.EditTimesheets
	permViewEmployees     = permissions.ViewEmployees
	permEditEmployees     = permissions.EditEmployees
	permViewPositions     = permissions.ViewPositions
	permEditPositions     = permissions.EditPositions
	permViewDepartments   = permissions.ViewDepartments
	permEditDepartments   = permissions.EditDepartments
	permViewRestaurants   = permissions.ViewRestaurants
	permEditRestaurants   = permissions.EditRestaurants
	permRequestShiftSwap  = permissions.RequestShiftSwap
	permApproveShiftSwap  = permissions.ApproveShiftSwap
	permSendAnnouncements = permissions.SendAnnouncements
	permViewAnnouncements = permissions.ViewAnnouncements
	permViewReports       = permissions.ViewReports
	permExportReports     = permissions.ExportReports
)

func unauthorizedResponse(w http.ResponseWriter, r *http.Request, reason string) {
	writeError(w, http.StatusUnauthorized, Unauthorized(reason))
}

// currentUser pulls the authenticated principal out of the context, writing
// 401 when the bearer middleware never ran.
func currentUser(w http.ResponseWriter, r *http.Request) (*auth.AuthenticatedUser, bool) {
	user, ok := auth.GetAuthenticatedUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, Unauthorized("Authentication required"))
		return nil, false
	}
	return user, true
}

// restaurantScope parses the restaurantID path param for gated routes.
func restaurantScope(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	return urlUUID(w, r, "restaurantID")
}

// RequirePermission gates a route on a single permission code, evaluated
// against the restaurant named in the URL. A fault in the evaluation is a
// 500, never a silent denial.
func (s *Server) RequirePermission(code permissions.Code) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := currentUser(w, r)
			if !ok {
				return
			}
			restaurantID, ok := restaurantScope(w, r)
			if !ok {
				return
			}

			decision, err := s.engine.CheckPermission(r.Context(), user.ID, &restaurantID, code)
			if err != nil {
				logger := middleware.GetLoggerFromContext(r.Context())
				logger.Error("permission check failed",
					"user_id", user.ID,
					"restaurant_id", restaurantID,
					"permission", code,
					"error", err)
				writeError(w, http.StatusInternalServerError, InternalError("Internal server error"))
				return
			}
			if !decision.Allowed {
				writeError(w, http.StatusForbidden, PermissionDenied("Insufficient permissions").
					WithContext(ErrorContext{
						"permission": string(code),
						"reason":     decision.Reason,
					}))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAnyPermission gates a route on holding at least one of the codes.
func (s *Server) RequireAnyPermission(codes ...permissions.Code) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := currentUser(w, r)
			if !ok {
				return
			}
			restaurantID, ok := restaurantScope(w, r)
			if !ok {
				return
			}

			decision, err := s.engine.CheckAnyPermission(r.Context(), user.ID, &restaurantID, codes)
			if err != nil {
				logger := middleware.GetLoggerFromContext(r.Context())
				logger.Error("permission check failed",
					"user_id", user.ID,
					"restaurant_id", restaurantID,
					"permissions", codes,
					"error", err)
				writeError(w, http.StatusInternalServerError, InternalError("Internal server error"))
				return
			}
			if !decision.Allowed {
				writeError(w, http.StatusForbidden, PermissionDenied("Insufficient permissions").
					WithContext(ErrorContext{
						"reason": decision.Reason,
					}))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// canViewAll reports whether the caller holds the "all" variant of a
// view permission, used by handlers that fall back to own-data listings.
func (s *Server) canViewAll(r *http.Request, userID, restaurantID uuid.UUID, code permissions.Code) (bool, error) {
	decision, err := s.engine.CheckPermission(r.Context(), userID, &restaurantID, code)
	if err != nil {
		return false, err
	}
	return decision.Allowed, nil
}
