package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/platewise/staffhub-backend/internal/auth"
	"github.com/platewise/staffhub-backend/internal/config"
	chimw "github.com/platewise/staffhub-backend/internal/middleware"
)

type Server struct {
	db            DatabaseService
	engine        PermissionService
	authFlow      AuthFlowService
	jwtService    JWTService
	authenticator *auth.Authenticator
	notifier      NotifierService
	queue         RedisQueueService
	storage       ObjectStorageService
	authCfg       config.AuthConfig
}

func NewServer(
	db DatabaseService,
	engine PermissionService,
	authFlow AuthFlowService,
	jwtService JWTService,
	authenticator *auth.Authenticator,
	notifier NotifierService,
	queue RedisQueueService,
	storage ObjectStorageService,
	authCfg config.AuthConfig,
) *Server {
	return &Server{
		db:            db,
		engine:        engine,
		authFlow:      authFlow,
		jwtService:    jwtService,
		authenticator: authenticator,
		notifier:      notifier,
		queue:         queue,
		storage:       storage,
		authCfg:       authCfg,
	}
}

// Routes builds the full router: public health and auth endpoints, then the
// bearer-gated API surface.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestContext)
	r.Use(chimw.LoggingMiddleware)

	r.Get("/health", s.HealthCheck)
	r.Get("/ready", s.ReadinessCheck)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/otp/request", s.RequestOTP)
		r.Post("/otp/verify", s.VerifyOTP)
		r.Post("/refresh", s.RefreshToken)
		r.Post("/logout", s.Logout)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.authenticator.Middleware(unauthorizedResponse))

		r.Route("/users", func(r chi.Router) {
			r.Get("/me", s.GetCurrentUser)
			r.Put("/me", s.UpdateCurrentUser)
			r.Get("/{userID}", s.GetUserByID)
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", s.ListNotifications)
			r.Get("/unread-count", s.GetUnreadNotificationCount)
			r.Post("/{notificationID}/read", s.MarkNotificationRead)
			r.Post("/read-all", s.MarkAllNotificationsRead)
		})

		r.Route("/restaurants", func(r chi.Router) {
			r.Get("/", s.ListRestaurants)
			r.Post("/", s.CreateRestaurant)

			r.Route("/{restaurantID}", func(r chi.Router) {
				r.Get("/", s.GetRestaurant)
				r.With(s.RequirePermission(permEditRestaurants)).Put("/", s.UpdateRestaurant)
				r.With(s.RequirePermission(permEditRestaurants)).Put("/manager", s.SetRestaurantManager)
				r.Get("/logo", s.GetRestaurantLogo)
				r.With(s.RequirePermission(permEditRestaurants)).Post("/logo", s.UploadRestaurantLogo)
				r.With(s.RequirePermission(permEditRestaurants)).Delete("/logo", s.DeleteRestaurantLogo)
				r.Get("/permissions", s.GetMyRestaurantPermissions)

				r.Route("/employees", func(r chi.Router) {
					r.With(s.RequirePermission(permViewEmployees)).Get("/", s.ListEmployees)
					r.With(s.RequirePermission(permEditEmployees)).Post("/", s.AddEmployee)
					r.With(s.RequirePermission(permEditEmployees)).Put("/{userID}", s.UpdateEmployee)
					r.With(s.RequirePermission(permEditEmployees)).Delete("/{userID}", s.RemoveEmployee)
				})

				r.Route("/departments", func(r chi.Router) {
					r.With(s.RequirePermission(permViewDepartments)).Get("/", s.ListDepartments)
					r.With(s.RequirePermission(permEditDepartments)).Post("/", s.CreateDepartment)
					r.With(s.RequirePermission(permEditDepartments)).Put("/{departmentID}", s.UpdateDepartment)
					r.With(s.RequirePermission(permEditDepartments)).Delete("/{departmentID}", s.DeleteDepartment)
				})

				r.Route("/positions", func(r chi.Router) {
					r.With(s.RequirePermission(permViewPositions)).Get("/", s.ListPositions)
					r.With(s.RequirePermission(permEditPositions)).Post("/", s.CreatePosition)
					r.With(s.RequirePermission(permViewPositions)).Get("/{positionID}", s.GetPosition)
					r.With(s.RequirePermission(permEditPositions)).Put("/{positionID}", s.UpdatePosition)
					r.With(s.RequirePermission(permEditPositions)).Delete("/{positionID}", s.DeletePosition)
					r.With(s.RequirePermission(permViewPositions)).Get("/{positionID}/permissions", s.GetPositionPermissions)
					r.With(s.RequirePermission(permEditPositions)).Put("/{positionID}/permissions", s.ReplacePositionPermissions)
				})

				r.Route("/shifts", func(r chi.Router) {
					r.With(s.RequirePermission(permViewSchedule)).Get("/", s.ListShifts)
					r.With(s.RequirePermission(permViewSchedule)).Get("/{shiftID}", s.GetShift)
					r.With(s.RequirePermission(permEditSchedule)).Post("/", s.CreateShift)
					r.With(s.RequirePermission(permEditSchedule)).Put("/{shiftID}", s.UpdateShift)
					r.With(s.RequirePermission(permEditSchedule)).Delete("/{shiftID}", s.DeleteShift)
					r.With(s.RequirePermission(permRequestShiftSwap)).Post("/{shiftID}/swap-requests", s.CreateSwapRequest)
				})

				r.Route("/swap-requests", func(r chi.Router) {
					r.With(s.RequirePermission(permApproveShiftSwap)).Get("/", s.ListSwapRequests)
					r.With(s.RequirePermission(permApproveShiftSwap)).Post("/{requestID}/resolve", s.ResolveSwapRequest)
				})

				r.Route("/tasks", func(r chi.Router) {
					r.With(s.RequireAnyPermission(permViewTasks, permViewOwnTasks)).Get("/", s.ListTasks)
					r.With(s.RequireAnyPermission(permViewTasks, permViewOwnTasks)).Get("/{taskID}", s.GetTask)
					r.With(s.RequirePermission(permEditTasks)).Post("/", s.CreateTask)
					r.With(s.RequirePermission(permEditTasks)).Put("/{taskID}", s.UpdateTask)
					r.Post("/{taskID}/complete", s.CompleteTask)
					r.With(s.RequirePermission(permEditTasks)).Delete("/{taskID}", s.DeleteTask)
				})

				r.Route("/timesheets", func(r chi.Router) {
					r.With(s.RequireAnyPermission(permViewTimesheets, permViewOwnTimesheets)).Get("/", s.ListTimesheets)
					r.Post("/clock-in", s.ClockIn)
					r.Post("/clock-out", s.ClockOut)
					r.With(s.RequirePermission(permEditTimesheets)).Put("/{timesheetID}", s.UpdateTimesheet)
				})

				r.Route("/announcements", func(r chi.Router) {
					r.With(s.RequirePermission(permViewAnnouncements)).Get("/", s.ListAnnouncements)
					r.With(s.RequirePermission(permSendAnnouncements)).Post("/", s.CreateAnnouncement)
				})

				r.Route("/reports", func(r chi.Router) {
					r.With(s.RequirePermission(permViewReports)).Get("/hours", s.GetHoursReport)
					r.With(s.RequirePermission(permExportReports)).Get("/hours/export", s.ExportHoursReport)
				})
			})
		})
	})

	return r
}
