package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mpopescu/atelier-api/internal/config"
	domainRepo "github.com/mpopescu/atelier-api/internal/domain/repository"
	"github.com/mpopescu/atelier-api/internal/presentation/http/handler"
	"github.com/mpopescu/atelier-api/internal/presentation/http/middleware"
	"github.com/mpopescu/atelier-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth         *handler.AuthHandler
	Organization *handler.OrganizationHandler
	Customer     *handler.CustomerHandler
	Vehicle      *handler.VehicleHandler
	Appointment  *handler.AppointmentHandler
	Operation    *handler.OperationHandler
	Job          *handler.JobHandler
	NetLedger    *handler.NetLedgerHandler
	Report       *handler.ReportHandler
	Attachment   *handler.AttachmentHandler
	Intake       *handler.IntakeHandler
	User         *handler.UserHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	OrgRepo         domainRepo.OrganizationRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		registerAuthRoutes(v1, h)

		// Signed downloads carry their authorization in the token
		v1.GET("/files/download", h.Attachment.Download)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		protected.Use(middleware.OrganizationMiddleware(deps.OrgRepo))

		// Per-organization rate limiter
		rateLimiter := middleware.NewOrgRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/register", h.Auth.Register)
		auth.POST("/refresh", h.Auth.RefreshToken)
		auth.POST("/forgot-password", h.Auth.ForgotPassword)
		auth.POST("/reset-password", h.Auth.ResetPassword)
		// Google OAuth routes
		auth.GET("/google", h.Auth.GoogleAuth)
		auth.GET("/google/callback", h.Auth.GoogleCallback)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	// Auth/Profile routes
	protected.POST("/auth/logout", h.Auth.Logout)
	protected.GET("/profile", h.Auth.GetProfile)
	protected.PUT("/profile", h.Auth.UpdateProfile)
	protected.PUT("/profile/password", h.Auth.ChangePassword)

	// Dashboard
	protected.GET("/dashboard", middleware.RequirePermission("view-dashboard"), h.Report.Dashboard)

	// Front-desk intake opens jobs, so it rides on the jobs permission
	protected.POST("/intake", middleware.RequirePermission("manage-jobs"), h.Intake.Intake)

	// Organizations
	registerOrganizationRoutes(protected, h)

	// Customers
	registerCustomerRoutes(protected, h)

	// Vehicles
	registerVehicleRoutes(protected, h)

	// Appointments
	registerAppointmentRoutes(protected, h)

	// Operation catalog
	registerOperationRoutes(protected, h)

	// Jobs
	registerJobRoutes(protected, h, deps)

	// Net ledger
	registerNetLedgerRoutes(protected, h)

	// Reports
	registerReportRoutes(protected, h)

	// Attachments
	registerAttachmentRoutes(protected, h)

	// Users (Admin)
	registerUserRoutes(protected, h)

	// Roles (Admin)
	registerRoleRoutes(protected, h)

	// Permissions (Admin)
	registerPermissionRoutes(protected, h)
}

func registerOrganizationRoutes(protected *gin.RouterGroup, h *Handlers) {
	orgs := protected.Group("/organizations")
	{
		// Any authenticated user can create a shop or list their memberships
		orgs.GET("", h.Organization.ListMine)
		orgs.POST("", h.Organization.Create)
		orgs.GET("/current", h.Organization.GetCurrent)
		orgs.GET("/current/members", h.Organization.ListMembers)

		manage := orgs.Group("")
		manage.Use(middleware.RequirePermission("manage-organization"))
		{
			manage.PUT("/current", h.Organization.UpdateCurrent)
			manage.DELETE("/current", h.Organization.DeleteCurrent)
			manage.PUT("/current/settings", h.Organization.UpdateSettings)
			manage.POST("/current/members", h.Organization.InviteMember)
			manage.PUT("/current/members/:user_id", h.Organization.UpdateMemberRole)
			manage.DELETE("/current/members/:user_id", h.Organization.RemoveMember)
		}
	}
}

func registerCustomerRoutes(protected *gin.RouterGroup, h *Handlers) {
	customers := protected.Group("/customers")
	customers.Use(middleware.RequirePermission("manage-customers"))
	{
		customers.GET("", h.Customer.List)
		customers.POST("", h.Customer.Create)
		customers.GET("/:id", h.Customer.Get)
		customers.PUT("/:id", h.Customer.Update)
		customers.DELETE("/:id", h.Customer.Delete)
		customers.GET("/:id/vehicles", h.Customer.ListVehicles)
	}
}

func registerVehicleRoutes(protected *gin.RouterGroup, h *Handlers) {
	vehicles := protected.Group("/vehicles")
	vehicles.Use(middleware.RequirePermission("manage-vehicles"))
	{
		vehicles.GET("", h.Vehicle.List)
		vehicles.POST("", h.Vehicle.Create)
		vehicles.GET("/by-plate", h.Vehicle.GetByPlate)
		vehicles.GET("/:id", h.Vehicle.Get)
		vehicles.PUT("/:id", h.Vehicle.Update)
		vehicles.DELETE("/:id", h.Vehicle.Delete)
	}
}

func registerAppointmentRoutes(protected *gin.RouterGroup, h *Handlers) {
	appointments := protected.Group("/appointments")
	appointments.Use(middleware.RequirePermission("manage-appointments"))
	{
		appointments.GET("", h.Appointment.List)
		appointments.POST("", h.Appointment.Create)
		appointments.GET("/calendar", h.Appointment.Calendar)
		appointments.GET("/:id", h.Appointment.Get)
		appointments.PUT("/:id", h.Appointment.Update)
		appointments.DELETE("/:id", h.Appointment.Delete)
		appointments.PUT("/:id/status", h.Appointment.UpdateStatus)
	}
}

func registerOperationRoutes(protected *gin.RouterGroup, h *Handlers) {
	operations := protected.Group("/operations")
	operations.Use(middleware.RequirePermission("manage-operations"))
	{
		operations.GET("", h.Operation.List)
		operations.POST("", h.Operation.Create)
		operations.GET("/categories", h.Operation.Categories)
		operations.GET("/:id", h.Operation.Get)
		operations.PUT("/:id", h.Operation.Update)
		operations.DELETE("/:id", h.Operation.Delete)
		operations.POST("/:id/deactivate", h.Operation.Deactivate)
	}
}

func registerJobRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	// Opening a job from an appointment needs the jobs permission, not
	// the calendar one
	protected.POST("/appointments/:id/job", middleware.RequirePermission("manage-jobs"), h.Appointment.SpawnJob)

	jobs := protected.Group("/jobs")
	jobs.Use(middleware.RequirePermission("manage-jobs"))
	{
		jobs.GET("", h.Job.List)
		// Job creation uses idempotency middleware to prevent duplicates
		jobs.POST("", middleware.IdempotencyRequired(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		}), h.Job.Create)
		jobs.GET("/:id", h.Job.Get)
		jobs.PUT("/:id", h.Job.Update)
		jobs.DELETE("/:id", h.Job.Delete)
		jobs.PUT("/:id/progress", h.Job.UpdateProgress)
		jobs.GET("/:id/history", h.Job.History)
		jobs.POST("/:id/pay", h.Job.Pay)
		jobs.POST("/:id/advance", h.Job.Advance)
		jobs.POST("/:id/items", h.Job.AddItem)
		jobs.PUT("/:id/items", h.Job.ReorderItems)
		jobs.PUT("/:id/items/:itemID", h.Job.UpdateItem)
		jobs.DELETE("/:id/items/:itemID", h.Job.RemoveItem)
	}
}

func registerNetLedgerRoutes(protected *gin.RouterGroup, h *Handlers) {
	// The net ledger has its own permission so margins stay off-limits
	// for roles that otherwise work on jobs
	net := protected.Group("/jobs/:id/net")
	net.Use(middleware.RequirePermission("manage-net"))
	{
		net.GET("", h.NetLedger.Get)
		net.POST("", h.NetLedger.AddItem)
		net.PUT("/:itemID", h.NetLedger.UpdateItem)
		net.DELETE("/:itemID", h.NetLedger.DeleteItem)
		net.POST("/import-labor", h.NetLedger.ImportLabor)
		net.POST("/import-parts", h.NetLedger.ImportParts)
	}
}

func registerReportRoutes(protected *gin.RouterGroup, h *Handlers) {
	reports := protected.Group("/reports")
	reports.Use(middleware.RequirePermission("view-reports"))
	{
		reports.GET("/summary", h.Report.Summary)
		reports.GET("/daily", h.Report.Daily)
		reports.GET("/export", h.Report.Export)
	}
}

func registerAttachmentRoutes(protected *gin.RouterGroup, h *Handlers) {
	attachments := protected.Group("/attachments")
	attachments.Use(middleware.RequirePermission("manage-attachments"))
	{
		attachments.GET("", h.Attachment.List)
		attachments.POST("", h.Attachment.Upload)
		attachments.GET("/:id/url", h.Attachment.GetSignedURL)
		attachments.DELETE("/:id", h.Attachment.Delete)
	}
}

func registerUserRoutes(protected *gin.RouterGroup, h *Handlers) {
	users := protected.Group("/users")
	users.Use(middleware.RequirePermission("manage-users"))
	{
		users.GET("", h.User.List)
		users.GET("/:id", h.User.Get)
		users.PUT("/:id/roles", h.User.UpdateRoles)
		users.DELETE("/:id", h.User.Delete)
	}
}

func registerRoleRoutes(protected *gin.RouterGroup, h *Handlers) {
	roles := protected.Group("/roles")
	roles.Use(middleware.RequirePermission("manage-users"))
	{
		roles.GET("", h.User.ListRoles)
		roles.GET("/:id", h.User.GetRole)
		roles.PUT("/:id/permissions", h.User.UpdateRolePermissions)
	}
}

func registerPermissionRoutes(protected *gin.RouterGroup, h *Handlers) {
	permissions := protected.Group("/permissions")
	permissions.Use(middleware.RequirePermission("manage-users"))
	{
		permissions.GET("", h.User.ListPermissions)
	}
}
