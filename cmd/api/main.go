package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/mpopescu/atelier-api/internal/application/service"
	"github.com/mpopescu/atelier-api/internal/config"
	"github.com/mpopescu/atelier-api/internal/infrastructure/database"
	"github.com/mpopescu/atelier-api/internal/infrastructure/repository"
	"github.com/mpopescu/atelier-api/internal/infrastructure/storage"
	"github.com/mpopescu/atelier-api/internal/presentation/http/handler"
	"github.com/mpopescu/atelier-api/internal/presentation/http/routes"
	"github.com/mpopescu/atelier-api/pkg/email"
	"github.com/mpopescu/atelier-api/pkg/oauth"
	"github.com/mpopescu/atelier-api/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed default data
	if err := database.SeedDefaultData(db); err != nil {
		log.Printf("Warning: Failed to seed default data: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	permissionRepo := repository.NewPermissionRepository(db)
	passwordResetRepo := repository.NewPasswordResetTokenRepository(db)
	orgRepo := repository.NewOrganizationRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	vehicleRepo := repository.NewVehicleRepository(db)
	appointmentRepo := repository.NewAppointmentRepository(db)
	operationRepo := repository.NewOperationRepository(db)
	jobRepo := repository.NewJobRepository(db)
	jobItemRepo := repository.NewJobItemRepository(db)
	progressRepo := repository.NewJobProgressEventRepository(db)
	netItemRepo := repository.NewJobNetItemRepository(db)
	attachmentRepo := repository.NewAttachmentRepository(db)
	reportRepo := repository.NewReportRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Initialize email service
	emailService := email.NewEmailService(email.EmailConfig{
		SMTPHost:     cfg.Email.SMTPHost,
		SMTPPort:     cfg.Email.SMTPPort,
		SMTPUsername: cfg.Email.SMTPUsername,
		SMTPPassword: cfg.Email.SMTPPassword,
		FromName:     cfg.Email.FromName,
		FromEmail:    cfg.Email.FromEmail,
		FrontendURL:  cfg.Email.FrontendURL,
	})

	// Initialize Google OAuth service
	googleOAuthService := oauth.NewGoogleOAuthService(oauth.GoogleOAuthConfig{
		ClientID:           cfg.OAuth.GoogleClientID,
		ClientSecret:       cfg.OAuth.GoogleClientSecret,
		RedirectURL:        cfg.OAuth.GoogleRedirectURL,
		FrontendSuccessURL: cfg.OAuth.FrontendSuccessURL,
		FrontendErrorURL:   cfg.OAuth.FrontendErrorURL,
	})

	// Initialize file storage
	store, err := storage.NewLocalStorage(cfg.Storage.Path)
	if err != nil {
		log.Fatalf("Failed to initialize file storage: %v", err)
	}

	// Initialize services
	authService := service.NewAuthService(userRepo, roleRepo, passwordResetRepo, jwtManager, emailService, googleOAuthService)
	orgService := service.NewOrganizationService(orgRepo, userRepo)
	customerService := service.NewCustomerService(customerRepo)
	vehicleService := service.NewVehicleService(vehicleRepo, customerRepo)
	appointmentService := service.NewAppointmentService(appointmentRepo, customerRepo, vehicleRepo, orgRepo, emailService)
	operationService := service.NewOperationService(operationRepo)
	jobService := service.NewJobService(jobRepo, jobItemRepo, progressRepo, customerRepo, vehicleRepo, appointmentRepo, operationRepo, orgRepo)
	netLedgerService := service.NewNetLedgerService(netItemRepo, jobRepo, orgRepo)
	reportService := service.NewReportService(reportRepo, orgRepo, cfg.Report.DefaultTimezone)
	reportExportService := service.NewReportExportService(reportService)
	attachmentService := service.NewAttachmentService(attachmentRepo, jobRepo, store, jwtManager, cfg.Storage.UploadMaxSize, cfg.Storage.SignedURLTTL)
	intakeService := service.NewIntakeService(customerService, vehicleService, appointmentService, jobService)
	userService := service.NewUserService(userRepo, roleRepo, permissionRepo)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:         handler.NewAuthHandler(authService, googleOAuthService),
		Organization: handler.NewOrganizationHandler(orgService),
		Customer:     handler.NewCustomerHandler(customerService, vehicleService),
		Vehicle:      handler.NewVehicleHandler(vehicleService),
		Appointment:  handler.NewAppointmentHandler(appointmentService, jobService),
		Operation:    handler.NewOperationHandler(operationService),
		Job:          handler.NewJobHandler(jobService),
		NetLedger:    handler.NewNetLedgerHandler(netLedgerService),
		Report:       handler.NewReportHandler(reportService, reportExportService),
		Attachment:   handler.NewAttachmentHandler(attachmentService),
		Intake:       handler.NewIntakeHandler(intakeService),
		User:         handler.NewUserHandler(userService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		OrgRepo:         orgRepo,
	})

	// Get port from environment or use default
	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s", cfg.App.Env)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
		os.Exit(1)
	}
}
