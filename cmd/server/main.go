package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"estatedesk-backend/internal/aiservice"
	"estatedesk-backend/internal/config"
	"estatedesk-backend/internal/database"
	"estatedesk-backend/internal/enhancement"
	"estatedesk-backend/internal/handlers"
	"estatedesk-backend/internal/middleware"
	"estatedesk-backend/internal/models"
	"estatedesk-backend/internal/repository"
	"estatedesk-backend/internal/services"
	"estatedesk-backend/internal/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	// Schema first, through the embedded migrations.
	migrator, err := database.NewMigrator(cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to initialize migrator", "error", err)
		os.Exit(1)
	}
	if err := migrator.Run(); err != nil {
		migrator.Close()
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}
	migrator.Close()
	logger.Info("migrations completed")

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close(db)

	objectStore, err := storage.NewSupabaseStorage(cfg.SupabaseURL, cfg.SupabaseServiceKey, cfg.SupabaseStorageBucket)
	if err != nil {
		logger.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}

	aiClient := aiservice.NewClient(cfg.AIServiceAPIURL, cfg.AIServiceAPIKey, cfg.AIServiceWebhookSecret)
	requester := &aiservice.RetryingRequester{Client: aiClient, MaxRetries: 3}

	// Repositories
	imageRepo := repository.NewImageRepository(db)
	propertyRepo := repository.NewPropertyRepository(db)
	inquiryRepo := repository.NewInquiryRepository(db)
	userRepo := repository.NewUserRepository(db)

	// Enhancement workflow and its sweeper
	verifier := enhancement.NewSignatureVerifier(cfg.AIServiceWebhookSecret)
	workflow := enhancement.NewWorkflow(imageRepo, objectStore, requester, verifier, logger)
	sweeper := enhancement.NewSweeper(imageRepo, logger, cfg.SweepInterval, cfg.StuckImageThreshold)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go sweeper.Run(ctx)

	// Services
	authService := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.AccessTokenTTL)
	propertyService := services.NewPropertyService(propertyRepo)
	searchService := services.NewSearchService(propertyRepo, propertyService)
	inquiryService := services.NewInquiryService(inquiryRepo, propertyRepo, logger)
	imageService := services.NewImageService(imageRepo, propertyRepo, objectStore, logger, cfg.MaxFileSizeMB)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	propertyHandler := handlers.NewPropertyHandler(propertyService)
	searchHandler := handlers.NewSearchHandler(searchService)
	inquiryHandler := handlers.NewInquiryHandler(inquiryService)
	imageHandler := handlers.NewImageHandler(imageService, workflow, cfg.BaseURL)
	webhookHandler := handlers.NewWebhookHandler(workflow)

	inquiryLimiter := middleware.NewRateLimiter(cfg.InquiriesPerHour, time.Hour)

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.GET("/health", handlers.HealthHandler)

	api := router.Group("/api/v1")

	// Public routes
	api.POST("/auth/login", authHandler.Login)
	api.GET("/auth/me", middleware.AuthMiddleware(cfg.JWTSecret), authHandler.Me)
	api.GET("/properties/:id", propertyHandler.GetProperty)
	api.POST("/search/guided", searchHandler.GuidedSearch)
	api.POST("/inquiries", inquiryLimiter.Middleware(), inquiryHandler.CreateInquiry)

	// Webhook (no auth, uses HMAC)
	api.POST("/webhooks/ai-enhancement", webhookHandler.HandleEnhancementWebhook)

	// Admin routes
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	admin.Use(middleware.RequireRole(string(models.RoleAdmin), string(models.RoleSuperAdmin)))

	admin.POST("/properties", propertyHandler.CreateProperty)
	admin.GET("/properties/:id", propertyHandler.GetAdminProperty)
	admin.PUT("/properties/:id", propertyHandler.UpdateProperty)
	admin.PATCH("/properties/:id/status", propertyHandler.SetPropertyStatus)
	admin.DELETE("/properties/:id", propertyHandler.DeleteProperty)

	admin.POST("/properties/:id/images", imageHandler.UploadImage)
	admin.DELETE("/images/:image_id", imageHandler.DeleteImage)
	admin.POST("/images/:image_id/enhance", imageHandler.EnhanceImage)

	admin.GET("/inquiries", inquiryHandler.ListInquiries)
	admin.GET("/inquiries/:id", inquiryHandler.GetInquiry)
	admin.PATCH("/inquiries/:id/status", inquiryHandler.UpdateStatus)
	admin.POST("/inquiries/:id/notes", inquiryHandler.UpdateNotes)

	logger.Info("server starting", "port", cfg.Port, "environment", cfg.Environment)
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
