package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/yoonsu/baedalgo-backend/config"
	"github.com/yoonsu/baedalgo-backend/internal/app/controller"
	"github.com/yoonsu/baedalgo-backend/internal/app/repository"
	"github.com/yoonsu/baedalgo-backend/internal/app/service"
	"github.com/yoonsu/baedalgo-backend/internal/db"
	"github.com/yoonsu/baedalgo-backend/internal/middleware"
	"github.com/yoonsu/baedalgo-backend/internal/router"
	"github.com/yoonsu/baedalgo-backend/internal/scheduler"
	"github.com/yoonsu/baedalgo-backend/internal/storage"
	"github.com/yoonsu/baedalgo-backend/internal/websocket"
	"github.com/yoonsu/baedalgo-backend/pkg/logger"
	"github.com/yoonsu/baedalgo-backend/pkg/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // "json" for production
		EnableColor: true,
	})

	logger.Info("Starting BAEDALGO Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	if err := db.Seed(); err != nil {
		logger.Warn("Failed to seed database", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Redis backs the token blacklist and the dashboard pending count;
	// the server still runs without it
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Warn("Redis unavailable, continuing without token blacklist and caching", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		defer func() {
			if err := redis.Close(); err != nil {
				logger.Error("Failed to close Redis connection", err)
			}
		}()
	}

	// Verification event feed for the admin dashboard
	hub := websocket.NewHub()
	go hub.Run()

	// Repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	restaurantRepo := repository.NewRestaurantRepository(db.GetDB())

	// Services
	authService := service.NewAuthService(
		userRepo,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	userService := service.NewUserService(userRepo)
	restaurantService := service.NewRestaurantService(restaurantRepo)
	verificationService := service.NewVerificationService(restaurantRepo, hub)

	// S3 storage for document and image uploads
	s3Storage := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)

	// Controllers
	authController := controller.NewAuthController(authService)
	userController := controller.NewUserController(userService)
	restaurantController := controller.NewRestaurantController(restaurantService)
	verificationController := controller.NewVerificationController(verificationService)
	uploadController := controller.NewUploadController(s3Storage)
	eventsController := controller.NewEventsController(hub)

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Nightly document expiry sweep
	expiryScheduler := scheduler.NewDocumentExpiryScheduler(verificationService)
	if err := expiryScheduler.Start(); err != nil {
		logger.Fatal("Failed to start document expiry scheduler", err)
	}
	defer expiryScheduler.Stop()

	r := router.NewRouter(
		authController,
		userController,
		restaurantController,
		verificationController,
		uploadController,
		eventsController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
