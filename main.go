package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/amosov/userdir/src/config"
	"github.com/amosov/userdir/src/database"
	"github.com/amosov/userdir/src/handlers"
	"github.com/amosov/userdir/src/logging"
	"github.com/amosov/userdir/src/middleware"
	"github.com/amosov/userdir/src/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize structured logging
	logging.Setup(logging.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	log.Info().
		Int("port", cfg.Port).
		Str("log_level", cfg.LogLevel).
		Msg("starting server")

	// Initialize database
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	db, err := database.New(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer db.Close()

	log.Info().Msg("database connected")

	// Initialize JWT secret in middleware
	if err := middleware.SetJWTSecret(cfg.JWTSecret); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize JWT secret")
	}

	// Initialize services
	adminService := services.NewAdminService(db.GetPool())
	userService := services.NewUserService(db.GetPool())

	emailService := services.NewEmailService(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom)
	if emailService != nil {
		log.Info().Str("host", cfg.SMTPHost).Int("smtp_port", cfg.SMTPPort).Msg("SMTP email service initialized")
	} else {
		log.Warn().Msg("SMTP_HOST not configured - email delivery disabled")
	}

	notifier, err := services.NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramChatID)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telegram notifier")
	}
	if notifier != nil {
		log.Info().Int64("chat_id", cfg.TelegramChatID).Msg("telegram notifier initialized")
	} else {
		log.Warn().Msg("TELEGRAM_TOKEN or TELEGRAM_CHAT_ID not configured - channel notifications disabled")
	}

	// Create Gin router
	router := gin.New()

	// Add middleware
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost", fmt.Sprintf("http://localhost:%d", cfg.Port)}
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	// Setup routes
	setupRoutes(router, db, adminService, userService, emailService, notifier)

	// Create HTTP server with timeouts
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().Int("port", cfg.Port).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	sig := <-sigChan

	log.Info().Str("signal", sig.String()).Msg("received shutdown signal")

	// Graceful shutdown with timeout
	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}

	log.Info().Msg("server shut down successfully")
}

func setupRoutes(router *gin.Engine, db *database.Database, adminService *services.AdminService, userService *services.UserService, emailService *services.EmailService, notifier *services.TelegramNotifier) {
	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db)
	adminHandler := handlers.NewAdminHandler(adminService, userService, emailService, notifier)
	userHandler := handlers.NewUserHandler(userService, emailService, notifier)

	// Health check endpoints
	router.GET("/health", healthHandler.HandleHealth)
	router.GET("/ready", healthHandler.HandleReady)

	// Admin first-run registration (open only while no admin exists)
	router.GET("/admin/register", adminHandler.HandleRegisterGate)
	router.POST("/admin/register", adminHandler.HandleRegister)

	// Admin session endpoints
	router.POST("/admin/login", middleware.AuthRateLimitMiddleware(), adminHandler.HandleLogin)
	router.POST("/admin/logout", middleware.AdminAuthMiddleware(), adminHandler.HandleLogout)
	router.POST("/admin/delete-profile", middleware.AdminAuthMiddleware(), adminHandler.HandleDeleteProfile)

	// Admin console endpoints (all behind the same gate)
	adminGroup := router.Group("/admin", middleware.AdminAuthMiddleware())
	{
		adminGroup.GET("/dashboard", adminHandler.HandleDashboard)
		adminGroup.POST("/add-user", adminHandler.HandleAddUser)
		adminGroup.POST("/search-user", adminHandler.HandleSearchUser)
		adminGroup.GET("/edit-user/:id", adminHandler.HandleGetUser)
		adminGroup.POST("/edit-user/:id", adminHandler.HandleEditUser)
		adminGroup.POST("/delete-user/:id", adminHandler.HandleDeleteUser)
		adminGroup.POST("/send-temp-password/:id", middleware.AuthRateLimitMiddleware(), adminHandler.HandleSendTempPassword)
	}

	// Self-service endpoints
	router.POST("/register", userHandler.HandleRegister)
	router.POST("/login", middleware.AuthRateLimitMiddleware(), userHandler.HandleLogin)
	router.POST("/logout", userHandler.HandleLogout)

	userGroup := router.Group("/", middleware.UserAuthMiddleware())
	{
		userGroup.GET("/profile", userHandler.HandleGetProfile)
		userGroup.POST("/profile", userHandler.HandleUpdateProfile)
		userGroup.POST("/delete-profile", userHandler.HandleDeleteProfile)
	}
}
