package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"docuvault/internal/auth"
	"docuvault/internal/cache"
	"docuvault/internal/config"
	"docuvault/internal/db"
	"docuvault/internal/document"
	"docuvault/internal/middleware"
	"docuvault/internal/notification"
	"docuvault/internal/storage"
	"docuvault/internal/user"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		panic(err)
	}

	logger, err := newLogger(cfg.Environment)
	if err != nil {
		panic(err)
	}
	sugar := logger.Sugar()
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to database
	database, err := db.Connect(cfg)
	if err != nil {
		sugar.Fatalw("failed to connect to database", "error", err)
	}
	defer func() {
		if err := db.Close(database); err != nil {
			sugar.Errorw("failed to close database", "error", err)
		}
	}()

	// Migrate database schema
	if err := db.Migrate(database); err != nil {
		sugar.Fatalw("failed to migrate database", "error", err)
	}

	// Redis is optional; the document list cache degrades to a no-op
	listCache := cache.Connect(ctx, cfg.RedisAddress)
	if listCache == nil {
		sugar.Info("redis not available, running without the list cache")
	}
	defer listCache.Close()

	uploader, err := storage.NewS3Uploader(ctx, cfg)
	if err != nil {
		sugar.Fatalw("failed to create blob uploader", "error", err)
	}

	tokens := auth.NewManager(cfg.JWTSecret)

	// Initialize repositories
	userRepo := user.NewRepository(database)
	docRepo := document.NewRepository(database)
	notifRepo := notification.NewRepository(database)

	// Initialize services
	notifService := notification.NewService(notifRepo)
	docService := document.NewService(docRepo, uploader, notifService, listCache, sugar, cfg.UploadFolder)
	userService := user.NewService(userRepo, docService, cfg)

	// Initialize handlers
	userHandler := user.NewHandler(userService, tokens)
	docHandler := document.NewHandler(docService)
	notifHandler := notification.NewHandler(notifService)

	// Seed the admin account when both secrets are configured
	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		admin, created, err := userService.SeedAdmin(ctx)
		if err != nil {
			sugar.Errorw("failed to seed admin account", "error", err)
		} else if created {
			sugar.Infow("seeded admin account", "email", admin.Email)
		}
	}

	// Initialize Gin router
	router := gin.Default()

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
	}
	if cfg.Environment == "development" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = []string{cfg.FrontendAddress}
	}
	router.Use(cors.New(corsConfig))
	router.Use(middleware.ErrorHandler(sugar))

	authMW := middleware.Auth(tokens)
	adminMW := middleware.RequireAdmin()

	// Auth routes
	router.POST("/api/auth/register", userHandler.Register)
	router.POST("/api/auth/login", userHandler.Login)

	// Profile routes
	router.GET("/api/user/profile", authMW, userHandler.GetProfile)
	router.PUT("/api/user/profile", authMW, userHandler.UpdateProfile)

	// Document routes
	router.GET("/api/documents", authMW, docHandler.List)
	router.POST("/api/documents", authMW, docHandler.Create)
	router.GET("/api/documents/:id", authMW, docHandler.Show)
	router.PUT("/api/documents/:id", authMW, docHandler.Update)
	router.DELETE("/api/documents/:id", authMW, docHandler.Delete)
	router.POST("/api/documents/:id/revert", authMW, docHandler.Revert)
	router.GET("/api/documents/:id/versions", authMW, docHandler.ListVersions)

	// Notification routes
	router.GET("/api/notifications", authMW, notifHandler.List)
	router.PUT("/api/notifications", authMW, notifHandler.MarkAllRead)

	// Admin routes
	router.GET("/api/admin/users", authMW, adminMW, userHandler.ListUsers)
	router.POST("/api/admin/seed", userHandler.SeedAdmin)
	router.GET("/api/admin/seed", userHandler.CheckAdmin)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: router.Handler(),
	}

	// Start server
	go func() {
		sugar.Infow("server listening", "port", cfg.Port)
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			sugar.Fatalw("server failed to start", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	sugar.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		sugar.Errorw("server shutdown error", "error", err)
	}
	sugar.Info("server shutdown complete")
}

func newLogger(environment string) (*zap.Logger, error) {
	if environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
