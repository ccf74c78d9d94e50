package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/closetly/wardrobe-backend/config"
	"github.com/closetly/wardrobe-backend/internal/app/controller"
	"github.com/closetly/wardrobe-backend/internal/app/repository"
	"github.com/closetly/wardrobe-backend/internal/app/service"
	"github.com/closetly/wardrobe-backend/internal/db"
	"github.com/closetly/wardrobe-backend/internal/router"
	"github.com/closetly/wardrobe-backend/internal/scheduler"
	"github.com/closetly/wardrobe-backend/internal/storage"
	"github.com/closetly/wardrobe-backend/pkg/logger"
	"github.com/closetly/wardrobe-backend/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := logger.LevelFor(cfg.Server.Environment)
	logFormat := "console"
	if cfg.Server.Environment == "production" {
		logFormat = "json"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      logFormat,
		EnableColor: logFormat == "console",
	})

	logger.Info("Starting wardrobe backend server", logger.Fields{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
		"db_driver":   cfg.Database.Driver,
		"storage":     cfg.Storage.Driver,
	})

	ctx := context.Background()

	// Initialize database
	database, err := db.Open(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(database); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(database); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Image upload gateway
	images, err := newImageStore(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize image storage", err)
	}

	// Optional list cache
	var listCache service.ListCache
	if cfg.Redis.Enabled() {
		client, err := redis.Connect(ctx, &cfg.Redis)
		if err != nil {
			logger.Warn("Item list cache disabled", logger.Fields{
				"error": err.Error(),
			})
		} else {
			defer client.Close()
			listCache = redis.NewCache(client, "wardrobe", cfg.Redis.CacheTTL)
		}
	}

	// Initialize repositories
	itemRepo := repository.NewItemRepository(database)
	cleanupRepo := repository.NewImageCleanupRepository(database)

	// Initialize services
	itemService := service.NewItemService(itemRepo, images, cleanupRepo, listCache)
	cleanupService := service.NewImageCleanupService(
		cleanupRepo,
		images,
		cfg.Cleanup.MaxAttempts,
		cfg.Cleanup.BatchSize,
	)

	// Initialize controllers
	itemController := controller.NewItemController(itemService)
	tagController := controller.NewTagController(itemService)
	uploadController := controller.NewUploadController(images, storage.UploadPolicy{
		AllowAnyImage: cfg.Storage.AllowAnyImage,
		MaxSize:       cfg.Storage.MaxUploadSize,
	})

	// Start background jobs
	cleanupScheduler := scheduler.NewImageCleanupScheduler(cleanupService, cfg.Cleanup.Schedule)
	if err := cleanupScheduler.Start(); err != nil {
		logger.Fatal("Failed to start image cleanup scheduler", err)
	}
	defer cleanupScheduler.Stop()

	// Setup router
	r := router.NewRouter(itemController, uploadController, tagController, cfg)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           r.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started successfully", logger.Fields{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}

	logger.Info("Server stopped successfully")
}

func newImageStore(ctx context.Context, cfg *config.Config) (storage.ImageStore, error) {
	switch cfg.Storage.Driver {
	case config.StorageS3:
		if cfg.S3.Bucket == "" {
			return nil, errors.New("AWS_S3_BUCKET is required when STORAGE_DRIVER=s3")
		}
		logger.Info("Using S3 image storage", logger.Fields{
			"bucket": cfg.S3.Bucket,
			"region": cfg.S3.Region,
			"folder": cfg.S3.Folder,
		})
		return storage.NewS3Storage(ctx, cfg.S3), nil
	default:
		logger.Info("Using local image storage", logger.Fields{
			"dir":      cfg.Storage.LocalDir,
			"base_url": cfg.Storage.LocalBaseURL,
		})
		return storage.NewLocalStorage(cfg.Storage.LocalDir, cfg.Storage.LocalBaseURL)
	}
}
