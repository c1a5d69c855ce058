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

	"github.com/ikkim/catalog-backend/config"
	"github.com/ikkim/catalog-backend/internal/app/controller"
	"github.com/ikkim/catalog-backend/internal/app/repository"
	"github.com/ikkim/catalog-backend/internal/app/service"
	"github.com/ikkim/catalog-backend/internal/db"
	"github.com/ikkim/catalog-backend/internal/middleware"
	"github.com/ikkim/catalog-backend/internal/router"
	"github.com/ikkim/catalog-backend/internal/storage"
	"github.com/ikkim/catalog-backend/pkg/logger"
	"github.com/ikkim/catalog-backend/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logger.Initialize(logger.ConfigForEnvironment(cfg.Server.Environment))

	logger.Info("Starting catalog backend server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
	})

	// Initialize database
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
	if err := db.Seed(&cfg.Admin); err != nil {
		logger.Warn("Failed to seed admin user", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Token revocation is optional; without Redis, logout cannot invalidate tokens.
	var tokenStore *redis.TokenStore
	if cfg.Redis.Enabled {
		if err := redis.Init(&cfg.Redis); err != nil {
			logger.Warn("Redis unavailable, token revocation disabled", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			tokenStore = redis.NewTokenStore(redis.GetClient())
			defer redis.Close()
		}
	}

	// Initialize repositories
	database := db.GetDB()
	userRepo := repository.NewUserRepository(database)
	categoryRepo := repository.NewCategoryRepository(database)
	productRepo := repository.NewProductRepository(database)
	imageRepo := repository.NewProductImageRepository(database)
	cartRepo := repository.NewCartRepository(database)

	// Initialize services
	var revoker service.TokenRevoker
	var revocationCheck middleware.TokenRevoker
	if tokenStore != nil {
		revoker = tokenStore
		revocationCheck = tokenStore
	}
	authService := service.NewAuthService(
		userRepo,
		revoker,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	categoryService := service.NewCategoryService(categoryRepo)
	productService := service.NewProductService(productRepo, categoryRepo)
	imageService := service.NewProductImageService(productRepo, imageRepo)
	cartService := service.NewCartService(cartRepo, productRepo)

	// Initialize controllers
	paginator := controller.NewPaginator(cfg.Pagination.DefaultPageSize, cfg.Pagination.MaxPageSize)
	presenter := controller.NewPresenter(storage.NewMediaResolver(cfg.Media.BaseURL, cfg.Media.LocalPrefix))

	var uploadController *controller.UploadController
	if cfg.S3.Bucket != "" {
		uploadController = controller.NewUploadController(storage.NewS3Storage(
			cfg.S3.Region,
			cfg.S3.Bucket,
			cfg.S3.AccessKeyID,
			cfg.S3.SecretAccessKey,
			cfg.S3.BaseURL,
		))
	}

	r := router.NewRouter(
		controller.NewAuthController(authService),
		controller.NewProductController(productService, paginator, presenter),
		controller.NewCategoryController(categoryService, paginator, presenter),
		controller.NewProductImageController(imageService, presenter),
		controller.NewCartController(cartService, presenter),
		uploadController,
		middleware.NewAuthMiddleware(cfg.JWT.Secret, revocationCheck),
		cfg,
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           r.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
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
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shut down", err)
	}
	logger.Info("Server stopped successfully")
}
