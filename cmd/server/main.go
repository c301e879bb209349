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

	"github.com/ikkim/variant-reservation/config"
	"github.com/ikkim/variant-reservation/internal/app/controller"
	"github.com/ikkim/variant-reservation/internal/app/repository"
	"github.com/ikkim/variant-reservation/internal/app/service"
	"github.com/ikkim/variant-reservation/internal/db"
	"github.com/ikkim/variant-reservation/internal/feed"
	"github.com/ikkim/variant-reservation/internal/middleware"
	"github.com/ikkim/variant-reservation/internal/router"
	"github.com/ikkim/variant-reservation/internal/scheduler"
	"github.com/ikkim/variant-reservation/internal/storage"
	ws "github.com/ikkim/variant-reservation/internal/websocket"
	"github.com/ikkim/variant-reservation/pkg/logger"
	"github.com/ikkim/variant-reservation/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logger.Initialize(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		EnableColor: cfg.Server.Environment == "development",
	})

	logger.Info("Starting variant reservation server", map[string]interface{}{
		"environment":  cfg.Server.Environment,
		"port":         cfg.Server.Port,
		"log_level":    cfg.Log.Level,
		"feed_backend": cfg.Engine.FeedBackend,
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

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Seed database (optional)
	if cfg.Server.Environment == "development" {
		if err := db.Seed(); err != nil {
			logger.Warn("Failed to seed database", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	// Stock change feed
	var stockFeed feed.Feed
	switch cfg.Engine.FeedBackend {
	case "redis":
		if err := redis.Init(&cfg.Redis); err != nil {
			logger.Fatal("Failed to initialize Redis", err)
		}
		defer func() {
			if err := redis.Close(); err != nil {
				logger.Error("Failed to close Redis connection", err)
			}
		}()
		stockFeed = feed.NewRedisFeed(redis.GetClient())
	default:
		stockFeed = feed.NewMemoryFeed()
	}

	// Product images
	var images service.ImageResolver
	if cfg.S3.Bucket != "" {
		images = storage.NewS3Storage(context.Background(), cfg.S3)
	}

	// Initialize repositories
	productRepo := repository.NewProductRepository(db.GetDB())
	variantRepo := repository.NewVariantRepository(db.GetDB())

	// Initialize services
	catalogService := service.NewCatalogService(productRepo, variantRepo, images)
	stockService := service.NewStockService(productRepo, variantRepo, stockFeed)

	// Shopper session hub
	hubCtx, stopHub := context.WithCancel(context.Background())
	hub := ws.NewHub()
	go hub.Run(hubCtx)

	sweeper := scheduler.NewSessionSweeper(hub, cfg.Engine.SweepSchedule, cfg.Engine.SessionIdleTimeout)
	if err := sweeper.Start(); err != nil {
		logger.Fatal("Failed to start session sweeper", err)
	}

	// Initialize controllers
	stockController := controller.NewStockController(catalogService, stockService, hub)
	planController := controller.NewPlanController(catalogService)
	sessionController := controller.NewSessionController(
		catalogService,
		stockFeed,
		hub,
		cfg.Engine.EventBuffer,
		cfg.CORS.AllowedOrigins,
	)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Setup router
	r := router.NewRouter(stockController, planController, sessionController, authMiddleware, cfg)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r.Setup(),
	}

	// Start server in a goroutine
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

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}

	sweeper.Stop()
	stopHub()

	logger.Info("Server stopped successfully")
}
