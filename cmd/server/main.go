// cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/preseasonhq/backoffice/internal/api"
	"github.com/preseasonhq/backoffice/internal/cache"
	"github.com/preseasonhq/backoffice/internal/config"
	"github.com/preseasonhq/backoffice/internal/export"
	"github.com/preseasonhq/backoffice/internal/repository/postgres"
	"github.com/preseasonhq/backoffice/internal/service"
	"github.com/preseasonhq/backoffice/internal/storage"
	"github.com/preseasonhq/backoffice/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// Initialize repositories
	catalogRepo := postgres.NewCatalogRepository(db)
	orderRepo := postgres.NewOrderRepository(db)
	inventoryRepo := postgres.NewInventoryRepository(db)
	salesRepo := postgres.NewSalesRepository(db)

	// Velocity cache falls back to a no-op when Redis is disabled or down
	velocityCache, err := cache.NewVelocityCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Redis unavailable, running without velocity cache")
		velocityCache = cache.NewNoopVelocityCache()
	}

	// Object storage is optional; the order-book export still writes locally
	var objectStorage storage.ObjectStorage
	if cfg.Storage.Enabled {
		minioClient, err := storage.NewMinioClient(cfg.Storage)
		if err != nil {
			logger.Log.Warn().Err(err).Msg("Object storage unavailable, exports stay local")
		} else {
			objectStorage = minioClient
		}
	}

	// Initialize services
	services := &api.Services{
		CatalogService:    service.NewCatalogService(catalogRepo),
		SuggestionService: service.NewSuggestionService(inventoryRepo, salesRepo, velocityCache),
		OrderService:      service.NewOrderService(orderRepo, catalogRepo),
		ReportService:     export.NewReportService(orderRepo, catalogRepo, objectStorage, cfg.App.ExportDir),
	}

	// Initialize HTTP server
	router := api.NewRouter(services, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
