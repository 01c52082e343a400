package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/storemedia/backend/docs"
	"github.com/storemedia/backend/internal/config"
	"github.com/storemedia/backend/internal/logger"
	"github.com/storemedia/backend/internal/server"
	"go.uber.org/zap"
)

// @title Shopify Media Manager API
// @version 1.0
// @description Media proxy between a main store and an external media store: uploads, metafield references and cleanup

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:3000
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
// @description Optional API key protecting the /api routes
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v\n", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.IsDevelopment()); err != nil {
		log.Fatalf("Failed to initialize logger: %v\n", err)
	}
	defer logger.Sync()

	logger.Logger.Info("Starting Shopify Media Manager",
		zap.String("main_store", cfg.MainStore.Domain),
		zap.String("external_store", cfg.External.Domain),
		zap.String("api_version", cfg.Shopify.APIVersion),
	)
	if cfg.APIKey == "" {
		logger.Logger.Warn("API_KEY is not set, /api routes are unauthenticated")
	}

	router, err := server.NewRouter(cfg, logger.Logger)
	if err != nil {
		logger.Logger.Fatal("Failed to build router", zap.Error(err))
	}

	// Video uploads stream up to 1GB and then wait for processing, so the
	// write timeout has to cover the upload and the whole poll budget
	writeTimeout := cfg.Shopify.UploadTimeout + time.Duration(cfg.Processing.PollMaxAttempts)*cfg.Processing.PollInterval + time.Minute
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Shopify.UploadTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Logger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Logger.Info("Server exited")
}
