// Package server wires store clients, services and handlers into the HTTP router
package server

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	authMiddleware "github.com/storemedia/backend/internal/auth/middleware"
	"github.com/storemedia/backend/internal/config"
	"github.com/storemedia/backend/internal/handlers"
	loggerMiddleware "github.com/storemedia/backend/internal/logger/middleware"
	"github.com/storemedia/backend/internal/middlewares"
	"github.com/storemedia/backend/internal/models"
	"github.com/storemedia/backend/internal/services"
	"github.com/storemedia/backend/internal/shopify"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

const (
	// uploadOverhead covers the multipart framing and text fields around the file
	uploadOverhead       = 10 << 20
	maxUploadRequestSize = models.MaxVideoSize + uploadOverhead
	maxRequestSize       = 50 << 20
)

// NewRouter builds the two store clients from cfg and returns the fully wired router.
// clientOpts are applied to both store clients after the configured timeouts.
func NewRouter(cfg *config.Config, logger *zap.Logger, clientOpts ...shopify.Option) (chi.Router, error) {
	opts := append([]shopify.Option{
		shopify.WithTimeouts(cfg.Shopify.RESTTimeout, cfg.Shopify.GraphQLTimeout, cfg.Shopify.UploadTimeout),
	}, clientOpts...)

	mainStore, err := shopify.NewClient(shopify.Store{
		Name:        "main",
		Domain:      cfg.MainStore.Domain,
		AccessToken: cfg.MainStore.AccessToken,
		APIVersion:  cfg.Shopify.APIVersion,
	}, logger, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create main store client: %w", err)
	}
	externalStore, err := shopify.NewClient(shopify.Store{
		Name:        "external",
		Domain:      cfg.External.Domain,
		AccessToken: cfg.External.AccessToken,
		APIVersion:  cfg.Shopify.APIVersion,
	}, logger, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create external store client: %w", err)
	}

	// Initialize services
	references := services.NewReferenceSync(mainStore, services.OwnerProducts, services.MetafieldNamespace, services.MediaURLKey, logger)
	locator := services.NewLocator(externalStore, cfg.Processing.LocatorMaxFilePages, logger)
	poller := services.NewPoller(externalStore, cfg.Processing.PollInterval, logger)
	mediaService := services.NewMediaService(mainStore, externalStore, references, locator, poller, cfg.Processing.PollMaxAttempts, logger)
	productService := services.NewProductService(mainStore, logger)
	variantService := services.NewVariantService(mainStore, logger)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(logger)
	mediaHandler := handlers.NewMediaHandler(mediaService, logger)
	productHandler := handlers.NewProductHandler(productService, logger)
	variantHandler := handlers.NewVariantHandler(variantService, logger)

	r := chi.NewRouter()

	// Apply middleware
	r.Use(middlewares.RequestIDMiddleware)
	r.Use(loggerMiddleware.LoggerMiddleware(logger))
	r.Use(middlewares.RecoveryMiddleware(logger))
	r.Use(middlewares.CORSMiddleware(cfg.CORS.AllowedOrigins))

	r.Get("/health", healthHandler.Health)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	jsonLimit := middlewares.RequestSizeLimitMiddleware(maxRequestSize)
	uploadLimit := middlewares.RequestSizeLimitMiddleware(maxUploadRequestSize)

	r.Route("/api", func(r chi.Router) {
		r.Use(httprate.LimitByIP(cfg.RateLimit.Requests, cfg.RateLimit.Window))
		r.Use(authMiddleware.APIKeyMiddleware(cfg.APIKey))

		mediaHandler.RegisterRoutes(r, uploadLimit, jsonLimit)
		r.Group(func(r chi.Router) {
			r.Use(jsonLimit)
			productHandler.RegisterRoutes(r)
			variantHandler.RegisterRoutes(r)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		healthHandler.RespondError(w, http.StatusNotFound, "Route not found")
	})

	return r, nil
}
