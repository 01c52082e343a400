// Package config provides configuration for the application
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server      ServerConfig
	Logging     LoggingConfig
	CORS        CORSConfig
	RateLimit   RateLimitConfig
	MainStore   StoreConfig
	External    StoreConfig
	Shopify     ShopifyConfig
	Processing  ProcessingConfig
	APIKey      string
	Environment string
}

// ServerConfig holds server settings
type ServerConfig struct {
	Port int
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level string
}

// CORSConfig holds CORS settings
type CORSConfig struct {
	AllowedOrigins []string
}

// RateLimitConfig holds per-IP rate limit settings for the /api routes
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// StoreConfig holds credentials of one store account
type StoreConfig struct {
	Domain      string
	AccessToken string
}

// ShopifyConfig holds settings shared by both store clients
type ShopifyConfig struct {
	APIVersion     string
	RESTTimeout    time.Duration
	GraphQLTimeout time.Duration
	UploadTimeout  time.Duration
}

// ProcessingConfig holds video polling and media lookup settings
type ProcessingConfig struct {
	PollMaxAttempts     int
	PollInterval        time.Duration
	LocatorMaxFilePages int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	godotenv.Load()

	cfg := &Config{}

	// Store accounts
	mainStore, err := loadStore("MAIN")
	if err != nil {
		return nil, err
	}
	cfg.MainStore = mainStore

	externalStore, err := loadStore("EXTERNAL")
	if err != nil {
		return nil, err
	}
	cfg.External = externalStore

	// Server configuration
	serverPort, err := intEnv("SERVER_PORT", 3000)
	if err != nil {
		return nil, err
	}
	cfg.Server.Port = serverPort

	// Logging configuration
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info" // default level
	}
	cfg.Logging.Level = logLevel

	cfg.Environment = os.Getenv("APP_ENV")
	if cfg.Environment == "" {
		cfg.Environment = "production"
	}

	// CORS configuration
	cfg.CORS.AllowedOrigins = parseOrigins(os.Getenv("CORS_ALLOWED_ORIGINS"))

	// Rate limit configuration (default: 100 requests per 15 minutes)
	if cfg.RateLimit.Requests, err = intEnv("RATE_LIMIT_REQUESTS", 100); err != nil {
		return nil, err
	}
	if cfg.RateLimit.Window, err = durationEnv("RATE_LIMIT_WINDOW", 15*time.Minute); err != nil {
		return nil, err
	}

	// Shopify API configuration
	cfg.Shopify.APIVersion = os.Getenv("SHOPIFY_API_VERSION")
	if cfg.Shopify.APIVersion == "" {
		cfg.Shopify.APIVersion = "2023-10"
	}
	if cfg.Shopify.RESTTimeout, err = durationEnv("SHOPIFY_REST_TIMEOUT", time.Minute); err != nil {
		return nil, err
	}
	if cfg.Shopify.GraphQLTimeout, err = durationEnv("SHOPIFY_GRAPHQL_TIMEOUT", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.Shopify.UploadTimeout, err = durationEnv("SHOPIFY_UPLOAD_TIMEOUT", 10*time.Minute); err != nil {
		return nil, err
	}

	// Video processing configuration (default: 30 attempts x 10s)
	if cfg.Processing.PollMaxAttempts, err = intEnv("VIDEO_POLL_MAX_ATTEMPTS", 30); err != nil {
		return nil, err
	}
	if cfg.Processing.PollMaxAttempts < 1 {
		return nil, fmt.Errorf("VIDEO_POLL_MAX_ATTEMPTS must be positive")
	}
	if cfg.Processing.PollInterval, err = durationEnv("VIDEO_POLL_INTERVAL", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.Processing.LocatorMaxFilePages, err = intEnv("LOCATOR_MAX_FILE_PAGES", 1); err != nil {
		return nil, err
	}

	// API Key configuration (optional, protects the /api routes when set)
	cfg.APIKey = os.Getenv("API_KEY")

	return cfg, nil
}

// IsDevelopment reports whether the service runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// loadStore reads the <prefix>_SHOPIFY_STORE_URL and <prefix>_SHOPIFY_ACCESS_TOKEN pair
func loadStore(prefix string) (StoreConfig, error) {
	domainKey := prefix + "_SHOPIFY_STORE_URL"
	tokenKey := prefix + "_SHOPIFY_ACCESS_TOKEN"

	domain := strings.TrimSpace(os.Getenv(domainKey))
	if domain == "" {
		return StoreConfig{}, fmt.Errorf("%s is required", domainKey)
	}
	token := strings.TrimSpace(os.Getenv(tokenKey))
	if token == "" {
		return StoreConfig{}, fmt.Errorf("%s is required", tokenKey)
	}
	return StoreConfig{Domain: domain, AccessToken: token}, nil
}

// parseOrigins parses comma-separated origins, defaulting to allow all
func parseOrigins(raw string) []string {
	if raw == "" {
		// Default to allow all origins if not specified (for development)
		return []string{"*"}
	}
	origins := strings.Split(raw, ",")
	allowed := make([]string, 0, len(origins))
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			allowed = append(allowed, origin)
		}
	}
	if len(allowed) == 0 {
		return []string{"*"}
	}
	return allowed
}

func intEnv(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}
