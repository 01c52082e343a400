package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// LoadTestConfig returns a configuration for tests that points the main and
// external store clients at the given base URLs (usually httptest servers).
// Polling is shortened so video uploads finish quickly.
// TEST_SHOPIFY_API_VERSION and TEST_API_KEY from the environment or an
// optional .env file override the defaults.
func LoadTestConfig(mainURL, externalURL string) *Config {
	// Try to load .env file (ignore error if file doesn't exist - it's optional)
	_ = godotenv.Load()

	cfg := &Config{
		MainStore:   StoreConfig{Domain: mainURL, AccessToken: "main-test-token"},
		External:    StoreConfig{Domain: externalURL, AccessToken: "external-test-token"},
		Environment: "test",
		APIKey:      os.Getenv("TEST_API_KEY"),
	}
	cfg.Server.Port = 0
	cfg.Logging.Level = "debug"
	cfg.CORS.AllowedOrigins = []string{"*"}
	cfg.RateLimit.Requests = 1000
	cfg.RateLimit.Window = time.Minute

	cfg.Shopify.APIVersion = os.Getenv("TEST_SHOPIFY_API_VERSION")
	if cfg.Shopify.APIVersion == "" {
		cfg.Shopify.APIVersion = "2023-10"
	}
	cfg.Shopify.RESTTimeout = 5 * time.Second
	cfg.Shopify.GraphQLTimeout = 5 * time.Second
	cfg.Shopify.UploadTimeout = 10 * time.Second

	cfg.Processing.PollMaxAttempts = 3
	cfg.Processing.PollInterval = time.Millisecond
	cfg.Processing.LocatorMaxFilePages = 1

	return cfg
}
