// Package config loads the service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Config is the service configuration
type Config struct {
	Port   string
	AppURL string

	MongoURI      string
	MongoDatabase string

	// RedisAddr enables the product cache when set
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	ProductCacheTTL time.Duration

	ShopifyAPIKey     string
	ShopifyAPISecret  string
	ShopifyAPIVersion string
	// ShopifyRateLimit is the per-shop admin API budget in requests per second
	ShopifyRateLimit float64

	MetafieldNamespace string
	MetafieldKey       string

	VerifyAppProxy bool
	LogLevel       zerolog.Level
}

// Load reads .env when present and then the environment
func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg("⚠️  Warning: .env file not found")
	}
	return FromEnv()
}

// FromEnv builds the configuration from environment variables
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		AppURL:             getEnv("APP_URL", "http://localhost:8080"),
		MongoURI:           getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase:      getEnv("MONGODB_DATABASE", "bundle_discount"),
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		ShopifyAPIKey:      os.Getenv("SHOPIFY_API_KEY"),
		ShopifyAPISecret:   os.Getenv("SHOPIFY_API_SECRET"),
		ShopifyAPIVersion:  getEnv("SHOPIFY_API_VERSION", "2024-10"),
		MetafieldNamespace: getEnv("METAFIELD_NAMESPACE", "bundle_discount"),
		MetafieldKey:       getEnv("METAFIELD_KEY", "bundles"),
	}

	var err error
	if cfg.RedisDB, err = getInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.ProductCacheTTL, err = getDuration("PRODUCT_CACHE_TTL", 10*time.Minute); err != nil {
		return nil, err
	}
	if cfg.ShopifyRateLimit, err = getFloat("SHOPIFY_RATE_LIMIT", 2); err != nil {
		return nil, err
	}
	if cfg.VerifyAppProxy, err = getBool("VERIFY_APP_PROXY", true); err != nil {
		return nil, err
	}

	cfg.LogLevel = zerolog.InfoLevel
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		if cfg.LogLevel, err = zerolog.ParseLevel(v); err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
		}
	}

	if cfg.ShopifyAPISecret == "" {
		return nil, fmt.Errorf("SHOPIFY_API_SECRET environment variable is required")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		return 0, fmt.Errorf("invalid %s: must be a positive number", key)
	}
	return f, nil
}

func getBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
