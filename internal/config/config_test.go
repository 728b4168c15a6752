package config_test

import (
	"testing"
	"time"

	"bundle-discount-layer/internal/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("SHOPIFY_API_SECRET", "secret")

	cfg, err := config.FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.Equal(t, 10*time.Minute, cfg.ProductCacheTTL)
	assert.Equal(t, 2.0, cfg.ShopifyRateLimit)
	assert.True(t, cfg.VerifyAppProxy)
	assert.Equal(t, zerolog.InfoLevel, cfg.LogLevel)
	assert.Equal(t, "bundle_discount", cfg.MetafieldNamespace)
	assert.Equal(t, "bundles", cfg.MetafieldKey)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("SHOPIFY_API_SECRET", "secret")
	t.Setenv("PORT", "9000")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("PRODUCT_CACHE_TTL", "90s")
	t.Setenv("SHOPIFY_RATE_LIMIT", "4")
	t.Setenv("VERIFY_APP_PROXY", "false")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := config.FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, 90*time.Second, cfg.ProductCacheTTL)
	assert.Equal(t, 4.0, cfg.ShopifyRateLimit)
	assert.False(t, cfg.VerifyAppProxy)
	assert.Equal(t, zerolog.DebugLevel, cfg.LogLevel)
}

func TestFromEnv_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing secret", map[string]string{"SHOPIFY_API_SECRET": ""}},
		{"bad redis db", map[string]string{"REDIS_DB": "two"}},
		{"bad ttl", map[string]string{"PRODUCT_CACHE_TTL": "soon"}},
		{"non-positive rate", map[string]string{"SHOPIFY_RATE_LIMIT": "0"}},
		{"bad bool", map[string]string{"VERIFY_APP_PROXY": "maybe"}},
		{"bad level", map[string]string{"LOG_LEVEL": "loud"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("SHOPIFY_API_SECRET", "secret")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := config.FromEnv()
			assert.Error(t, err)
		})
	}
}
