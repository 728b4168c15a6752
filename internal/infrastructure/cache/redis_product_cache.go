package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"bundle-discount-layer/internal/domain"
	"bundle-discount-layer/internal/ports"

	"github.com/redis/go-redis/v9"
)

// DefaultProductTTL bounds how stale product data can get when a product
// webhook is missed.
const DefaultProductTTL = 10 * time.Minute

// RedisProductCache implements ProductCache using Redis
type RedisProductCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient creates a Redis client
func NewRedisClient(addr string, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// NewRedisProductCache creates a product cache with the given entry TTL
func NewRedisProductCache(client *redis.Client, ttl time.Duration) *RedisProductCache {
	if ttl <= 0 {
		ttl = DefaultProductTTL
	}
	return &RedisProductCache{client: client, ttl: ttl}
}

var _ ports.ProductCache = (*RedisProductCache)(nil)

func productKey(shop, productID string) string {
	return fmt.Sprintf("product:%s:%s", shop, productID)
}

// Get returns a cached product, or nil on a miss
func (c *RedisProductCache) Get(ctx context.Context, shop, productID string) (*domain.Product, error) {
	data, err := c.client.Get(ctx, productKey(shop, productID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached product: %w", err)
	}

	var product domain.Product
	if err := json.Unmarshal(data, &product); err != nil {
		// A corrupt entry behaves like a miss and is overwritten on the next Set
		return nil, nil
	}
	return &product, nil
}

// Set stores a product under its id
func (c *RedisProductCache) Set(ctx context.Context, shop string, product *domain.Product) error {
	data, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("failed to encode product: %w", err)
	}
	if err := c.client.Set(ctx, productKey(shop, product.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache product: %w", err)
	}
	return nil
}

// Delete removes a cached product
func (c *RedisProductCache) Delete(ctx context.Context, shop, productID string) error {
	if err := c.client.Del(ctx, productKey(shop, productID)).Err(); err != nil {
		return fmt.Errorf("failed to delete cached product: %w", err)
	}
	return nil
}

// Ping checks the Redis connection
func (c *RedisProductCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
