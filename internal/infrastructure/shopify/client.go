package shopify

import (
	"context"
	"fmt"
	"time"

	"bundle-discount-layer/internal/domain"
	"bundle-discount-layer/internal/ports"

	goshopify "github.com/bold-commerce/go-shopify/v4"
	"github.com/rs/zerolog"
)

// DefaultAPIVersion is the admin API version used when none is configured
const DefaultAPIVersion = "2024-10"

// metafieldTypeJSON is the metafield type the checkout function reads
const metafieldTypeJSON = "json"

type client struct {
	app         goshopify.App
	apiVersion  string
	rateLimiter *RateLimiter
	retryConfig RetryConfig
	logger      zerolog.Logger
}

// NewClient creates a new Shopify client adapter
func NewClient(apiKey, apiSecret string) ports.ShopifyClient {
	return NewClientWithOptions(apiKey, apiSecret, DefaultAPIVersion, nil, DefaultRetryConfig(), zerolog.Nop())
}

// NewClientWithOptions creates a client with rate limiting and retry options
func NewClientWithOptions(
	apiKey, apiSecret, apiVersion string,
	rateLimiter *RateLimiter,
	retryConfig RetryConfig,
	logger zerolog.Logger,
) ports.ShopifyClient {
	if apiVersion == "" {
		apiVersion = DefaultAPIVersion
	}
	return &client{
		app:         NewApp(apiKey, apiSecret),
		apiVersion:  apiVersion,
		rateLimiter: rateLimiter,
		retryConfig: retryConfig,
		logger:      logger,
	}
}

// NewApp returns the go-shopify app credentials
func NewApp(apiKey, apiSecret string) goshopify.App {
	return goshopify.App{
		ApiKey:    apiKey,
		ApiSecret: apiSecret,
	}
}

// createClient is a helper to create a goshopify client
func (c *client) createClient(shopDomain string, accessToken string) (*goshopify.Client, error) {
	client, err := goshopify.NewClient(c.app, shopDomain, accessToken, goshopify.WithVersion(c.apiVersion))
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return client, nil
}

// call runs one admin API request under the shop's rate limit, retrying
// throttled responses with backoff.
func (c *client) call(ctx context.Context, shopDomain, operation string, fn func() error) error {
	for attempt := 0; ; attempt++ {
		if err := c.rateLimiter.Wait(ctx, shopDomain); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}

		err := fn()
		if err == nil {
			return nil
		}

		after, throttled := retryAfter(err)
		if !throttled || attempt >= c.retryConfig.MaxRetries {
			return err
		}

		delay := c.retryConfig.backoff(attempt, after)
		c.logger.Warn().
			Str("shop", shopDomain).
			Str("operation", operation).
			Int("attempt", attempt+1).
			Dur("delay", delay).
			Msg("Shopify admin API throttled, retrying")

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Product API

func (c *client) GetProduct(ctx context.Context, shopDomain string, accessToken string, productID uint64) (*domain.Product, error) {
	client, err := c.createClient(shopDomain, accessToken)
	if err != nil {
		return nil, err
	}

	var product *goshopify.Product
	err = c.call(ctx, shopDomain, "product.get", func() error {
		var err error
		product, err = client.Product.Get(ctx, productID, nil)
		return err
	})
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return ToDomainProduct(product), nil
}

// Metafield API

type metafieldQuery struct {
	Namespace string `url:"namespace,omitempty"`
	Key       string `url:"key,omitempty"`
}

func (c *client) findShopMetafield(ctx context.Context, client *goshopify.Client, shopDomain, namespace, key string) (*goshopify.Metafield, error) {
	var metafields []goshopify.Metafield
	err := c.call(ctx, shopDomain, "metafield.list", func() error {
		var err error
		metafields, err = client.Metafield.List(ctx, metafieldQuery{Namespace: namespace, Key: key})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list metafields: %w", err)
	}

	for i := range metafields {
		if metafields[i].Namespace == namespace && metafields[i].Key == key {
			return &metafields[i], nil
		}
	}
	return nil, nil
}

func (c *client) GetShopMetafield(ctx context.Context, shopDomain string, accessToken string, namespace, key string) (*domain.ShopMetafield, error) {
	client, err := c.createClient(shopDomain, accessToken)
	if err != nil {
		return nil, err
	}

	mf, err := c.findShopMetafield(ctx, client, shopDomain, namespace, key)
	if err != nil || mf == nil {
		return nil, err
	}
	return toDomainMetafield(mf), nil
}

// SetShopMetafield updates the metafield in place when it exists so its id
// stays stable, and creates it otherwise.
func (c *client) SetShopMetafield(ctx context.Context, shopDomain string, accessToken string, namespace, key, value string) error {
	client, err := c.createClient(shopDomain, accessToken)
	if err != nil {
		return err
	}

	existing, err := c.findShopMetafield(ctx, client, shopDomain, namespace, key)
	if err != nil {
		return err
	}

	if existing != nil {
		update := goshopify.Metafield{
			Id:    existing.Id,
			Value: value,
			Type:  metafieldTypeJSON,
		}
		err = c.call(ctx, shopDomain, "metafield.update", func() error {
			_, err := client.Metafield.Update(ctx, update)
			return err
		})
		if err != nil {
			return fmt.Errorf("failed to update metafield: %w", err)
		}
		return nil
	}

	create := goshopify.Metafield{
		Namespace: namespace,
		Key:       key,
		Value:     value,
		Type:      metafieldTypeJSON,
	}
	err = c.call(ctx, shopDomain, "metafield.create", func() error {
		_, err := client.Metafield.Create(ctx, create)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to create metafield: %w", err)
	}
	return nil
}

func (c *client) DeleteShopMetafield(ctx context.Context, shopDomain string, accessToken string, namespace, key string) error {
	client, err := c.createClient(shopDomain, accessToken)
	if err != nil {
		return err
	}

	existing, err := c.findShopMetafield(ctx, client, shopDomain, namespace, key)
	if err != nil || existing == nil {
		return err
	}

	err = c.call(ctx, shopDomain, "metafield.delete", func() error {
		return client.Metafield.Delete(ctx, existing.Id)
	})
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("failed to delete metafield: %w", err)
	}
	return nil
}
