package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bundle-discount-layer/internal/domain"
	"bundle-discount-layer/internal/ports"

	"github.com/rs/zerolog"
)

// ShopifyService resolves installed shops and calls the Admin API on their behalf.
// It depends on ports (interfaces) not concrete implementations
type ShopifyService struct {
	repository ports.Repository
	client     ports.ShopifyClient
	logger     zerolog.Logger
}

// NewShopifyService creates a new Shopify application service
func NewShopifyService(repository ports.Repository, client ports.ShopifyClient, logger zerolog.Logger) *ShopifyService {
	return &ShopifyService{
		repository: repository,
		client:     client,
		logger:     logger,
	}
}

// RegisterShop stores the access token handed over by the installation flow
func (s *ShopifyService) RegisterShop(ctx context.Context, shopDomain, accessToken string, scopes []string) (*domain.Shop, error) {
	shopDomain = strings.TrimSpace(shopDomain)
	if shopDomain == "" || strings.TrimSpace(accessToken) == "" {
		return nil, fmt.Errorf("shop domain and access token are required: %w", domain.ErrInvalidShop)
	}

	existing, err := s.repository.GetShop(ctx, shopDomain)
	if err != nil {
		s.logger.Error().Err(err).Str("domain", shopDomain).Msg("Failed to get shop")
		return nil, fmt.Errorf("failed to get shop: %w", err)
	}

	now := time.Now().UTC()
	shop := &domain.Shop{
		ID:          shopDomain,
		Domain:      shopDomain,
		AccessToken: accessToken,
		Scopes:      scopes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if existing != nil {
		shop.CreatedAt = existing.CreatedAt
	}

	if err := s.repository.SaveShop(ctx, shop); err != nil {
		s.logger.Error().Err(err).Str("domain", shopDomain).Msg("Failed to save shop")
		return nil, fmt.Errorf("failed to save shop: %w", err)
	}

	s.logger.Info().Str("domain", shopDomain).Strs("scopes", scopes).Msg("Shop registered")
	return shop, nil
}

// GetShop retrieves shop information. It returns nil, nil for unknown shops.
func (s *ShopifyService) GetShop(ctx context.Context, domain string) (*domain.Shop, error) {
	shop, err := s.repository.GetShop(ctx, domain)
	if err != nil {
		s.logger.Error().Err(err).Str("domain", domain).Msg("Failed to get shop")
		return nil, fmt.Errorf("failed to get shop: %w", err)
	}
	return shop, nil
}

// RemoveShop deletes the shop record and its access token
func (s *ShopifyService) RemoveShop(ctx context.Context, domain string) error {
	if err := s.repository.DeleteShop(ctx, domain); err != nil {
		s.logger.Error().Err(err).Str("domain", domain).Msg("Failed to delete shop")
		return fmt.Errorf("failed to delete shop: %w", err)
	}
	return nil
}

// getAccessToken retrieves the access token for a shop
func (s *ShopifyService) getAccessToken(ctx context.Context, shopDomain string) (string, error) {
	shop, err := s.GetShop(ctx, shopDomain)
	if err != nil {
		return "", err
	}
	if shop == nil || shop.AccessToken == "" {
		return "", fmt.Errorf("%s: %w", shopDomain, domain.ErrShopNotFound)
	}
	return shop.AccessToken, nil
}

// GetProduct retrieves a product with its variants. productID may be a
// global id or a bare numeric id.
func (s *ShopifyService) GetProduct(ctx context.Context, shopDomain string, productID string) (*domain.Product, error) {
	numericID, err := domain.NumericID(productID)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrProductNotFound)
	}

	accessToken, err := s.getAccessToken(ctx, shopDomain)
	if err != nil {
		return nil, err
	}

	product, err := s.client.GetProduct(ctx, shopDomain, accessToken, numericID)
	if err != nil {
		s.logger.Error().Err(err).Str("domain", shopDomain).Uint64("productID", numericID).Msg("Failed to get product")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, fmt.Errorf("%s: %w", productID, domain.ErrProductNotFound)
	}
	return product, nil
}

// GetShopMetafield retrieves a shop-owned metafield, or nil when it does not exist
func (s *ShopifyService) GetShopMetafield(ctx context.Context, shopDomain, namespace, key string) (*domain.ShopMetafield, error) {
	accessToken, err := s.getAccessToken(ctx, shopDomain)
	if err != nil {
		return nil, err
	}

	mf, err := s.client.GetShopMetafield(ctx, shopDomain, accessToken, namespace, key)
	if err != nil {
		s.logger.Error().Err(err).Str("domain", shopDomain).Str("key", namespace+"."+key).Msg("Failed to get metafield")
		return nil, fmt.Errorf("failed to get metafield: %w", err)
	}
	return mf, nil
}

// SetShopMetafield creates or replaces a JSON shop metafield
func (s *ShopifyService) SetShopMetafield(ctx context.Context, shopDomain, namespace, key, value string) error {
	accessToken, err := s.getAccessToken(ctx, shopDomain)
	if err != nil {
		return err
	}

	if err := s.client.SetShopMetafield(ctx, shopDomain, accessToken, namespace, key, value); err != nil {
		s.logger.Error().Err(err).Str("domain", shopDomain).Str("key", namespace+"."+key).Msg("Failed to set metafield")
		return fmt.Errorf("failed to set metafield: %w", err)
	}
	return nil
}

// DeleteShopMetafield removes a shop metafield. A missing metafield is not an error.
func (s *ShopifyService) DeleteShopMetafield(ctx context.Context, shopDomain, namespace, key string) error {
	accessToken, err := s.getAccessToken(ctx, shopDomain)
	if err != nil {
		if errors.Is(err, domain.ErrShopNotFound) {
			return nil
		}
		return err
	}

	if err := s.client.DeleteShopMetafield(ctx, shopDomain, accessToken, namespace, key); err != nil {
		s.logger.Error().Err(err).Str("domain", shopDomain).Str("key", namespace+"."+key).Msg("Failed to delete metafield")
		return fmt.Errorf("failed to delete metafield: %w", err)
	}
	return nil
}
