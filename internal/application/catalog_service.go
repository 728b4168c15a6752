package application

import (
	"context"
	"errors"
	"fmt"

	"bundle-discount-layer/internal/domain"
	"bundle-discount-layer/internal/ports"

	"github.com/rs/zerolog"
)

// CatalogService serves bundle and product data to the storefront widget.
// Product details are read through the product cache.
type CatalogService struct {
	bundles ports.BundleRepository
	shopify *ShopifyService
	cache   ports.ProductCache
	metrics ports.Metrics
	logger  zerolog.Logger
}

// NewCatalogService creates a new catalog service. cache and metrics may be nil.
func NewCatalogService(
	bundles ports.BundleRepository,
	shopify *ShopifyService,
	cache ports.ProductCache,
	metrics ports.Metrics,
	logger zerolog.Logger,
) *CatalogService {
	return &CatalogService{
		bundles: bundles,
		shopify: shopify,
		cache:   cache,
		metrics: metrics,
		logger:  logger,
	}
}

// Bundle returns a bundle for display
func (s *CatalogService) Bundle(ctx context.Context, shop, id string) (*domain.BundleConfig, error) {
	bundle, err := s.bundles.GetByID(ctx, shop, id)
	if err != nil {
		s.logger.Error().Err(err).Str("shop", shop).Str("bundleId", id).Msg("Failed to get bundle")
		return nil, fmt.Errorf("failed to get bundle: %w", err)
	}
	if bundle == nil {
		return nil, fmt.Errorf("%s: %w", id, domain.ErrBundleNotFound)
	}
	return bundle, nil
}

// BundleProducts returns the product details of every valid bundle entry, in
// bundle order. Products that no longer exist are left out.
func (s *CatalogService) BundleProducts(ctx context.Context, shop, id string) ([]domain.BundleProductDetails, error) {
	bundle, err := s.Bundle(ctx, shop, id)
	if err != nil {
		return nil, err
	}

	valid := bundle.ValidProducts()
	details := make([]domain.BundleProductDetails, 0, len(valid))
	for _, entry := range valid {
		product, err := s.Product(ctx, shop, entry.CanonicalProductID())
		if errors.Is(err, domain.ErrProductNotFound) {
			s.logger.Warn().Str("shop", shop).Str("bundleId", id).Str("productId", entry.ProductID.String()).Msg("Bundle product not found")
			continue
		}
		if err != nil {
			return nil, err
		}
		details = append(details, domain.BundleProductDetails{
			Product:  *product,
			Quantity: entry.RequiredQuantity(),
		})
	}
	return details, nil
}

// ProductVariants returns the current variants of a product
func (s *CatalogService) ProductVariants(ctx context.Context, shop, productID string) ([]domain.Variant, error) {
	product, err := s.Product(ctx, shop, productID)
	if err != nil {
		return nil, err
	}
	return product.Variants, nil
}

// Product returns product details, from the cache when possible
func (s *CatalogService) Product(ctx context.Context, shop, productID string) (*domain.Product, error) {
	productID = domain.NormalizeProductID(productID)

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, shop, productID)
		if err != nil {
			s.logger.Warn().Err(err).Str("shop", shop).Str("productId", productID).Msg("Product cache read failed")
		}
		s.recordLookup(cached != nil)
		if cached != nil {
			return cached, nil
		}
	}

	product, err := s.shopify.GetProduct(ctx, shop, productID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, shop, product); err != nil {
			s.logger.Warn().Err(err).Str("shop", shop).Str("productId", productID).Msg("Product cache write failed")
		}
	}
	return product, nil
}

// Invalidate drops a product from the cache
func (s *CatalogService) Invalidate(ctx context.Context, shop, productID string) error {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.Delete(ctx, shop, domain.NormalizeProductID(productID)); err != nil {
		return fmt.Errorf("failed to invalidate product cache: %w", err)
	}
	return nil
}

func (s *CatalogService) recordLookup(hit bool) {
	if s.metrics != nil {
		s.metrics.CacheLookup(hit)
	}
}
