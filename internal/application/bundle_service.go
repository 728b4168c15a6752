package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"bundle-discount-layer/internal/application/discount"
	"bundle-discount-layer/internal/domain"
	"bundle-discount-layer/internal/pricing"
	"bundle-discount-layer/internal/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// MetafieldLocation is the shop metafield the checkout function reads bundles from
type MetafieldLocation struct {
	Namespace string
	Key       string
}

// PreviewRequest is a merchant dry run of the checkout function against a cart
type PreviewRequest struct {
	Cart      discount.Cart `json:"cart"`
	Estimator string        `json:"estimator,omitempty"`
}

// BundleService manages a shop's bundles and mirrors them into the shop
// metafield consumed at checkout.
type BundleService struct {
	bundles   ports.BundleRepository
	shopify   *ShopifyService
	metrics   ports.Metrics
	metafield MetafieldLocation
	function  *discount.Function
	logger    zerolog.Logger
}

// NewBundleService creates a new bundle service
func NewBundleService(
	bundles ports.BundleRepository,
	shopify *ShopifyService,
	metrics ports.Metrics,
	metafield MetafieldLocation,
	logger zerolog.Logger,
) *BundleService {
	return &BundleService{
		bundles:   bundles,
		shopify:   shopify,
		metrics:   metrics,
		metafield: metafield,
		function:  discount.NewFunction(logger),
		logger:    logger,
	}
}

// ValidateBundle checks a bundle before it is stored
func ValidateBundle(b *domain.BundleConfig) error {
	if strings.TrimSpace(b.BundleName) == "" {
		return fmt.Errorf("bundle name is required: %w", domain.ErrInvalidBundle)
	}
	if !b.PricingOption.IsKnown() {
		return fmt.Errorf("unknown pricing option %q: %w", b.PricingOption, domain.ErrInvalidBundle)
	}
	if len(b.ValidProducts()) == 0 {
		return fmt.Errorf("at least one product with id and name is required: %w", domain.ErrInvalidBundle)
	}
	if b.PricingOption != domain.PricingDefault {
		if _, ok := pricing.ParseValue(b.DiscountValue.String()); !ok {
			return fmt.Errorf("discount value must be a positive number: %w", domain.ErrInvalidBundle)
		}
	}
	return nil
}

// Create stores a new bundle and resyncs the shop metafield
func (s *BundleService) Create(ctx context.Context, shop string, bundle *domain.BundleConfig) (*domain.BundleConfig, error) {
	if err := ValidateBundle(bundle); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	bundle.ID = uuid.New().String()
	bundle.ShopDomain = shop
	bundle.CreatedAt = now
	bundle.UpdatedAt = now

	if err := s.bundles.Create(ctx, bundle); err != nil {
		s.logger.Error().Err(err).Str("shop", shop).Msg("Failed to create bundle")
		return nil, fmt.Errorf("failed to create bundle: %w", err)
	}

	s.logger.Info().Str("shop", shop).Str("bundleId", bundle.ID).Str("name", bundle.BundleName).Msg("Bundle created")
	return bundle, s.SyncMetafield(ctx, shop)
}

// Update replaces an existing bundle and resyncs the shop metafield
func (s *BundleService) Update(ctx context.Context, shop, id string, bundle *domain.BundleConfig) (*domain.BundleConfig, error) {
	if err := ValidateBundle(bundle); err != nil {
		return nil, err
	}

	existing, err := s.Get(ctx, shop, id)
	if err != nil {
		return nil, err
	}

	bundle.ID = existing.ID
	bundle.ShopDomain = shop
	bundle.CreatedAt = existing.CreatedAt
	bundle.UpdatedAt = time.Now().UTC()

	if err := s.bundles.Update(ctx, bundle); err != nil {
		s.logger.Error().Err(err).Str("shop", shop).Str("bundleId", id).Msg("Failed to update bundle")
		return nil, fmt.Errorf("failed to update bundle: %w", err)
	}

	return bundle, s.SyncMetafield(ctx, shop)
}

// Get retrieves one bundle of a shop
func (s *BundleService) Get(ctx context.Context, shop, id string) (*domain.BundleConfig, error) {
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

// List retrieves all bundles of a shop
func (s *BundleService) List(ctx context.Context, shop string) ([]*domain.BundleConfig, error) {
	bundles, err := s.bundles.ListByShop(ctx, shop)
	if err != nil {
		s.logger.Error().Err(err).Str("shop", shop).Msg("Failed to list bundles")
		return nil, fmt.Errorf("failed to list bundles: %w", err)
	}
	return bundles, nil
}

// Delete removes a bundle; the metafield no longer offers it at checkout
func (s *BundleService) Delete(ctx context.Context, shop, id string) error {
	if _, err := s.Get(ctx, shop, id); err != nil {
		return err
	}

	if err := s.bundles.Delete(ctx, shop, id); err != nil {
		s.logger.Error().Err(err).Str("shop", shop).Str("bundleId", id).Msg("Failed to delete bundle")
		return fmt.Errorf("failed to delete bundle: %w", err)
	}

	s.logger.Info().Str("shop", shop).Str("bundleId", id).Msg("Bundle deleted")
	return s.SyncMetafield(ctx, shop)
}

// RemoveProduct drops a deleted product from every bundle of the shop and
// returns how many bundles changed.
func (s *BundleService) RemoveProduct(ctx context.Context, shop, productID string) (int, error) {
	canonical := domain.NormalizeProductID(productID)

	bundles, err := s.List(ctx, shop)
	if err != nil {
		return 0, err
	}

	changed := 0
	for _, bundle := range bundles {
		kept := bundle.Products[:0:0]
		for _, p := range bundle.Products {
			if p.CanonicalProductID() != canonical {
				kept = append(kept, p)
			}
		}
		if len(kept) == len(bundle.Products) {
			continue
		}

		bundle.Products = kept
		bundle.UpdatedAt = time.Now().UTC()
		if err := s.bundles.Update(ctx, bundle); err != nil {
			s.logger.Error().Err(err).Str("shop", shop).Str("bundleId", bundle.ID).Msg("Failed to prune product from bundle")
			return changed, fmt.Errorf("failed to update bundle: %w", err)
		}
		changed++
	}

	if changed == 0 {
		return 0, nil
	}

	s.logger.Info().Str("shop", shop).Str("productId", canonical).Int("bundles", changed).Msg("Removed deleted product from bundles")
	return changed, s.SyncMetafield(ctx, shop)
}

// DeleteAllForShop removes every bundle of an uninstalled shop. The metafield
// is not touched: the shop's access token is no longer valid.
func (s *BundleService) DeleteAllForShop(ctx context.Context, shop string) (int64, error) {
	n, err := s.bundles.DeleteByShop(ctx, shop)
	if err != nil {
		s.logger.Error().Err(err).Str("shop", shop).Msg("Failed to delete shop bundles")
		return 0, fmt.Errorf("failed to delete shop bundles: %w", err)
	}
	return n, nil
}

// MetafieldValue returns the JSON array the checkout function reads
func (s *BundleService) MetafieldValue(ctx context.Context, shop string) (string, []*domain.BundleConfig, error) {
	bundles, err := s.List(ctx, shop)
	if err != nil {
		return "", nil, err
	}
	if bundles == nil {
		bundles = []*domain.BundleConfig{}
	}

	value, err := json.Marshal(bundles)
	if err != nil {
		return "", nil, fmt.Errorf("failed to encode bundles: %w", err)
	}
	return string(value), bundles, nil
}

// SyncMetafield mirrors all bundles of a shop into the consolidated metafield.
// An empty bundle list removes the metafield.
func (s *BundleService) SyncMetafield(ctx context.Context, shop string) error {
	value, bundles, err := s.MetafieldValue(ctx, shop)
	if err != nil {
		return err
	}

	if len(bundles) == 0 {
		err = s.shopify.DeleteShopMetafield(ctx, shop, s.metafield.Namespace, s.metafield.Key)
	} else {
		err = s.shopify.SetShopMetafield(ctx, shop, s.metafield.Namespace, s.metafield.Key, value)
	}

	if s.metrics != nil {
		s.metrics.MetafieldSync(err == nil)
	}
	if err != nil {
		s.logger.Error().Err(err).Str("shop", shop).Int("bundles", len(bundles)).Msg("Failed to sync bundle metafield")
		return fmt.Errorf("%w: %w", domain.ErrMetafieldSync, err)
	}

	s.logger.Debug().Str("shop", shop).Int("bundles", len(bundles)).Msg("Bundle metafield synced")
	return nil
}

// Preview runs the checkout function against a cart with the shop's current
// bundles, exactly as checkout would see them.
func (s *BundleService) Preview(ctx context.Context, shop string, req PreviewRequest) (domain.FunctionResult, error) {
	value, _, err := s.MetafieldValue(ctx, shop)
	if err != nil {
		return domain.FunctionResult{}, err
	}

	input := discount.FunctionInput{
		Cart: req.Cart,
		Shop: discount.MetafieldOwner{Metafield: &discount.Metafield{Value: value}},
	}
	if req.Estimator != "" {
		config, err := json.Marshal(discount.FunctionConfig{Estimator: req.Estimator})
		if err != nil {
			return domain.FunctionResult{}, fmt.Errorf("failed to encode function config: %w", err)
		}
		input.DiscountNode.Metafield = &discount.Metafield{Value: string(config)}
	}

	result := s.function.Evaluate(input)
	if s.metrics != nil {
		s.metrics.DiscountPreview(!result.IsEmpty())
	}
	return result, nil
}

// IsMetafieldSyncError reports whether err only failed the metafield mirror
// while the bundle change itself was stored.
func IsMetafieldSyncError(err error) bool {
	return errors.Is(err, domain.ErrMetafieldSync)
}
