package ports

import (
	"context"

	"bundle-discount-layer/internal/domain"
)

// StorefrontAPI is what the storefront widget talks to: the app proxy
// endpoints and the theme cart.
type StorefrontAPI interface {
	FetchBundle(ctx context.Context, bundleID string) (*domain.BundleConfig, error)
	FetchBundleProducts(ctx context.Context, bundleID string) ([]domain.BundleProductDetails, error)
	FetchVariants(ctx context.Context, productID string) ([]domain.Variant, error)

	// AddToCart returns a *domain.CartError for non-2xx responses
	AddToCart(ctx context.Context, items []domain.CartAddItem) error

	SendAnalytics(ctx context.Context, event domain.AnalyticsEvent) error
}
