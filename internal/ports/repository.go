package ports

import (
	"context"

	"bundle-discount-layer/internal/domain"
)

// BundleRepository defines the interface for bundle persistence.
// Lookups return nil, nil when the bundle does not exist.
type BundleRepository interface {
	Create(ctx context.Context, bundle *domain.BundleConfig) error
	Update(ctx context.Context, bundle *domain.BundleConfig) error
	GetByID(ctx context.Context, shop, id string) (*domain.BundleConfig, error)

	// ListByShop returns the shop's bundles in creation order
	ListByShop(ctx context.Context, shop string) ([]*domain.BundleConfig, error)

	Delete(ctx context.Context, shop, id string) error

	// DeleteByShop removes every bundle of a shop and returns how many were removed
	DeleteByShop(ctx context.Context, shop string) (int64, error)
}

// Repository defines the interface for shop and event persistence
type Repository interface {
	// Shop operations
	SaveShop(ctx context.Context, shop *domain.Shop) error
	GetShop(ctx context.Context, domain string) (*domain.Shop, error)
	DeleteShop(ctx context.Context, domain string) error

	// Webhook operations
	LogWebhook(ctx context.Context, event *domain.WebhookEvent) error

	// Analytics operations
	LogAnalyticsEvent(ctx context.Context, event *domain.AnalyticsEvent) error
}
