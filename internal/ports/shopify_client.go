package ports

import (
	"context"

	"bundle-discount-layer/internal/domain"
)

// ShopifyClient defines the admin API operations the app relies on
type ShopifyClient interface {
	// Product API
	GetProduct(ctx context.Context, shop string, accessToken string, productID uint64) (*domain.Product, error)

	// Metafield API. The bundle metafield is owned by the shop and holds a JSON array.
	GetShopMetafield(ctx context.Context, shop string, accessToken string, namespace, key string) (*domain.ShopMetafield, error)
	SetShopMetafield(ctx context.Context, shop string, accessToken string, namespace, key, value string) error
	DeleteShopMetafield(ctx context.Context, shop string, accessToken string, namespace, key string) error
}
