package ports

import (
	"context"

	"bundle-discount-layer/internal/domain"
)

// ProductCache caches product details per shop. Get returns nil, nil on a miss.
type ProductCache interface {
	Get(ctx context.Context, shop, productID string) (*domain.Product, error)
	Set(ctx context.Context, shop string, product *domain.Product) error
	Delete(ctx context.Context, shop, productID string) error
}
