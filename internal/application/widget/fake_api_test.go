package widget_test

import (
	"context"
	"sync"

	"bundle-discount-layer/internal/domain"
)

type fakeAPI struct {
	mu sync.Mutex

	bundle      *domain.BundleConfig
	bundleErr   error
	products    []domain.BundleProductDetails
	productsErr error
	variants    map[string][]domain.Variant
	variantsErr error
	cartErr     error

	variantFetches int
	cartItems      [][]domain.CartAddItem
	events         []domain.AnalyticsEvent
}

func (f *fakeAPI) FetchBundle(ctx context.Context, bundleID string) (*domain.BundleConfig, error) {
	return f.bundle, f.bundleErr
}

func (f *fakeAPI) FetchBundleProducts(ctx context.Context, bundleID string) ([]domain.BundleProductDetails, error) {
	return f.products, f.productsErr
}

func (f *fakeAPI) FetchVariants(ctx context.Context, productID string) ([]domain.Variant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.variantFetches++
	if f.variantsErr != nil {
		return nil, f.variantsErr
	}
	return f.variants[productID], nil
}

func (f *fakeAPI) AddToCart(ctx context.Context, items []domain.CartAddItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cartItems = append(f.cartItems, items)
	return f.cartErr
}

func (f *fakeAPI) SendAnalytics(ctx context.Context, event domain.AnalyticsEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

func (f *fakeAPI) eventTypes() []domain.AnalyticsEventType {
	f.mu.Lock()
	defer f.mu.Unlock()
	types := make([]domain.AnalyticsEventType, 0, len(f.events))
	for _, e := range f.events {
		types = append(types, e.Type)
	}
	return types
}
