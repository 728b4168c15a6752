// Package apptest provides in-memory implementations of the ports for tests.
package apptest

import (
	"context"
	"sort"
	"sync"

	"bundle-discount-layer/internal/domain"
)

// BundleRepository is an in-memory ports.BundleRepository
type BundleRepository struct {
	mu      sync.Mutex
	bundles map[string]*domain.BundleConfig
	order   []string
	Err     error
}

func NewBundleRepository() *BundleRepository {
	return &BundleRepository{bundles: map[string]*domain.BundleConfig{}}
}

func (r *BundleRepository) Create(ctx context.Context, bundle *domain.BundleConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	c := *bundle
	r.bundles[bundle.ID] = &c
	r.order = append(r.order, bundle.ID)
	return nil
}

func (r *BundleRepository) Update(ctx context.Context, bundle *domain.BundleConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	c := *bundle
	r.bundles[bundle.ID] = &c
	return nil
}

func (r *BundleRepository) GetByID(ctx context.Context, shop, id string) (*domain.BundleConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	b, ok := r.bundles[id]
	if !ok || b.ShopDomain != shop {
		return nil, nil
	}
	c := *b
	return &c, nil
}

func (r *BundleRepository) ListByShop(ctx context.Context, shop string) ([]*domain.BundleConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	var out []*domain.BundleConfig
	for _, id := range r.order {
		if b, ok := r.bundles[id]; ok && b.ShopDomain == shop {
			c := *b
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *BundleRepository) Delete(ctx context.Context, shop, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.bundles[id]; ok && b.ShopDomain == shop {
		delete(r.bundles, id)
	}
	return r.Err
}

func (r *BundleRepository) DeleteByShop(ctx context.Context, shop string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, b := range r.bundles {
		if b.ShopDomain == shop {
			delete(r.bundles, id)
			n++
		}
	}
	return n, r.Err
}

// Repository is an in-memory ports.Repository
type Repository struct {
	mu       sync.Mutex
	Shops    map[string]*domain.Shop
	Webhooks []*domain.WebhookEvent
	Events   []*domain.AnalyticsEvent
	Err      error
}

func NewRepository() *Repository {
	return &Repository{Shops: map[string]*domain.Shop{}}
}

// WithShop registers an installed shop
func (r *Repository) WithShop(shop, token string) *Repository {
	r.Shops[shop] = &domain.Shop{ID: shop, Domain: shop, AccessToken: token}
	return r
}

func (r *Repository) SaveShop(ctx context.Context, shop *domain.Shop) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	c := *shop
	r.Shops[shop.Domain] = &c
	return nil
}

func (r *Repository) GetShop(ctx context.Context, domain string) (*domain.Shop, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	s, ok := r.Shops[domain]
	if !ok {
		return nil, nil
	}
	c := *s
	return &c, nil
}

func (r *Repository) DeleteShop(ctx context.Context, domain string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.Shops, domain)
	return r.Err
}

func (r *Repository) LogWebhook(ctx context.Context, event *domain.WebhookEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.Webhooks = append(r.Webhooks, event)
	return nil
}

func (r *Repository) LogAnalyticsEvent(ctx context.Context, event *domain.AnalyticsEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.Events = append(r.Events, event)
	return nil
}

// ShopifyClient is an in-memory ports.ShopifyClient
type ShopifyClient struct {
	mu           sync.Mutex
	Products     map[uint64]*domain.Product
	Metafields   map[string]string
	ProductCalls int
	MetafieldErr error
	LastToken    string
}

func NewShopifyClient() *ShopifyClient {
	return &ShopifyClient{
		Products:   map[uint64]*domain.Product{},
		Metafields: map[string]string{},
	}
}

func metafieldKey(shop, namespace, key string) string {
	return shop + "/" + namespace + "." + key
}

func (c *ShopifyClient) GetProduct(ctx context.Context, shop, accessToken string, productID uint64) (*domain.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ProductCalls++
	c.LastToken = accessToken
	p, ok := c.Products[productID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (c *ShopifyClient) GetShopMetafield(ctx context.Context, shop, accessToken, namespace, key string) (*domain.ShopMetafield, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.Metafields[metafieldKey(shop, namespace, key)]
	if !ok {
		return nil, nil
	}
	return &domain.ShopMetafield{Namespace: namespace, Key: key, Value: v}, nil
}

func (c *ShopifyClient) SetShopMetafield(ctx context.Context, shop, accessToken, namespace, key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.MetafieldErr != nil {
		return c.MetafieldErr
	}
	c.Metafields[metafieldKey(shop, namespace, key)] = value
	return nil
}

func (c *ShopifyClient) DeleteShopMetafield(ctx context.Context, shop, accessToken, namespace, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.MetafieldErr != nil {
		return c.MetafieldErr
	}
	delete(c.Metafields, metafieldKey(shop, namespace, key))
	return nil
}

// Metafield returns a stored metafield value
func (c *ShopifyClient) Metafield(shop, namespace, key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.Metafields[metafieldKey(shop, namespace, key)]
	return v, ok
}

// ProductCache is an in-memory ports.ProductCache
type ProductCache struct {
	mu    sync.Mutex
	items map[string]*domain.Product
}

func NewProductCache() *ProductCache {
	return &ProductCache{items: map[string]*domain.Product{}}
}

func (c *ProductCache) Get(ctx context.Context, shop, productID string) (*domain.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.items[shop+"/"+productID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (c *ProductCache) Set(ctx context.Context, shop string, product *domain.Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *product
	c.items[shop+"/"+product.ID] = &cp
	return nil
}

func (c *ProductCache) Delete(ctx context.Context, shop, productID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, shop+"/"+productID)
	return nil
}

// Keys returns the cached keys in order
func (c *ProductCache) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys := make([]string, 0, len(c.items))
	for k := range c.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Metrics counts calls of ports.Metrics
type Metrics struct {
	mu          sync.Mutex
	Widget      map[string]int
	CacheHits   int
	CacheMisses int
	Webhooks    map[string]int
	SyncOK      int
	SyncFailed  int
	Previews    int
}

func NewMetrics() *Metrics {
	return &Metrics{Widget: map[string]int{}, Webhooks: map[string]int{}}
}

func (m *Metrics) WidgetEvent(eventType string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Widget[eventType]++
}

func (m *Metrics) CacheLookup(hit bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if hit {
		m.CacheHits++
	} else {
		m.CacheMisses++
	}
}

func (m *Metrics) WebhookReceived(topic string, handled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Webhooks[topic]++
}

func (m *Metrics) MetafieldSync(success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if success {
		m.SyncOK++
	} else {
		m.SyncFailed++
	}
}

func (m *Metrics) DiscountPreview(applied bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Previews++
}
