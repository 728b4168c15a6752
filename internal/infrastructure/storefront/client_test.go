package storefront_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"bundle-discount-layer/internal/domain"
	"bundle-discount-layer/internal/infrastructure/storefront"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	mu    sync.Mutex
	paths []string
	body  []byte
}

func newStore(t *testing.T, handler http.HandlerFunc) (*storefront.Client, *recorded) {
	t.Helper()
	rec := &recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.mu.Lock()
		rec.paths = append(rec.paths, r.URL.RequestURI())
		rec.body, _ = io.ReadAll(r.Body)
		rec.mu.Unlock()
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	c, err := storefront.New(storefront.Config{StoreURL: srv.URL + "/", Shop: "tea.myshopify.com"})
	require.NoError(t, err)
	return c, rec
}

func TestClient_FetchBundle(t *testing.T) {
	c, rec := newStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"b1","bundleName":"Tea set","pricingOption":"percentage","discountValue":10,"products":[{"productId":"1","name":"Teapot","quantity":"1"}]}`))
	})

	bundle, err := c.FetchBundle(context.Background(), "b1")
	require.NoError(t, err)
	assert.Equal(t, "Tea set", bundle.BundleName)
	assert.Equal(t, "10", bundle.DiscountValue.String())
	assert.Equal(t, []string{"/apps/bundles/bundles/b1?shop=tea.myshopify.com"}, rec.paths)
}

func TestClient_FetchVariantsUsesNumericID(t *testing.T) {
	c, rec := newStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"gid://shopify/ProductVariant/11","price":"12.50","options":["S"]}]`))
	})

	variants, err := c.FetchVariants(context.Background(), "gid://shopify/Product/7")
	require.NoError(t, err)
	require.Len(t, variants, 1)
	assert.Equal(t, "12.5", variants[0].Price.String())
	assert.Equal(t, "/apps/bundles/products/7/variants?shop=tea.myshopify.com", rec.paths[0])

	_, err = c.FetchVariants(context.Background(), "not-an-id")
	assert.Error(t, err)
}

func TestClient_FetchErrors(t *testing.T) {
	c, _ := newStore(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bundle not found", http.StatusNotFound)
	})

	_, err := c.FetchBundleProducts(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestClient_AddToCart(t *testing.T) {
	c, rec := newStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items":[]}`))
	})

	items := []domain.CartAddItem{{ID: 11, Quantity: 2, Properties: map[string]string{domain.PropertyBundleID: "b1"}}}
	require.NoError(t, c.AddToCart(context.Background(), items))

	assert.Equal(t, "/cart/add.js", rec.paths[0])
	var sent struct {
		Items []domain.CartAddItem `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.body, &sent))
	assert.Equal(t, items, sent.Items)
}

func TestClient_AddToCartRejected(t *testing.T) {
	c, _ := newStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"status":422,"description":"All 2 Mug are in your cart."}`))
	})

	err := c.AddToCart(context.Background(), []domain.CartAddItem{{ID: 11, Quantity: 3}})

	var cartErr *domain.CartError
	require.True(t, errors.As(err, &cartErr))
	assert.Equal(t, http.StatusUnprocessableEntity, cartErr.StatusCode)
	assert.Contains(t, string(cartErr.Body), "All 2 Mug")
}

func TestClient_SendAnalytics(t *testing.T) {
	c, rec := newStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})

	err := c.SendAnalytics(context.Background(), domain.AnalyticsEvent{BundleID: "b1", Type: domain.EventImpression})
	require.NoError(t, err)
	assert.Equal(t, "/apps/bundles/analytics?shop=tea.myshopify.com", rec.paths[0])
	assert.Contains(t, string(rec.body), `"type":"impression"`)
}

func TestNew_RequiresStoreURL(t *testing.T) {
	_, err := storefront.New(storefront.Config{})
	assert.Error(t, err)
}
