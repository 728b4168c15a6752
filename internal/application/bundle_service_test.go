package application_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"bundle-discount-layer/internal/application"
	"bundle-discount-layer/internal/application/apptest"
	"bundle-discount-layer/internal/application/discount"
	"bundle-discount-layer/internal/domain"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testShop      = "coffee.myshopify.com"
	testNamespace = "bundles"
	testKey       = "config"
)

type bundleFixture struct {
	repo    *apptest.Repository
	bundles *apptest.BundleRepository
	client  *apptest.ShopifyClient
	metrics *apptest.Metrics
	service *application.BundleService
	shopify *application.ShopifyService
}

func newBundleFixture() *bundleFixture {
	f := &bundleFixture{
		repo:    apptest.NewRepository().WithShop(testShop, "shpat_test"),
		bundles: apptest.NewBundleRepository(),
		client:  apptest.NewShopifyClient(),
		metrics: apptest.NewMetrics(),
	}
	f.shopify = application.NewShopifyService(f.repo, f.client, zerolog.Nop())
	f.service = application.NewBundleService(
		f.bundles,
		f.shopify,
		f.metrics,
		application.MetafieldLocation{Namespace: testNamespace, Key: testKey},
		zerolog.Nop(),
	)
	return f
}

func (f *bundleFixture) metafieldBundles(t *testing.T) []domain.BundleConfig {
	t.Helper()
	value, ok := f.client.Metafield(testShop, testNamespace, testKey)
	if !ok {
		return nil
	}
	bundles, err := discount.DecodeBundles(value)
	require.NoError(t, err)
	return bundles
}

func newBundle(name string, option domain.PricingOption, value string, productIDs ...string) *domain.BundleConfig {
	b := &domain.BundleConfig{
		BundleName:    name,
		PricingOption: option,
		DiscountValue: domain.FlexString(value),
	}
	for _, id := range productIDs {
		b.Products = append(b.Products, domain.BundleProduct{
			ProductID: domain.FlexString(id),
			Name:      "Product " + id,
			Quantity:  "1",
		})
	}
	return b
}

func TestValidateBundle(t *testing.T) {
	tests := []struct {
		name   string
		bundle *domain.BundleConfig
		valid  bool
	}{
		{"valid percentage", newBundle("a", domain.PricingPercentage, "10", "1"), true},
		{"default needs no value", newBundle("a", domain.PricingDefault, "", "1"), true},
		{"missing name", newBundle(" ", domain.PricingPercentage, "10", "1"), false},
		{"unknown option", newBundle("a", "bogo", "10", "1"), false},
		{"no products", newBundle("a", domain.PricingPercentage, "10"), false},
		{"zero value", newBundle("a", domain.PricingFixedPrice, "0", "1"), false},
		{"text value", newBundle("a", domain.PricingFixedDiscount, "free", "1"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := application.ValidateBundle(tt.bundle)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, domain.ErrInvalidBundle)
			}
		})
	}
}

func TestBundleService_CreateSyncsMetafield(t *testing.T) {
	f := newBundleFixture()
	ctx := context.Background()

	created, err := f.service.Create(ctx, testShop, newBundle("Pair", domain.PricingPercentage, "10", "1", "2"))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	_, err = f.service.Create(ctx, testShop, newBundle("Trio", domain.PricingFixedDiscount, "5", "3"))
	require.NoError(t, err)

	mirrored := f.metafieldBundles(t)
	require.Len(t, mirrored, 2)
	assert.Equal(t, "Pair", mirrored[0].BundleName)
	assert.Equal(t, "Trio", mirrored[1].BundleName)
	assert.Equal(t, 2, f.metrics.SyncOK)
}

func TestBundleService_CreateRejectsInvalid(t *testing.T) {
	f := newBundleFixture()

	_, err := f.service.Create(context.Background(), testShop, newBundle("", domain.PricingPercentage, "10", "1"))
	assert.ErrorIs(t, err, domain.ErrInvalidBundle)

	bundles, _ := f.service.List(context.Background(), testShop)
	assert.Empty(t, bundles)
}

func TestBundleService_UpdateAndGet(t *testing.T) {
	f := newBundleFixture()
	ctx := context.Background()

	created, err := f.service.Create(ctx, testShop, newBundle("Pair", domain.PricingPercentage, "10", "1"))
	require.NoError(t, err)

	updated, err := f.service.Update(ctx, testShop, created.ID, newBundle("Pair+", domain.PricingPercentage, "15", "1"))
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	got, err := f.service.Get(ctx, testShop, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pair+", got.BundleName)
	assert.Equal(t, "15", f.metafieldBundles(t)[0].DiscountValue.String())

	_, err = f.service.Update(ctx, testShop, "missing", newBundle("x", domain.PricingPercentage, "1", "1"))
	assert.ErrorIs(t, err, domain.ErrBundleNotFound)

	_, err = f.service.Get(ctx, "other.myshopify.com", created.ID)
	assert.ErrorIs(t, err, domain.ErrBundleNotFound)
}

func TestBundleService_DeleteLastBundleRemovesMetafield(t *testing.T) {
	f := newBundleFixture()
	ctx := context.Background()

	created, err := f.service.Create(ctx, testShop, newBundle("Pair", domain.PricingPercentage, "10", "1"))
	require.NoError(t, err)
	require.Len(t, f.metafieldBundles(t), 1)

	require.NoError(t, f.service.Delete(ctx, testShop, created.ID))
	_, ok := f.client.Metafield(testShop, testNamespace, testKey)
	assert.False(t, ok)

	assert.ErrorIs(t, f.service.Delete(ctx, testShop, created.ID), domain.ErrBundleNotFound)
}

func TestBundleService_MetafieldSyncFailure(t *testing.T) {
	f := newBundleFixture()
	f.client.MetafieldErr = errors.New("throttled")

	created, err := f.service.Create(context.Background(), testShop, newBundle("Pair", domain.PricingPercentage, "10", "1"))

	require.Error(t, err)
	assert.True(t, application.IsMetafieldSyncError(err))
	require.NotNil(t, created, "the bundle is stored even when the mirror fails")
	assert.Equal(t, 1, f.metrics.SyncFailed)

	stored, err := f.service.Get(context.Background(), testShop, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pair", stored.BundleName)
}

func TestBundleService_UnknownShopCannotSync(t *testing.T) {
	f := newBundleFixture()

	_, err := f.service.Create(context.Background(), "unknown.myshopify.com", newBundle("Pair", domain.PricingPercentage, "10", "1"))
	assert.True(t, application.IsMetafieldSyncError(err))
	assert.ErrorIs(t, err, domain.ErrShopNotFound)
}

func TestBundleService_RemoveProduct(t *testing.T) {
	f := newBundleFixture()
	ctx := context.Background()

	_, err := f.service.Create(ctx, testShop, newBundle("Pair", domain.PricingPercentage, "10", "1", "2"))
	require.NoError(t, err)
	_, err = f.service.Create(ctx, testShop, newBundle("Other", domain.PricingPercentage, "10", "3"))
	require.NoError(t, err)

	changed, err := f.service.RemoveProduct(ctx, testShop, domain.ProductGIDPrefix+"2")
	require.NoError(t, err)
	assert.Equal(t, 1, changed)

	mirrored := f.metafieldBundles(t)
	require.Len(t, mirrored, 2)
	require.Len(t, mirrored[0].Products, 1)
	assert.Equal(t, "1", mirrored[0].Products[0].ProductID.String())

	changed, err = f.service.RemoveProduct(ctx, testShop, "999")
	require.NoError(t, err)
	assert.Zero(t, changed)
}

func TestBundleService_DeleteAllForShop(t *testing.T) {
	f := newBundleFixture()
	ctx := context.Background()

	for _, name := range []string{"a", "b"} {
		_, err := f.service.Create(ctx, testShop, newBundle(name, domain.PricingPercentage, "10", "1"))
		require.NoError(t, err)
	}

	n, err := f.service.DeleteAllForShop(ctx, testShop)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	bundles, err := f.service.List(ctx, testShop)
	require.NoError(t, err)
	assert.Empty(t, bundles)
}

func TestBundleService_Preview(t *testing.T) {
	f := newBundleFixture()
	ctx := context.Background()

	_, err := f.service.Create(ctx, testShop, newBundle("Pair", domain.PricingPercentage, "10", "1", "2"))
	require.NoError(t, err)

	qty := func(productID string, n int) domain.CartLine {
		return domain.CartLine{
			Quantity: n,
			Merchandise: domain.Merchandise{
				Typename: "ProductVariant",
				ID:       domain.VariantGIDPrefix + productID + "1",
				Product:  &domain.MerchandiseProduct{ID: domain.ProductGIDPrefix + productID},
			},
		}
	}

	req := application.PreviewRequest{Cart: discount.Cart{
		Lines: []domain.CartLine{qty("1", 1), qty("2", 1)},
		Cost:  discount.CartCost{SubtotalAmount: domain.Money{Amount: decimal.NewFromInt(80)}},
	}}

	result, err := f.service.Preview(ctx, testShop, req)
	require.NoError(t, err)
	require.Len(t, result.Discounts, 1)
	assert.Equal(t, "Pair: 10% off", result.Discounts[0].Message)

	req.Cart.Lines = req.Cart.Lines[:1]
	result, err = f.service.Preview(ctx, testShop, req)
	require.NoError(t, err)
	assert.True(t, result.IsEmpty())
	assert.Equal(t, 2, f.metrics.Previews)

	out, err := json.Marshal(result)
	require.NoError(t, err)
	assert.JSONEq(t, `{"discountApplicationStrategy":"FIRST","discounts":[]}`, string(out))
}
