package entity_test

import (
	"testing"
	"time"

	"bundle-discount-layer/internal/domain"
	"bundle-discount-layer/internal/infrastructure/repository/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestMongoBundleDoc_RoundTripKeepsRawValues(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	bundle := &domain.BundleConfig{
		ID:            "b1",
		ShopDomain:    "coffee.myshopify.com",
		BundleName:    "Brew kit",
		PricingOption: domain.PricingFixedPrice,
		DiscountValue: "49.90",
		Products: []domain.BundleProduct{
			{ProductID: "gid://shopify/Product/1", Name: "Kettle", Quantity: "1"},
			{ProductID: "2", Name: "Filters", Quantity: "3"},
		},
		Settings:  &domain.WidgetSettings{Heading: "Complete the kit", MoneyFormat: "€{{amount_with_comma_separator}}"},
		CreatedAt: now,
		UpdatedAt: now,
	}

	raw, err := bson.Marshal(entity.MongoBundleDocFromDomain(bundle))
	require.NoError(t, err)

	var doc entity.MongoBundleDoc
	require.NoError(t, bson.Unmarshal(raw, &doc))
	assert.Equal(t, "49.90", doc.DiscountValue)
	assert.Equal(t, "3", doc.Products[1].Quantity)

	got := doc.ToDomain()
	assert.True(t, now.Equal(got.CreatedAt))
	got.CreatedAt, got.UpdatedAt = bundle.CreatedAt, bundle.UpdatedAt
	assert.Equal(t, bundle, got)
}

func TestMongoBundleDoc_NoSettings(t *testing.T) {
	doc := entity.MongoBundleDocFromDomain(&domain.BundleConfig{ID: "b2", BundleName: "Plain"})
	assert.Nil(t, doc.Settings)

	got := doc.ToDomain()
	assert.Nil(t, got.Settings)
	assert.Empty(t, got.Products)
}

func TestMongoShopDoc(t *testing.T) {
	shop := &domain.Shop{Domain: "tea.myshopify.com", AccessToken: "shpat_x", Scopes: []string{"read_products"}}

	got := entity.MongoShopDocFromDomain(shop).ToDomain()
	assert.Equal(t, "tea.myshopify.com", got.ID)
	assert.Equal(t, "shpat_x", got.AccessToken)
	assert.Equal(t, shop.Scopes, got.Scopes)
}

func TestMongoWebhookDoc_PayloadIsText(t *testing.T) {
	doc := entity.MongoWebhookDocFromDomain(&domain.WebhookEvent{ID: "w1", Topic: domain.TopicProductsDelete, Payload: []byte(`{"id":1}`)})
	assert.Equal(t, `{"id":1}`, doc.Payload)
}
