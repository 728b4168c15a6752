package discount_test

import (
	"testing"

	"bundle-discount-layer/internal/application/discount"
	"bundle-discount-layer/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMatches(t *testing.T) {
	lines := []domain.CartLine{line("1", 2), line("2", 1)}
	snapshot := domain.NewCartSnapshot(lines, decimal.NewFromInt(100))

	tests := []struct {
		name   string
		bundle domain.BundleConfig
		want   bool
	}{
		{
			name:   "all requirements satisfied",
			bundle: bundle("b", domain.PricingPercentage, "10", product("1", "2"), product("2", "1")),
			want:   true,
		},
		{
			name:   "bare ids are normalized",
			bundle: bundle("b", domain.PricingPercentage, "10", product("1", "1")),
			want:   true,
		},
		{
			name:   "global ids match as is",
			bundle: bundle("b", domain.PricingPercentage, "10", product(domain.ProductGIDPrefix+"2", "1")),
			want:   true,
		},
		{
			name:   "one insufficient entry fails the bundle",
			bundle: bundle("b", domain.PricingPercentage, "10", product("1", "2"), product("2", "2")),
			want:   false,
		},
		{
			name:   "absent product",
			bundle: bundle("b", domain.PricingPercentage, "10", product("1", "1"), product("3", "1")),
			want:   false,
		},
		{
			name:   "empty product list",
			bundle: bundle("b", domain.PricingPercentage, "10"),
			want:   false,
		},
		{
			name: "every entry invalid",
			bundle: bundle("b", domain.PricingPercentage, "10",
				domain.BundleProduct{ProductID: "1", Quantity: "1"},
				domain.BundleProduct{Name: "no id", Quantity: "1"}),
			want: false,
		},
		{
			name: "invalid entries are ignored",
			bundle: bundle("b", domain.PricingPercentage, "10",
				product("1", "2"),
				domain.BundleProduct{ProductID: "9", Quantity: "5"}),
			want: true,
		},
		{
			name:   "non-numeric quantity defaults to one",
			bundle: bundle("b", domain.PricingPercentage, "10", product("2", "abc")),
			want:   true,
		},
		{
			name:   "zero quantity defaults to one",
			bundle: bundle("b", domain.PricingPercentage, "10", product("2", "0")),
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, discount.Matches(tt.bundle, snapshot))
		})
	}
}

func TestBundleSetCount(t *testing.T) {
	lines := []domain.CartLine{line("A", 5), line("B", 3)}
	snapshot := domain.NewCartSnapshot(lines, decimal.NewFromInt(80))

	b := bundle("b", domain.PricingFixedDiscount, "5", product("A", "2"), product("B", "1"))
	assert.Equal(t, 2, discount.BundleSetCount(b, snapshot))

	missing := bundle("b", domain.PricingFixedDiscount, "5", product("A", "2"), product("C", "1"))
	assert.Equal(t, 0, discount.BundleSetCount(missing, snapshot))
}

func TestCartSnapshot_SumsVariantLines(t *testing.T) {
	a1 := line("A", 2)
	a2 := line("A", 3)
	a2.Merchandise.ID = "gid://shopify/ProductVariant/999"

	snapshot := domain.NewCartSnapshot([]domain.CartLine{a1, a2}, decimal.NewFromInt(50))

	assert.Equal(t, 5, snapshot.ProductQuantity("A"))
	assert.Equal(t, 5, snapshot.ProductQuantity(domain.ProductGIDPrefix+"A"))
	assert.Equal(t, 3, snapshot.VariantQuantity("gid://shopify/ProductVariant/999"))
	assert.Equal(t, 5, snapshot.TotalQuantity())
}
