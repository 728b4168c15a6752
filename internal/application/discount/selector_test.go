package discount_test

import (
	"testing"

	"bundle-discount-layer/internal/application/discount"
	"bundle-discount-layer/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSelector() *discount.Selector {
	return discount.NewSelector(newCalculator(), zerolog.Nop())
}

func TestSelectBest_PicksLargestAmount(t *testing.T) {
	lines := []domain.CartLine{line("A", 2), line("B", 2)}
	subtotal := dec("100")
	snapshot := domain.NewCartSnapshot(lines, subtotal)

	bundles := []domain.BundleConfig{
		bundle("small", domain.PricingPercentage, "5", product("A", "1")),
		bundle("large", domain.PricingPercentage, "20", product("A", "1"), product("B", "1")),
		bundle("fixed", domain.PricingFixedDiscount, "3", product("B", "1")),
	}

	result := newSelector().SelectBest(bundles, snapshot, lines, subtotal)

	assert.Equal(t, domain.DiscountApplicationFirst, result.DiscountApplicationStrategy)
	require.Len(t, result.Discounts, 1)
	assert.Equal(t, "large", result.Discounts[0].BundleName)
	assert.True(t, dec("20").Equal(result.Discounts[0].DiscountAmount))
}

func TestSelectBest_FirstSeenWinsTies(t *testing.T) {
	lines := []domain.CartLine{line("A", 1)}
	subtotal := dec("100")
	snapshot := domain.NewCartSnapshot(lines, subtotal)

	bundles := []domain.BundleConfig{
		bundle("first", domain.PricingPercentage, "10", product("A", "1")),
		bundle("second", domain.PricingFixedDiscount, "10", product("A", "1")),
	}

	best := newSelector().Best(bundles, snapshot, lines, subtotal)
	require.NotNil(t, best)
	assert.Equal(t, "first", best.BundleName)
}

func TestSelectBest_SkipsDefaultBundles(t *testing.T) {
	lines := []domain.CartLine{line("A", 1)}
	subtotal := dec("100")
	snapshot := domain.NewCartSnapshot(lines, subtotal)

	bundles := []domain.BundleConfig{
		bundle("plain", domain.PricingDefault, "99", product("A", "1")),
	}

	result := newSelector().SelectBest(bundles, snapshot, lines, subtotal)
	assert.True(t, result.IsEmpty())
	assert.NotNil(t, result.Discounts, "empty result keeps an empty discounts list")
}

func TestSelectBest_NoMatchingBundle(t *testing.T) {
	lines := []domain.CartLine{line("A", 1)}
	subtotal := dec("100")
	snapshot := domain.NewCartSnapshot(lines, subtotal)

	bundles := []domain.BundleConfig{
		bundle("needs two", domain.PricingPercentage, "10", product("A", "2")),
	}

	result := newSelector().SelectBest(bundles, snapshot, lines, subtotal)
	assert.True(t, result.IsEmpty())
}

func TestSelectBest_Idempotent(t *testing.T) {
	lines := []domain.CartLine{line("A", 3), line("B", 1)}
	subtotal := dec("75.50")
	snapshot := domain.NewCartSnapshot(lines, subtotal)
	bundles := []domain.BundleConfig{
		bundle("x", domain.PricingFixedPrice, "40", product("A", "3")),
		bundle("y", domain.PricingFixedDiscount, "7", product("A", "1"), product("B", "1")),
	}

	s := newSelector()
	first := s.SelectBest(bundles, snapshot, lines, subtotal)
	second := s.SelectBest(bundles, snapshot, lines, subtotal)
	assert.Equal(t, first, second)
}
