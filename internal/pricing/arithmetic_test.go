package pricing_test

import (
	"testing"

	"bundle-discount-layer/internal/domain"
	"bundle-discount-layer/internal/pricing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		raw  string
		want string
		ok   bool
	}{
		{"10", "10", true},
		{" 12.5 ", "12.5", true},
		{"15%", "15", true},
		{"0", "", false},
		{"-5", "", false},
		{"", "", false},
		{"abc", "", false},
		{"1e2", "100", true},
		{".5", "0.5", true},
		{"5.", "5", true},
		{".", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := pricing.ParseValue(tt.raw)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, dec(tt.want).Equal(got), "got %s", got)
			}
		})
	}
}

func TestBundleSetCount(t *testing.T) {
	cart := map[string]int{"A": 5, "B": 3}
	available := func(id string) int { return cart[id] }

	t.Run("minimum floor ratio", func(t *testing.T) {
		reqs := []pricing.Requirement{{ProductID: "A", Required: 2}, {ProductID: "B", Required: 1}}
		assert.Equal(t, 2, pricing.BundleSetCount(reqs, available))
	})

	t.Run("absent product yields zero", func(t *testing.T) {
		reqs := []pricing.Requirement{{ProductID: "A", Required: 1}, {ProductID: "C", Required: 1}}
		assert.Equal(t, 0, pricing.BundleSetCount(reqs, available))
	})

	t.Run("no requirements yields zero", func(t *testing.T) {
		assert.Equal(t, 0, pricing.BundleSetCount(nil, available))
	})

	t.Run("non-positive requirement counts as one", func(t *testing.T) {
		reqs := []pricing.Requirement{{ProductID: "B", Required: 0}}
		assert.Equal(t, 3, pricing.BundleSetCount(reqs, available))
	})
}

func TestApply_Percentage(t *testing.T) {
	out, ok := pricing.Apply(domain.PricingPercentage, "10", dec("100.00"), 1)
	require.True(t, ok)
	assert.True(t, dec("10").Equal(out.Amount))
	assert.True(t, dec("10").Equal(out.Percentage))
	assert.True(t, dec("90").Equal(out.Total))
}

func TestApply_FixedDiscount(t *testing.T) {
	out, ok := pricing.Apply(domain.PricingFixedDiscount, "5", dec("40"), 2)
	require.True(t, ok)
	assert.True(t, dec("10").Equal(out.Amount))
	assert.True(t, dec("30").Equal(out.Total))

	_, ok = pricing.Apply(domain.PricingFixedDiscount, "5", dec("40"), 0)
	assert.False(t, ok, "zero complete sets gives no discount")
}

func TestApply_FixedDiscountClampsTotal(t *testing.T) {
	out, ok := pricing.Apply(domain.PricingFixedDiscount, "50", dec("20"), 1)
	require.True(t, ok)
	assert.True(t, out.Total.IsZero())
}

func TestApply_FixedPrice(t *testing.T) {
	out, ok := pricing.Apply(domain.PricingFixedPrice, "50", dec("80.00"), 1)
	require.True(t, ok)
	assert.True(t, dec("30").Equal(out.Amount))
	assert.True(t, dec("37.5").Equal(out.Percentage))
	assert.True(t, dec("50").Equal(out.Total))

	_, ok = pricing.Apply(domain.PricingFixedPrice, "90", dec("80.00"), 1)
	assert.False(t, ok, "fixed price above the bundle cost")

	_, ok = pricing.Apply(domain.PricingFixedPrice, "80", dec("80.00"), 1)
	assert.False(t, ok, "fixed price must be strictly cheaper")
}

func TestApply_InertOptions(t *testing.T) {
	for _, option := range []domain.PricingOption{domain.PricingDefault, "buyOneGetOne", ""} {
		_, ok := pricing.Apply(option, "10", dec("100"), 1)
		assert.False(t, ok, "option %q", option)
	}

	_, ok := pricing.Apply(domain.PricingPercentage, "ten", dec("100"), 1)
	assert.False(t, ok)
}

func TestEstimators(t *testing.T) {
	cost := dec("70")
	lines := []pricing.LineShare{{Quantity: 4, Cost: &cost}}

	itemCount := pricing.NewEstimator(pricing.EstimatorItemCount)
	assert.True(t, dec("80").Equal(itemCount.EstimateBundleSubtotal(lines, 5, dec("100"))))
	assert.True(t, itemCount.EstimateBundleSubtotal(lines, 0, dec("100")).IsZero())

	lineCost := pricing.NewEstimator(pricing.EstimatorLineCost)
	assert.True(t, dec("70").Equal(lineCost.EstimateBundleSubtotal(lines, 5, dec("100"))))

	mixed := append(lines, pricing.LineShare{Quantity: 1})
	assert.True(t, dec("100").Equal(lineCost.EstimateBundleSubtotal(mixed, 5, dec("100"))),
		"falls back to item count when a line has no cost")
}
