// Package pricing holds the discount arithmetic shared by the checkout
// function and the storefront widget preview. Everything here is pure.
package pricing

import (
	"regexp"
	"strings"

	"bundle-discount-layer/internal/domain"

	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)

	leadingNumber = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?`)
)

// ParseValue parses the leading number of a merchant-entered value
// ("10", "10.5", "15%"). It reports false when no number is present or
// when the number is not strictly positive.
func ParseValue(raw string) (decimal.Decimal, bool) {
	match := leadingNumber.FindString(strings.TrimSpace(raw))
	if match == "" {
		return decimal.Zero, false
	}
	value, err := decimal.NewFromString(match)
	if err != nil || !value.IsPositive() {
		return decimal.Zero, false
	}
	return value, true
}

// PercentageOff returns pct percent of base
func PercentageOff(base, pct decimal.Decimal) decimal.Decimal {
	return base.Mul(pct).Div(hundred)
}

// FixedDiscount returns the amount off for the given number of complete bundle sets
func FixedDiscount(value decimal.Decimal, sets int) decimal.Decimal {
	if sets <= 0 {
		return decimal.Zero
	}
	return value.Mul(decimal.NewFromInt(int64(sets)))
}

// FixedPriceDiscount returns how much cheaper the fixed price is than the
// bundle's cost. It reports false unless the fixed price is strictly lower.
func FixedPriceDiscount(bundleCost, fixedPrice decimal.Decimal) (decimal.Decimal, bool) {
	if fixedPrice.GreaterThanOrEqual(bundleCost) {
		return decimal.Zero, false
	}
	return bundleCost.Sub(fixedPrice), true
}

// EquivalentPercentage expresses amount as a percentage of base
func EquivalentPercentage(amount, base decimal.Decimal) decimal.Decimal {
	if !base.IsPositive() {
		return decimal.Zero
	}
	return amount.Div(base).Mul(hundred).Round(4)
}

// Requirement is the required quantity of one product per bundle set
type Requirement struct {
	ProductID string
	Required  int
}

// BundleSetCount returns how many complete bundle sets the available
// quantities can assemble: the minimum over requirements of
// floor(available / required). Any absent product yields 0.
func BundleSetCount(requirements []Requirement, available func(productID string) int) int {
	if len(requirements) == 0 {
		return 0
	}

	sets := -1
	for _, req := range requirements {
		required := req.Required
		if required <= 0 {
			required = 1
		}
		n := available(req.ProductID) / required
		if sets < 0 || n < sets {
			sets = n
		}
		if sets == 0 {
			return 0
		}
	}
	return sets
}

// Outcome is the result of applying a pricing option to a base price
type Outcome struct {
	Option domain.PricingOption
	// Amount is the money taken off base
	Amount decimal.Decimal
	// Percentage is the percentage-off expression for percentage and fixed-price options
	Percentage decimal.Decimal
	// Total is base minus Amount, never negative
	Total decimal.Decimal
}

// Apply runs the arithmetic of option against base. sets is the number of
// complete bundle sets and only affects fixedDiscount. It reports false for
// the default option, unknown options, invalid values and non-positive amounts.
func Apply(option domain.PricingOption, rawValue string, base decimal.Decimal, sets int) (Outcome, bool) {
	switch option {
	case domain.PricingPercentage, domain.PricingFixedDiscount, domain.PricingFixedPrice:
	default:
		return Outcome{}, false
	}

	value, ok := ParseValue(rawValue)
	if !ok {
		return Outcome{}, false
	}

	out := Outcome{Option: option}
	switch option {
	case domain.PricingPercentage:
		out.Amount = PercentageOff(base, value)
		out.Percentage = value
	case domain.PricingFixedDiscount:
		out.Amount = FixedDiscount(value, sets)
	case domain.PricingFixedPrice:
		amount, cheaper := FixedPriceDiscount(base, value)
		if !cheaper {
			return Outcome{}, false
		}
		out.Amount = amount
		out.Percentage = EquivalentPercentage(amount, base)
	}

	if !out.Amount.IsPositive() {
		return Outcome{}, false
	}

	out.Total = base.Sub(out.Amount)
	if out.Total.IsNegative() {
		out.Total = decimal.Zero
	}
	return out, true
}
