// Package discount evaluates bundle promotions against a checkout cart and
// produces the single best discount for the checkout function.
package discount

import (
	"fmt"

	"bundle-discount-layer/internal/domain"
	"bundle-discount-layer/internal/pricing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Calculator computes the discount of a satisfied bundle
type Calculator struct {
	estimator pricing.SubtotalEstimator
	logger    zerolog.Logger
}

// NewCalculator creates a calculator. A nil estimator selects the item-count estimator.
func NewCalculator(estimator pricing.SubtotalEstimator, logger zerolog.Logger) *Calculator {
	if estimator == nil {
		estimator = pricing.ItemCountEstimator{}
	}
	return &Calculator{
		estimator: estimator,
		logger:    logger,
	}
}

// Calculate returns the discount for bundle, or nil when the bundle yields
// no discount (no targeted lines, inert pricing option, invalid value,
// non-positive amount).
func (c *Calculator) Calculate(bundle domain.BundleConfig, snapshot domain.CartSnapshot, lines []domain.CartLine, subtotal decimal.Decimal) *domain.DiscountResult {
	targetLines := TargetLines(bundle, lines)
	if len(targetLines) == 0 {
		c.logger.Debug().Str("bundle", bundle.BundleName).Msg("No cart lines targeted by bundle")
		return nil
	}

	var (
		outcome pricing.Outcome
		ok      bool
	)
	switch bundle.PricingOption {
	case domain.PricingPercentage:
		outcome, ok = pricing.Apply(bundle.PricingOption, bundle.DiscountValue.String(), subtotal, 1)
	case domain.PricingFixedDiscount:
		sets := BundleSetCount(bundle, snapshot)
		outcome, ok = pricing.Apply(bundle.PricingOption, bundle.DiscountValue.String(), subtotal, sets)
	case domain.PricingFixedPrice:
		estimated := c.estimator.EstimateBundleSubtotal(lineShares(targetLines), snapshot.TotalQuantity(), subtotal)
		outcome, ok = pricing.Apply(bundle.PricingOption, bundle.DiscountValue.String(), estimated, 1)
	default:
		return nil
	}

	if !ok {
		c.logger.Debug().
			Str("bundle", bundle.BundleName).
			Str("pricingOption", string(bundle.PricingOption)).
			Str("discountValue", bundle.DiscountValue.String()).
			Msg("Bundle produced no discount")
		return nil
	}

	return &domain.DiscountResult{
		BundleName:     bundle.BundleName,
		DiscountAmount: outcome.Amount,
		Message:        message(bundle, outcome),
		Value:          valueExpression(outcome),
		Targets:        targets(targetLines),
	}
}

// TargetLines returns the cart lines whose product belongs to the bundle
func TargetLines(bundle domain.BundleConfig, lines []domain.CartLine) []domain.CartLine {
	ids := bundle.ProductIDSet()
	if len(ids) == 0 {
		return nil
	}

	var matched []domain.CartLine
	for _, line := range lines {
		if line.Quantity <= 0 || line.Merchandise.ID == "" {
			continue
		}
		if _, ok := ids[line.ProductID()]; ok {
			matched = append(matched, line)
		}
	}
	return matched
}

func lineShares(lines []domain.CartLine) []pricing.LineShare {
	shares := make([]pricing.LineShare, 0, len(lines))
	for _, line := range lines {
		share := pricing.LineShare{Quantity: line.Quantity}
		if cost, ok := line.TotalCost(); ok {
			share.Cost = &cost
		}
		shares = append(shares, share)
	}
	return shares
}

func targets(lines []domain.CartLine) []domain.Target {
	out := make([]domain.Target, 0, len(lines))
	for _, line := range lines {
		quantity := line.Quantity
		out = append(out, domain.Target{
			ProductVariant: domain.ProductVariantTarget{
				ID:       line.Merchandise.ID,
				Quantity: &quantity,
			},
		})
	}
	return out
}

func valueExpression(outcome pricing.Outcome) domain.ValueExpression {
	if outcome.Option == domain.PricingFixedDiscount {
		return domain.ValueExpression{
			FixedAmount: &domain.FixedAmountValue{Amount: outcome.Amount.Round(2)},
		}
	}
	return domain.ValueExpression{
		Percentage: &domain.PercentageValue{Value: outcome.Percentage},
	}
}

func message(bundle domain.BundleConfig, outcome pricing.Outcome) string {
	name := bundle.DisplayName()
	switch outcome.Option {
	case domain.PricingPercentage:
		return fmt.Sprintf("%s: %s%% off", name, outcome.Percentage.String())
	case domain.PricingFixedDiscount:
		return fmt.Sprintf("%s: %s off", name, outcome.Amount.StringFixed(2))
	default:
		return fmt.Sprintf("%s: bundle price", name)
	}
}
