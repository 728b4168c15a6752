package discount

import (
	"bundle-discount-layer/internal/domain"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Selector picks the single most valuable bundle discount for a cart
type Selector struct {
	calculator *Calculator
	logger     zerolog.Logger
}

// NewSelector creates a selector over the given calculator
func NewSelector(calculator *Calculator, logger zerolog.Logger) *Selector {
	return &Selector{
		calculator: calculator,
		logger:     logger,
	}
}

// Best returns the discount with the greatest amount, or nil.
// Bundles are visited in the given order; on equal amounts the earlier bundle wins.
func (s *Selector) Best(bundles []domain.BundleConfig, snapshot domain.CartSnapshot, lines []domain.CartLine, subtotal decimal.Decimal) *domain.DiscountResult {
	var best *domain.DiscountResult
	for _, bundle := range bundles {
		if bundle.PricingOption == domain.PricingDefault {
			continue
		}
		if !Matches(bundle, snapshot) {
			continue
		}

		result := s.calculator.Calculate(bundle, snapshot, lines, subtotal)
		if result == nil {
			continue
		}
		if best == nil || result.DiscountAmount.GreaterThan(best.DiscountAmount) {
			best = result
		}
	}
	return best
}

// SelectBest returns the checkout function result holding at most one discount
func (s *Selector) SelectBest(bundles []domain.BundleConfig, snapshot domain.CartSnapshot, lines []domain.CartLine, subtotal decimal.Decimal) domain.FunctionResult {
	best := s.Best(bundles, snapshot, lines, subtotal)
	if best == nil {
		return domain.EmptyFunctionResult()
	}

	s.logger.Debug().
		Str("bundle", best.BundleName).
		Str("amount", best.DiscountAmount.String()).
		Msg("Selected bundle discount")

	return domain.FunctionResult{
		DiscountApplicationStrategy: domain.DiscountApplicationFirst,
		Discounts:                   []domain.DiscountResult{*best},
	}
}
