package pricing

import (
	"github.com/shopspring/decimal"
)

// LineShare is a cart line belonging to a bundle, as seen by an estimator
type LineShare struct {
	Quantity int
	// Cost is the line total when the platform provided it
	Cost *decimal.Decimal
}

// SubtotalEstimator estimates the part of the cart subtotal spent on a
// bundle's products. Fixed-price bundles are compared against this estimate.
type SubtotalEstimator interface {
	EstimateBundleSubtotal(lines []LineShare, totalQuantity int, subtotal decimal.Decimal) decimal.Decimal
}

const (
	EstimatorItemCount = "itemCount"
	EstimatorLineCost  = "lineCost"
)

// NewEstimator returns the estimator registered under name, defaulting to item count
func NewEstimator(name string) SubtotalEstimator {
	if name == EstimatorLineCost {
		return LineCostEstimator{}
	}
	return ItemCountEstimator{}
}

// ItemCountEstimator splits the subtotal proportionally by item count:
// bundleItems / totalItems * subtotal. It ignores per-line prices.
type ItemCountEstimator struct{}

func (ItemCountEstimator) EstimateBundleSubtotal(lines []LineShare, totalQuantity int, subtotal decimal.Decimal) decimal.Decimal {
	if totalQuantity <= 0 {
		return decimal.Zero
	}
	items := 0
	for _, l := range lines {
		items += l.Quantity
	}
	return subtotal.Mul(decimal.NewFromInt(int64(items))).Div(decimal.NewFromInt(int64(totalQuantity)))
}

// LineCostEstimator sums the actual line totals of the bundle's lines.
// When any line lacks a cost it falls back to the item-count estimate.
type LineCostEstimator struct{}

func (LineCostEstimator) EstimateBundleSubtotal(lines []LineShare, totalQuantity int, subtotal decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		if l.Cost == nil {
			return ItemCountEstimator{}.EstimateBundleSubtotal(lines, totalQuantity, subtotal)
		}
		sum = sum.Add(*l.Cost)
	}
	return sum
}
