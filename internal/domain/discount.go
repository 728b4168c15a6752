package domain

import (
	"github.com/shopspring/decimal"
)

// DiscountApplicationFirst tells the checkout platform to apply only the first discount
const DiscountApplicationFirst = "FIRST"

// PercentageValue is a percentage-off expression
type PercentageValue struct {
	Value decimal.Decimal `json:"value"`
}

// FixedAmountValue is an amount-off expression
type FixedAmountValue struct {
	Amount            decimal.Decimal `json:"amount"`
	AppliesToEachItem bool            `json:"appliesToEachItem,omitempty"`
}

// ValueExpression carries exactly one of Percentage or FixedAmount
type ValueExpression struct {
	Percentage  *PercentageValue  `json:"percentage,omitempty"`
	FixedAmount *FixedAmountValue `json:"fixedAmount,omitempty"`
}

// ProductVariantTarget scopes a discount to a variant line
type ProductVariantTarget struct {
	ID       string `json:"id"`
	Quantity *int   `json:"quantity,omitempty"`
}

// Target is a discount target
type Target struct {
	ProductVariant ProductVariantTarget `json:"productVariant"`
}

// DiscountResult is a computed bundle discount.
// BundleName and DiscountAmount are used for selection and are not emitted.
type DiscountResult struct {
	BundleName     string          `json:"-"`
	DiscountAmount decimal.Decimal `json:"-"`
	Message        string          `json:"message"`
	Value          ValueExpression `json:"value"`
	Targets        []Target        `json:"targets"`
}

// FunctionResult is the checkout function output
type FunctionResult struct {
	DiscountApplicationStrategy string           `json:"discountApplicationStrategy"`
	Discounts                   []DiscountResult `json:"discounts"`
}

// EmptyFunctionResult is the "no discount" result
func EmptyFunctionResult() FunctionResult {
	return FunctionResult{
		DiscountApplicationStrategy: DiscountApplicationFirst,
		Discounts:                   []DiscountResult{},
	}
}

// IsEmpty reports whether no discount is applied
func (r FunctionResult) IsEmpty() bool {
	return len(r.Discounts) == 0
}
