package discount

import (
	"encoding/json"
	"fmt"
	"strings"

	"bundle-discount-layer/internal/domain"
	"bundle-discount-layer/internal/pricing"

	"github.com/rs/zerolog"
)

// Metafield is a metafield value as exposed to the function input
type Metafield struct {
	Value string `json:"value"`
}

// CartCost holds the cart-level amounts
type CartCost struct {
	SubtotalAmount domain.Money `json:"subtotalAmount"`
}

// Cart is the cart part of the function input
type Cart struct {
	Lines []domain.CartLine `json:"lines"`
	Cost  CartCost          `json:"cost"`
}

// MetafieldOwner is any input node carrying a metafield
type MetafieldOwner struct {
	Metafield *Metafield `json:"metafield"`
}

// FunctionInput is the checkout function input
type FunctionInput struct {
	Cart         Cart           `json:"cart"`
	Shop         MetafieldOwner `json:"shop"`
	DiscountNode MetafieldOwner `json:"discountNode"`
}

// FunctionConfig is the optional per-discount configuration stored on the discount node
type FunctionConfig struct {
	Estimator string `json:"estimator"`
}

// Function is the checkout discount function: input payload in, at most one discount out.
// It never fails; every malformed input degrades to the empty result.
type Function struct {
	logger zerolog.Logger
}

// NewFunction creates the checkout function
func NewFunction(logger zerolog.Logger) *Function {
	return &Function{logger: logger}
}

// Run decodes a raw input payload and evaluates it
func (f *Function) Run(payload []byte) domain.FunctionResult {
	var input FunctionInput
	if err := json.Unmarshal(payload, &input); err != nil {
		f.logger.Warn().Err(err).Msg("Failed to decode function input")
		return domain.EmptyFunctionResult()
	}
	return f.Evaluate(input)
}

// Evaluate selects the best bundle discount for a decoded input
func (f *Function) Evaluate(input FunctionInput) domain.FunctionResult {
	if input.Shop.Metafield == nil || strings.TrimSpace(input.Shop.Metafield.Value) == "" {
		return domain.EmptyFunctionResult()
	}

	bundles, err := DecodeBundles(input.Shop.Metafield.Value)
	if err != nil {
		f.logger.Warn().Err(err).Msg("Failed to decode bundle configuration")
		return domain.EmptyFunctionResult()
	}
	if len(bundles) == 0 {
		return domain.EmptyFunctionResult()
	}

	config := f.decodeConfig(input.DiscountNode.Metafield)
	calculator := NewCalculator(pricing.NewEstimator(config.Estimator), f.logger)
	selector := NewSelector(calculator, f.logger)

	subtotal := input.Cart.Cost.SubtotalAmount.Amount
	snapshot := domain.NewCartSnapshot(input.Cart.Lines, subtotal)
	return selector.SelectBest(bundles, snapshot, input.Cart.Lines, subtotal)
}

// DecodeBundles parses the consolidated metafield value. Entries that fail to
// decode are dropped so one malformed bundle does not disable the others.
func DecodeBundles(value string) ([]domain.BundleConfig, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal([]byte(value), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse bundle list: %w", err)
	}

	bundles := make([]domain.BundleConfig, 0, len(raw))
	for _, entry := range raw {
		var bundle domain.BundleConfig
		if err := json.Unmarshal(entry, &bundle); err != nil {
			continue
		}
		bundles = append(bundles, bundle)
	}
	return bundles, nil
}

// decodeConfig reads the discount node configuration. A malformed value
// falls back to the defaults.
func (f *Function) decodeConfig(mf *Metafield) FunctionConfig {
	var config FunctionConfig
	if mf == nil || mf.Value == "" {
		return config
	}
	if err := json.Unmarshal([]byte(mf.Value), &config); err != nil {
		f.logger.Warn().Err(err).Msg("Failed to decode discount configuration, using defaults")
		return FunctionConfig{}
	}
	return config
}
