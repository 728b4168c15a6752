package domain

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// PricingOption selects how a bundle's discount value is interpreted
type PricingOption string

const (
	PricingDefault       PricingOption = "default"
	PricingPercentage    PricingOption = "percentage"
	PricingFixedDiscount PricingOption = "fixedDiscount"
	PricingFixedPrice    PricingOption = "fixedPrice"
)

// IsKnown reports whether the option is one of the supported pricing options
func (p PricingOption) IsKnown() bool {
	switch p {
	case PricingDefault, PricingPercentage, PricingFixedDiscount, PricingFixedPrice:
		return true
	}
	return false
}

// BundleConfig is a merchant-authored bundle promotion.
// The same shape is stored per bundle in MongoDB and mirrored as a JSON array
// into the shop metafield read by the checkout function.
type BundleConfig struct {
	ID            string          `json:"id,omitempty" bson:"_id"`
	ShopDomain    string          `json:"-" bson:"shop_domain"`
	BundleName    string          `json:"bundleName" bson:"bundle_name"`
	PricingOption PricingOption   `json:"pricingOption" bson:"pricing_option"`
	DiscountValue FlexString      `json:"discountValue" bson:"discount_value"`
	Products      []BundleProduct `json:"products" bson:"products"`
	Settings      *WidgetSettings `json:"settings,omitempty" bson:"settings,omitempty"`
	CreatedAt     time.Time       `json:"createdAt,omitempty" bson:"created_at"`
	UpdatedAt     time.Time       `json:"updatedAt,omitempty" bson:"updated_at"`
}

// BundleProduct is one required product of a bundle set
type BundleProduct struct {
	ProductID FlexString `json:"productId" bson:"product_id"`
	Name      string     `json:"name" bson:"name"`
	Quantity  FlexString `json:"quantity" bson:"quantity"`
}

// WidgetSettings holds the storefront widget presentation options of a bundle
type WidgetSettings struct {
	Heading     string `json:"heading,omitempty" bson:"heading,omitempty"`
	ButtonText  string `json:"buttonText,omitempty" bson:"button_text,omitempty"`
	MoneyFormat string `json:"moneyFormat,omitempty" bson:"money_format,omitempty"`
}

// UnmarshalJSON tolerates a products field that is not a list and product
// entries that cannot be decoded; both end up excluded from matching.
func (b *BundleConfig) UnmarshalJSON(data []byte) error {
	type alias BundleConfig
	aux := struct {
		*alias
		Products json.RawMessage `json:"products"`
	}{alias: (*alias)(b)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	b.Products = decodeProducts(aux.Products)
	return nil
}

func decodeProducts(raw json.RawMessage) []BundleProduct {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil
	}

	products := make([]BundleProduct, 0, len(entries))
	for _, entry := range entries {
		var p BundleProduct
		if err := json.Unmarshal(entry, &p); err != nil {
			// keep the slot so the entry is counted and then rejected by shape validation
			p = BundleProduct{}
		}
		products = append(products, p)
	}
	return products
}

// IsValid reports whether the entry carries a non-empty product id and name
func (p BundleProduct) IsValid() bool {
	return strings.TrimSpace(p.ProductID.String()) != "" && strings.TrimSpace(p.Name) != ""
}

// RequiredQuantity is the count of this product needed per bundle set.
// Values that do not parse to a positive integer default to 1.
func (p BundleProduct) RequiredQuantity() int {
	n, ok := ParseLeadingInt(p.Quantity.String())
	if !ok || n <= 0 {
		return 1
	}
	return n
}

// CanonicalProductID returns the product id in global-id form
func (p BundleProduct) CanonicalProductID() string {
	return NormalizeProductID(p.ProductID.String())
}

// ValidProducts returns the product entries that pass shape validation, in order
func (b BundleConfig) ValidProducts() []BundleProduct {
	valid := make([]BundleProduct, 0, len(b.Products))
	for _, p := range b.Products {
		if p.IsValid() {
			valid = append(valid, p)
		}
	}
	return valid
}

// ProductIDSet returns the canonical ids of all valid product entries
func (b BundleConfig) ProductIDSet() map[string]struct{} {
	ids := make(map[string]struct{}, len(b.Products))
	for _, p := range b.ValidProducts() {
		ids[p.CanonicalProductID()] = struct{}{}
	}
	return ids
}

// DisplayName falls back to a generic label for unnamed bundles
func (b BundleConfig) DisplayName() string {
	if name := strings.TrimSpace(b.BundleName); name != "" {
		return name
	}
	return "Bundle discount"
}
