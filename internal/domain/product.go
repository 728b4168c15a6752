package domain

import (
	"github.com/shopspring/decimal"
)

// ProductOption is a named option (Size, Color, ...) with its values
type ProductOption struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// Variant is a purchasable product variant as consumed by the storefront widget.
// The data may come from storefront-style payloads (availability flags) or
// admin-style payloads (inventory fields), so all of them are optional.
type Variant struct {
	ID                  string           `json:"id"`
	ProductID           string           `json:"productId,omitempty"`
	Title               string           `json:"title,omitempty"`
	Price               decimal.Decimal  `json:"price"`
	CompareAtPrice      *decimal.Decimal `json:"compareAtPrice,omitempty"`
	Options             []string         `json:"options,omitempty"`
	AvailableForSale    *bool            `json:"availableForSale,omitempty"`
	Available           *bool            `json:"available,omitempty"`
	InventoryManagement *string          `json:"inventoryManagement,omitempty"`
	InventoryPolicy     string           `json:"inventoryPolicy,omitempty"`
	InventoryQuantity   int              `json:"inventoryQuantity"`
}

// Product is a product with its variants
type Product struct {
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	Handle   string          `json:"handle,omitempty"`
	Image    string          `json:"image,omitempty"`
	Options  []ProductOption `json:"options,omitempty"`
	Variants []Variant       `json:"variants"`
}

// BundleProductDetails pairs a bundle requirement with its product data
type BundleProductDetails struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// BundleDetails is the payload the widget renders from
type BundleDetails struct {
	Bundle   BundleConfig           `json:"bundle"`
	Products []BundleProductDetails `json:"products"`
}
