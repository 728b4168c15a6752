package domain

import (
	"github.com/shopspring/decimal"
)

// Money is an amount as provided by the checkout platform
type Money struct {
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currencyCode,omitempty"`
}

// LineCost is the cost breakdown of a cart line
type LineCost struct {
	TotalAmount *Money `json:"totalAmount,omitempty"`
}

// MerchandiseProduct identifies the product a variant belongs to
type MerchandiseProduct struct {
	ID string `json:"id"`
}

// Merchandise is the purchasable item of a cart line
type Merchandise struct {
	Typename string              `json:"__typename,omitempty"`
	ID       string              `json:"id"`
	Product  *MerchandiseProduct `json:"product,omitempty"`
}

// CartLine is one line of the checkout cart
type CartLine struct {
	ID          string      `json:"id,omitempty"`
	Quantity    int         `json:"quantity"`
	Cost        *LineCost   `json:"cost,omitempty"`
	Merchandise Merchandise `json:"merchandise"`
}

// ProductID returns the canonical product id of the line, or "" for
// merchandise that is not a product variant
func (l CartLine) ProductID() string {
	if l.Merchandise.Product == nil {
		return ""
	}
	return NormalizeProductID(l.Merchandise.Product.ID)
}

// TotalCost returns the line total when the platform provided it
func (l CartLine) TotalCost() (decimal.Decimal, bool) {
	if l.Cost == nil || l.Cost.TotalAmount == nil {
		return decimal.Zero, false
	}
	return l.Cost.TotalAmount.Amount, true
}

// CartSnapshot is an immutable per-evaluation view of the cart quantities
type CartSnapshot struct {
	productQuantities map[string]int
	variantQuantities map[string]int
	totalQuantity     int
	subtotal          decimal.Decimal
}

// NewCartSnapshot aggregates cart lines into product and variant quantities.
// Product ids are normalized to global-id form.
func NewCartSnapshot(lines []CartLine, subtotal decimal.Decimal) CartSnapshot {
	s := CartSnapshot{
		productQuantities: make(map[string]int, len(lines)),
		variantQuantities: make(map[string]int, len(lines)),
		subtotal:          subtotal,
	}

	for _, line := range lines {
		if line.Quantity <= 0 {
			continue
		}
		s.totalQuantity += line.Quantity
		if line.Merchandise.ID != "" {
			s.variantQuantities[line.Merchandise.ID] += line.Quantity
		}
		if productID := line.ProductID(); productID != "" {
			s.productQuantities[productID] += line.Quantity
		}
	}
	return s
}

// ProductQuantity returns the summed quantity of all variant lines of a product
func (s CartSnapshot) ProductQuantity(productID string) int {
	return s.productQuantities[NormalizeProductID(productID)]
}

// VariantQuantity returns the quantity of a variant line
func (s CartSnapshot) VariantQuantity(variantID string) int {
	return s.variantQuantities[variantID]
}

// TotalQuantity returns the number of items in the cart
func (s CartSnapshot) TotalQuantity() int {
	return s.totalQuantity
}

// Subtotal returns the cart subtotal
func (s CartSnapshot) Subtotal() decimal.Decimal {
	return s.subtotal
}
