package discount_test

import (
	"fmt"

	"bundle-discount-layer/internal/domain"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func product(id string, qty string) domain.BundleProduct {
	return domain.BundleProduct{
		ProductID: domain.FlexString(id),
		Name:      "Product " + id,
		Quantity:  domain.FlexString(qty),
	}
}

func bundle(name string, option domain.PricingOption, value string, products ...domain.BundleProduct) domain.BundleConfig {
	return domain.BundleConfig{
		BundleName:    name,
		PricingOption: option,
		DiscountValue: domain.FlexString(value),
		Products:      products,
	}
}

// line builds a cart line for product id with a single variant per product
func line(productID string, qty int) domain.CartLine {
	return domain.CartLine{
		ID:       fmt.Sprintf("gid://shopify/CartLine/%s", productID),
		Quantity: qty,
		Merchandise: domain.Merchandise{
			Typename: "ProductVariant",
			ID:       fmt.Sprintf("gid://shopify/ProductVariant/%s0", productID),
			Product:  &domain.MerchandiseProduct{ID: domain.ProductGIDPrefix + productID},
		},
	}
}

func lineWithCost(productID string, qty int, total string) domain.CartLine {
	l := line(productID, qty)
	l.Cost = &domain.LineCost{TotalAmount: &domain.Money{Amount: dec(total)}}
	return l
}

func nopLogger() zerolog.Logger {
	return zerolog.Nop()
}
