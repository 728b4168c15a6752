package widget

import (
	"strings"

	"bundle-discount-layer/internal/domain"
)

// InventoryPolicyContinue keeps a variant sellable when out of stock
const InventoryPolicyContinue = "continue"

// IsAvailable reports whether a variant can be added to the cart.
// Storefront payloads carry availability flags; admin payloads only carry
// inventory fields, so the flags win when present.
func IsAvailable(v domain.Variant) bool {
	if v.AvailableForSale != nil {
		return *v.AvailableForSale
	}
	if v.Available != nil {
		return *v.Available
	}
	if v.InventoryManagement == nil || strings.TrimSpace(*v.InventoryManagement) == "" {
		return true
	}
	if strings.EqualFold(v.InventoryPolicy, InventoryPolicyContinue) {
		return true
	}
	return v.InventoryQuantity > 0
}

// InitialVariant returns the first available variant, falling back to the
// first variant so a sold-out product can still be displayed.
func InitialVariant(variants []domain.Variant) (domain.Variant, bool) {
	if len(variants) == 0 {
		return domain.Variant{}, false
	}
	for _, v := range variants {
		if IsAvailable(v) {
			return v, true
		}
	}
	return variants[0], true
}

// FindVariant returns the variant whose options equal selected
func FindVariant(variants []domain.Variant, selected []string) (domain.Variant, bool) {
	for _, v := range variants {
		if optionsEqual(v.Options, selected) {
			return v, true
		}
	}
	return domain.Variant{}, false
}

func optionsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
