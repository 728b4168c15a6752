package discount

import (
	"bundle-discount-layer/internal/domain"
	"bundle-discount-layer/internal/pricing"
)

// Matches reports whether the cart holds at least the required quantity of
// every valid product of the bundle. Bundles without any valid product never match.
func Matches(bundle domain.BundleConfig, snapshot domain.CartSnapshot) bool {
	requirements := Requirements(bundle)
	if len(requirements) == 0 {
		return false
	}

	for _, req := range requirements {
		if snapshot.ProductQuantity(req.ProductID) < req.Required {
			return false
		}
	}
	return true
}

// Requirements returns one requirement per valid product entry with its
// canonical product id, in configuration order
func Requirements(bundle domain.BundleConfig) []pricing.Requirement {
	valid := bundle.ValidProducts()
	requirements := make([]pricing.Requirement, 0, len(valid))
	for _, p := range valid {
		requirements = append(requirements, pricing.Requirement{
			ProductID: p.CanonicalProductID(),
			Required:  p.RequiredQuantity(),
		})
	}
	return requirements
}

// BundleSetCount returns the number of complete bundle sets in the cart
func BundleSetCount(bundle domain.BundleConfig, snapshot domain.CartSnapshot) int {
	return pricing.BundleSetCount(Requirements(bundle), snapshot.ProductQuantity)
}
