package domain

import "fmt"

// Bundle line-item property keys. The leading underscore hides them at checkout.
const (
	PropertyBundleID   = "_bundle_id"
	PropertyBundleName = "_bundle_name"
)

// CartAddItem is one line item submitted to the storefront cart
type CartAddItem struct {
	ID         uint64            `json:"id"`
	Quantity   int               `json:"quantity"`
	Properties map[string]string `json:"properties,omitempty"`
}

// CartError is a non-2xx response from the cart endpoint
type CartError struct {
	StatusCode int
	Body       []byte
}

func (e *CartError) Error() string {
	return fmt.Sprintf("cart add failed: status %d", e.StatusCode)
}
