package domain

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	ProductGIDPrefix = "gid://shopify/Product/"
	VariantGIDPrefix = "gid://shopify/ProductVariant/"
)

// NormalizeProductID returns the product id in global-id form.
// Ids that already carry the product namespace are returned unchanged.
func NormalizeProductID(id string) string {
	id = strings.TrimSpace(id)
	if id == "" || strings.HasPrefix(id, ProductGIDPrefix) {
		return id
	}
	return ProductGIDPrefix + id
}

// NormalizeVariantID returns the variant id in global-id form
func NormalizeVariantID(id string) string {
	id = strings.TrimSpace(id)
	if id == "" || strings.HasPrefix(id, VariantGIDPrefix) {
		return id
	}
	return VariantGIDPrefix + id
}

// NumericID extracts the trailing numeric id of a global id (or a bare numeric id)
func NumericID(gid string) (uint64, error) {
	tail := gid
	if i := strings.LastIndex(gid, "/"); i >= 0 {
		tail = gid[i+1:]
	}
	if i := strings.Index(tail, "?"); i >= 0 {
		tail = tail[:i]
	}
	id, err := strconv.ParseUint(tail, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid shopify id %q: %w", gid, err)
	}
	return id, nil
}
