package widget_test

import (
	"testing"

	"bundle-discount-layer/internal/application/widget"
	"bundle-discount-layer/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCartErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"description first", `{"status":422,"message":"Cart Error","description":"Only 2 items left."}`, "Only 2 items left."},
		{"message fallback", `{"status":422,"message":"Cart Error"}`, "Cart Error"},
		{"errors string", `{"errors":"Variant is sold out"}`, "Variant is sold out"},
		{"errors object", `{"errors":{"quantity":["must be positive"],"id":["is invalid"]}}`, "is invalid must be positive"},
		{"raw text", `Service Unavailable`, "Service Unavailable"},
		{"empty body", ``, widget.DefaultCartErrorMessage},
		{"unreadable json", `{"status":500}`, widget.DefaultCartErrorMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, widget.ParseCartErrorMessage([]byte(tt.body)))
		})
	}
}

func TestBuildLineItems(t *testing.T) {
	b := domain.BundleConfig{ID: "b-1", BundleName: "Morning set"}
	cards := []widget.ProductCard{
		{Required: 2, Variant: domain.Variant{ID: "gid://shopify/ProductVariant/101"}},
		{Required: 1, Variant: domain.Variant{ID: "202"}},
	}

	items, err := widget.BuildLineItems(b, cards)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, uint64(101), items[0].ID)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, "b-1", items[0].Properties[domain.PropertyBundleID])
	assert.Equal(t, "Morning set", items[1].Properties[domain.PropertyBundleName])

	_, err = widget.BuildLineItems(b, []widget.ProductCard{{Variant: domain.Variant{ID: "x"}}})
	assert.Error(t, err)
}
