package widget

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"bundle-discount-layer/internal/domain"
)

// DefaultCartErrorMessage is shown when the cart response carries nothing readable
const DefaultCartErrorMessage = "Could not add the bundle to your cart. Please try again."

// BuildLineItems returns one cart line item per card, tagged with the bundle properties
func BuildLineItems(bundle domain.BundleConfig, cards []ProductCard) ([]domain.CartAddItem, error) {
	items := make([]domain.CartAddItem, 0, len(cards))
	for _, card := range cards {
		variantID, err := domain.NumericID(card.Variant.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve variant of %q: %w", card.Product.Title, err)
		}
		items = append(items, domain.CartAddItem{
			ID:       variantID,
			Quantity: card.Required,
			Properties: map[string]string{
				domain.PropertyBundleID:   bundle.ID,
				domain.PropertyBundleName: bundle.DisplayName(),
			},
		})
	}
	return items, nil
}

type cartErrorBody struct {
	Description string          `json:"description"`
	Message     string          `json:"message"`
	Errors      json.RawMessage `json:"errors"`
}

// ParseCartErrorMessage extracts a shopper-readable message from a cart error
// body: description, then message, then errors, then the raw text.
func ParseCartErrorMessage(body []byte) string {
	raw := strings.TrimSpace(string(body))
	if raw == "" {
		return DefaultCartErrorMessage
	}

	var parsed cartErrorBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		return raw
	}
	if msg := strings.TrimSpace(parsed.Description); msg != "" {
		return msg
	}
	if msg := strings.TrimSpace(parsed.Message); msg != "" {
		return msg
	}
	if msg := flattenErrors(parsed.Errors); msg != "" {
		return msg
	}
	return DefaultCartErrorMessage
}

// flattenErrors renders the "errors" field, which the cart returns as a
// string, a list of strings or an object of field -> messages.
func flattenErrors(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return strings.Join(list, " ")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err == nil {
		parts := make([]string, 0, len(fields))
		for _, key := range sortedKeys(fields) {
			if msg := flattenErrors(fields[key]); msg != "" {
				parts = append(parts, msg)
			}
		}
		return strings.Join(parts, " ")
	}
	return ""
}

func sortedKeys(m map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
