package api

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const bundleSchemaURL = "https://bundle-discount.local/schemas/bundle.schema.json"

// bundleSchema describes admin create/update payloads. Numbers are accepted
// as strings too because the theme editor posts form values.
const bundleSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["bundleName", "pricingOption", "products"],
  "properties": {
    "bundleName": {"type": "string", "minLength": 1, "maxLength": 255},
    "pricingOption": {"enum": ["default", "percentage", "fixedDiscount", "fixedPrice"]},
    "discountValue": {"type": ["string", "number"]},
    "products": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["productId"],
        "properties": {
          "productId": {"type": ["string", "integer"]},
          "name": {"type": "string"},
          "quantity": {"type": ["string", "integer"]}
        }
      }
    },
    "settings": {
      "type": "object",
      "properties": {
        "heading": {"type": "string"},
        "buttonText": {"type": "string"},
        "moneyFormat": {"type": "string"}
      }
    }
  }
}`

func compileBundleSchema() (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	if err := c.AddResource(bundleSchemaURL, strings.NewReader(bundleSchema)); err != nil {
		return nil, fmt.Errorf("failed to load bundle schema: %w", err)
	}
	schema, err := c.Compile(bundleSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("failed to compile bundle schema: %w", err)
	}
	return schema, nil
}

// validatePayload checks a raw request body against a compiled schema
func validatePayload(schema *jsonschema.Schema, body []byte) error {
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}
