package shopify

import (
	"fmt"
	"strconv"
	"strings"

	"bundle-discount-layer/internal/domain"

	goshopify "github.com/bold-commerce/go-shopify/v4"
	"github.com/shopspring/decimal"
)

// ToDomainProduct maps an admin API product to the shape the widget renders
func ToDomainProduct(p *goshopify.Product) *domain.Product {
	if p == nil {
		return nil
	}

	product := &domain.Product{
		ID:       domain.ProductGIDPrefix + strconv.FormatUint(p.Id, 10),
		Title:    p.Title,
		Handle:   p.Handle,
		Variants: make([]domain.Variant, 0, len(p.Variants)),
	}
	if len(p.Images) > 0 {
		product.Image = p.Images[0].Src
	}
	for _, o := range p.Options {
		product.Options = append(product.Options, domain.ProductOption{Name: o.Name, Values: o.Values})
	}

	for _, v := range p.Variants {
		product.Variants = append(product.Variants, toDomainVariant(v, product.ID, len(p.Options)))
	}
	return product
}

func toDomainVariant(v goshopify.Variant, productID string, optionCount int) domain.Variant {
	variant := domain.Variant{
		ID:                domain.VariantGIDPrefix + strconv.FormatUint(v.Id, 10),
		ProductID:         productID,
		Title:             v.Title,
		InventoryPolicy:   string(v.InventoryPolicy),
		InventoryQuantity: v.InventoryQuantity,
	}
	if v.Price != nil {
		variant.Price = *v.Price
	} else {
		variant.Price = decimal.Zero
	}
	if v.CompareAtPrice != nil {
		compareAt := *v.CompareAtPrice
		variant.CompareAtPrice = &compareAt
	}
	if management := string(v.InventoryManagement); management != "" {
		variant.InventoryManagement = &management
	}

	options := []string{v.Option1, v.Option2, v.Option3}
	if optionCount <= 0 || optionCount > len(options) {
		optionCount = len(options)
	}
	for _, o := range options[:optionCount] {
		if o == "" {
			break
		}
		variant.Options = append(variant.Options, o)
	}
	return variant
}

func toDomainMetafield(mf *goshopify.Metafield) *domain.ShopMetafield {
	out := &domain.ShopMetafield{
		ID:        mf.Id,
		Namespace: mf.Namespace,
		Key:       mf.Key,
	}
	switch v := mf.Value.(type) {
	case nil:
	case string:
		out.Value = v
	default:
		out.Value = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}
