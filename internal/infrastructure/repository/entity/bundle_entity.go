package entity

import (
	"time"

	"bundle-discount-layer/internal/domain"
)

// MongoBundleProductDoc is one product requirement of a bundle
type MongoBundleProductDoc struct {
	ProductID string `bson:"productId"`
	Name      string `bson:"name"`
	Quantity  string `bson:"quantity"`
}

// MongoWidgetSettingsDoc holds storefront display settings
type MongoWidgetSettingsDoc struct {
	Heading     string `bson:"heading,omitempty"`
	ButtonText  string `bson:"buttonText,omitempty"`
	MoneyFormat string `bson:"moneyFormat,omitempty"`
}

// MongoBundleDoc represents a bundle in MongoDB. Quantities and values are
// stored as entered so the metafield mirror stays byte-compatible.
type MongoBundleDoc struct {
	ID            string                  `bson:"_id"`
	ShopDomain    string                  `bson:"shopDomain"`
	BundleName    string                  `bson:"bundleName"`
	PricingOption string                  `bson:"pricingOption"`
	DiscountValue string                  `bson:"discountValue"`
	Products      []MongoBundleProductDoc `bson:"products"`
	Settings      *MongoWidgetSettingsDoc `bson:"settings,omitempty"`
	CreatedAt     time.Time               `bson:"createdAt"`
	UpdatedAt     time.Time               `bson:"updatedAt"`
}

// ToDomain converts the MongoDB document to a domain entity
func (d *MongoBundleDoc) ToDomain() *domain.BundleConfig {
	bundle := &domain.BundleConfig{
		ID:            d.ID,
		ShopDomain:    d.ShopDomain,
		BundleName:    d.BundleName,
		PricingOption: domain.PricingOption(d.PricingOption),
		DiscountValue: domain.FlexString(d.DiscountValue),
		Products:      make([]domain.BundleProduct, 0, len(d.Products)),
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}

	for _, p := range d.Products {
		bundle.Products = append(bundle.Products, domain.BundleProduct{
			ProductID: domain.FlexString(p.ProductID),
			Name:      p.Name,
			Quantity:  domain.FlexString(p.Quantity),
		})
	}

	if d.Settings != nil {
		bundle.Settings = &domain.WidgetSettings{
			Heading:     d.Settings.Heading,
			ButtonText:  d.Settings.ButtonText,
			MoneyFormat: d.Settings.MoneyFormat,
		}
	}

	return bundle
}

// MongoBundleDocFromDomain converts a domain entity to a MongoDB document
func MongoBundleDocFromDomain(bundle *domain.BundleConfig) *MongoBundleDoc {
	doc := &MongoBundleDoc{
		ID:            bundle.ID,
		ShopDomain:    bundle.ShopDomain,
		BundleName:    bundle.BundleName,
		PricingOption: string(bundle.PricingOption),
		DiscountValue: bundle.DiscountValue.String(),
		Products:      make([]MongoBundleProductDoc, 0, len(bundle.Products)),
		CreatedAt:     bundle.CreatedAt,
		UpdatedAt:     bundle.UpdatedAt,
	}

	for _, p := range bundle.Products {
		doc.Products = append(doc.Products, MongoBundleProductDoc{
			ProductID: p.ProductID.String(),
			Name:      p.Name,
			Quantity:  p.Quantity.String(),
		})
	}

	if bundle.Settings != nil {
		doc.Settings = &MongoWidgetSettingsDoc{
			Heading:     bundle.Settings.Heading,
			ButtonText:  bundle.Settings.ButtonText,
			MoneyFormat: bundle.Settings.MoneyFormat,
		}
	}

	return doc
}
