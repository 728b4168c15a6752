package domain

import "context"

type contextKey string

const shopDomainKey contextKey = "shop_domain"

// WithShopDomain stores the shop domain of the current request in the context
func WithShopDomain(ctx context.Context, shop string) context.Context {
	return context.WithValue(ctx, shopDomainKey, shop)
}

// GetShopDomainFromContext returns the shop domain stored by WithShopDomain, or ""
func GetShopDomainFromContext(ctx context.Context) string {
	if shop, ok := ctx.Value(shopDomainKey).(string); ok {
		return shop
	}
	return ""
}
