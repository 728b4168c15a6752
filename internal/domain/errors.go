package domain

import "errors"

var (
	ErrBundleNotFound  = errors.New("bundle not found")
	ErrInvalidBundle   = errors.New("invalid bundle")
	ErrShopNotFound    = errors.New("shop not found")
	ErrInvalidShop     = errors.New("invalid shop")
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidEvent    = errors.New("invalid analytics event")
	ErrMetafieldSync   = errors.New("bundle metafield sync failed")
)
