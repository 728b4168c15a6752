package domain

import "time"

// Shop represents an installed shop and its Admin API access token
type Shop struct {
	ID          string    `json:"id" bson:"_id"`
	Domain      string    `json:"domain" bson:"domain"`
	AccessToken string    `json:"-" bson:"access_token"`
	Scopes      []string  `json:"scopes" bson:"scopes"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

// ShopMetafield is a shop-owned metafield as stored by the admin API
type ShopMetafield struct {
	ID        uint64 `json:"id"`
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
	Value     string `json:"value"`
}
