package domain

import "time"

const (
	TopicProductsUpdate = "products/update"
	TopicProductsDelete = "products/delete"
	TopicAppUninstalled = "app/uninstalled"
)

// WebhookEvent is a verified webhook delivery from Shopify
type WebhookEvent struct {
	ID        string    `json:"id" bson:"_id"`
	Topic     string    `json:"topic" bson:"topic"`
	Shop      string    `json:"shop" bson:"shop"`
	Payload   []byte    `json:"payload" bson:"payload"`
	Verified  bool      `json:"verified" bson:"verified"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
