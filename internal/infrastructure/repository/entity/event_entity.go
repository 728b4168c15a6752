package entity

import (
	"time"

	"bundle-discount-layer/internal/domain"
)

// MongoWebhookDoc is a logged webhook delivery
type MongoWebhookDoc struct {
	ID        string    `bson:"_id"`
	Topic     string    `bson:"topic"`
	Shop      string    `bson:"shop"`
	Payload   string    `bson:"payload"`
	Verified  bool      `bson:"verified"`
	CreatedAt time.Time `bson:"createdAt"`
}

// MongoWebhookDocFromDomain converts a webhook event to a MongoDB document.
// The payload is kept as text so it stays readable in the collection.
func MongoWebhookDocFromDomain(event *domain.WebhookEvent) *MongoWebhookDoc {
	return &MongoWebhookDoc{
		ID:        event.ID,
		Topic:     event.Topic,
		Shop:      event.Shop,
		Payload:   string(event.Payload),
		Verified:  event.Verified,
		CreatedAt: event.CreatedAt,
	}
}

// MongoAnalyticsDoc is a recorded widget beacon
type MongoAnalyticsDoc struct {
	ID         string    `bson:"_id"`
	Shop       string    `bson:"shop"`
	BundleID   string    `bson:"bundleId"`
	Type       string    `bson:"type"`
	SessionID  string    `bson:"sessionId,omitempty"`
	OccurredAt time.Time `bson:"occurredAt"`
}

// MongoAnalyticsDocFromDomain converts an analytics event to a MongoDB document
func MongoAnalyticsDocFromDomain(event *domain.AnalyticsEvent) *MongoAnalyticsDoc {
	return &MongoAnalyticsDoc{
		ID:         event.ID,
		Shop:       event.Shop,
		BundleID:   event.BundleID,
		Type:       string(event.Type),
		SessionID:  event.SessionID,
		OccurredAt: event.OccurredAt,
	}
}
