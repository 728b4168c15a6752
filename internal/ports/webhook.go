package ports

import (
	"bundle-discount-layer/internal/domain"
)

// WebhookPublisher hands verified webhook events to asynchronous consumers.
// Publish returns how many subscribers received the event.
type WebhookPublisher interface {
	Publish(event *domain.WebhookEvent) int
}
