package domain

import "time"

// AnalyticsEventType is the kind of widget beacon
type AnalyticsEventType string

const (
	EventImpression AnalyticsEventType = "impression"
	EventAddToCart  AnalyticsEventType = "add_to_cart"
)

// IsKnown reports whether the event type is accepted by the beacon endpoint
func (t AnalyticsEventType) IsKnown() bool {
	return t == EventImpression || t == EventAddToCart
}

// AnalyticsEvent is a storefront widget beacon
type AnalyticsEvent struct {
	ID         string             `json:"id"`
	Shop       string             `json:"shop,omitempty"`
	BundleID   string             `json:"bundleId"`
	Type       AnalyticsEventType `json:"type"`
	SessionID  string             `json:"sessionId,omitempty"`
	OccurredAt time.Time          `json:"occurredAt"`
}
