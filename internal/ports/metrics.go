package ports

// Metrics records application counters
type Metrics interface {
	WidgetEvent(eventType string)
	CacheLookup(hit bool)
	WebhookReceived(topic string, handled bool)
	MetafieldSync(success bool)
	DiscountPreview(applied bool)
}
