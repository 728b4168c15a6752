package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"bundle-discount-layer/internal/domain"
	"bundle-discount-layer/internal/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// WebhookHandler processes webhook events of the topics it accepts
type WebhookHandler interface {
	CanHandle(topic string) bool
	Handle(ctx context.Context, event *domain.WebhookEvent) error
}

// WebhookDispatcher logs verified webhook events and routes them to handlers
type WebhookDispatcher struct {
	mu         sync.RWMutex
	handlers   []WebhookHandler
	repository ports.Repository
	metrics    ports.Metrics
	logger     zerolog.Logger
}

// NewWebhookDispatcher creates a new webhook dispatcher
func NewWebhookDispatcher(repository ports.Repository, metrics ports.Metrics, logger zerolog.Logger) *WebhookDispatcher {
	return &WebhookDispatcher{
		repository: repository,
		metrics:    metrics,
		logger:     logger,
	}
}

// RegisterHandler adds a handler; handlers run in registration order
func (d *WebhookDispatcher) RegisterHandler(handler WebhookHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers = append(d.handlers, handler)
}

// ProcessWebhook records a webhook delivery and returns the event to dispatch.
// A failure to log is returned alongside the event, which is still usable.
func (d *WebhookDispatcher) ProcessWebhook(ctx context.Context, topic string, shop string, payload []byte, verified bool) (*domain.WebhookEvent, error) {
	event := &domain.WebhookEvent{
		ID:        uuid.New().String(),
		Topic:     topic,
		Shop:      shop,
		Payload:   payload,
		Verified:  verified,
		CreatedAt: time.Now().UTC(),
	}

	if err := d.repository.LogWebhook(ctx, event); err != nil {
		d.logger.Error().Err(err).Str("topic", topic).Str("shop", shop).Msg("Failed to log webhook")
		return event, fmt.Errorf("failed to log webhook: %w", err)
	}

	d.logger.Info().Str("topic", topic).Str("shop", shop).Bool("verified", verified).Msg("Webhook processed")
	return event, nil
}

// Dispatch runs every handler accepting the event topic
func (d *WebhookDispatcher) Dispatch(ctx context.Context, event *domain.WebhookEvent) error {
	d.mu.RLock()
	handlers := make([]WebhookHandler, len(d.handlers))
	copy(handlers, d.handlers)
	d.mu.RUnlock()

	var errs []error
	handled := false
	for _, h := range handlers {
		if !h.CanHandle(event.Topic) {
			continue
		}
		handled = true
		if err := h.Handle(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if d.metrics != nil {
		d.metrics.WebhookReceived(event.Topic, handled)
	}
	if !handled {
		d.logger.Debug().Str("topic", event.Topic).Str("shop", event.Shop).Msg("No handler for webhook topic")
	}
	return errors.Join(errs...)
}

// Consume dispatches events from a subscription until it is closed or ctx ends
func (d *WebhookDispatcher) Consume(ctx context.Context, events <-chan *domain.WebhookEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := d.Dispatch(ctx, event); err != nil {
				d.logger.Error().
					Err(err).
					Str("topic", event.Topic).
					Str("shop", event.Shop).
					Msg("Failed to dispatch webhook event")
			}
		}
	}
}
