package pubsub

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"

	"bundle-discount-layer/internal/domain"
	"bundle-discount-layer/internal/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultBufferSize is the per-subscription queue length
const DefaultBufferSize = 64

// Filter selects the webhook events a subscription receives.
// Empty fields match everything.
type Filter struct {
	Topics []string
	Shop   string
}

func (f Filter) matches(event *domain.WebhookEvent) bool {
	if len(f.Topics) > 0 && !slices.Contains(f.Topics, event.Topic) {
		return false
	}
	return f.Shop == "" || f.Shop == event.Shop
}

// Subscription delivers matching events until its context ends, after which
// Events is closed.
type Subscription struct {
	ID     string
	Events <-chan *domain.WebhookEvent

	filter Filter
	events chan *domain.WebhookEvent
	ctx    context.Context
	cancel context.CancelFunc
}

// Cancel ends the subscription
func (s *Subscription) Cancel() {
	s.cancel()
}

// Stats is a snapshot of bus activity
type Stats struct {
	Subscriptions int   `json:"subscriptions"`
	Published     int64 `json:"published"`
	Dropped       int64 `json:"dropped"`
}

// WebhookBus hands verified webhook events from the HTTP handler to
// background consumers so Shopify gets its acknowledgement without waiting
// for handlers to finish.
type WebhookBus struct {
	mu         sync.RWMutex
	subs       map[string]*Subscription
	bufferSize int
	published  atomic.Int64
	dropped    atomic.Int64
	logger     zerolog.Logger
}

// NewWebhookBus creates a new webhook bus
func NewWebhookBus(bufferSize int, logger zerolog.Logger) *WebhookBus {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &WebhookBus{
		subs:       make(map[string]*Subscription),
		bufferSize: bufferSize,
		logger:     logger,
	}
}

var _ ports.WebhookPublisher = (*WebhookBus)(nil)

// Subscribe registers a consumer for the events matching filter
func (b *WebhookBus) Subscribe(ctx context.Context, filter Filter) *Subscription {
	subCtx, cancel := context.WithCancel(ctx)
	events := make(chan *domain.WebhookEvent, b.bufferSize)

	sub := &Subscription{
		ID:     uuid.New().String(),
		Events: events,
		filter: filter,
		events: events,
		ctx:    subCtx,
		cancel: cancel,
	}

	b.mu.Lock()
	b.subs[sub.ID] = sub
	b.mu.Unlock()

	b.logger.Info().
		Str("subscriptionId", sub.ID).
		Strs("topics", filter.Topics).
		Msg("Webhook subscription created")

	go func() {
		<-subCtx.Done()
		b.unsubscribe(sub.ID)
	}()

	return sub
}

func (b *WebhookBus) unsubscribe(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub, ok := b.subs[id]
	if !ok {
		return
	}
	delete(b.subs, id)
	close(sub.events)

	b.logger.Info().Str("subscriptionId", id).Msg("Webhook subscription removed")
}

// Publish delivers an event to every matching subscription without blocking.
// Events for a full subscription queue are dropped and counted.
func (b *WebhookBus) Publish(event *domain.WebhookEvent) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	delivered := 0
	for _, sub := range b.subs {
		if !sub.filter.matches(event) {
			continue
		}
		select {
		case <-sub.ctx.Done():
		case sub.events <- event:
			delivered++
		default:
			b.dropped.Add(1)
			b.logger.Warn().
				Str("subscriptionId", sub.ID).
				Str("topic", event.Topic).
				Str("shop", event.Shop).
				Msg("Subscription queue full, dropping webhook event")
		}
	}

	b.published.Add(1)
	if delivered > 0 {
		b.logger.Debug().
			Str("topic", event.Topic).
			Str("shop", event.Shop).
			Int("subscribers", delivered).
			Msg("Published webhook event")
	}
	return delivered
}

// Stats returns bus statistics
func (b *WebhookBus) Stats() Stats {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return Stats{
		Subscriptions: len(b.subs),
		Published:     b.published.Load(),
		Dropped:       b.dropped.Load(),
	}
}
