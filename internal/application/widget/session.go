// Package widget is the storefront side of a bundle: it loads the bundle and
// its products, tracks the shopper's variant choices, previews the bundle
// price and submits the bundle to the cart.
package widget

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"bundle-discount-layer/internal/domain"
	"bundle-discount-layer/internal/pricing"
	"bundle-discount-layer/internal/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// State is the lifecycle state of a widget session
type State string

const (
	StateLoading         State = "loading"
	StateReady           State = "ready"
	StateVariantChanging State = "variant_changing"
	StateAddingToCart    State = "adding_to_cart"
	StateError           State = "error"
	StateAbandoned       State = "abandoned"
)

const (
	// CartURL is where the shopper lands after a successful add
	CartURL = "/cart"

	// UnavailableMessage blocks submission while a card shows an unavailable variant
	UnavailableMessage = "Some selected options are unavailable. Please choose another option."

	analyticsTimeout = 5 * time.Second
)

var (
	ErrNotReady       = errors.New("widget is not ready")
	ErrUnknownProduct = errors.New("unknown product card")
)

// ProductCard is the shopper-facing state of one bundle product
type ProductCard struct {
	Product  domain.Product
	Required int
	Variant  domain.Variant
	Selected []string
	// Missing is set when the selected option combination has no variant
	Missing bool
}

// Available reports whether the card can be submitted
func (c ProductCard) Available() bool {
	return !c.Missing && IsAvailable(c.Variant)
}

// LineTotal is the unit price times the required quantity
func (c ProductCard) LineTotal() decimal.Decimal {
	return c.Variant.Price.Mul(decimal.NewFromInt(int64(c.Required)))
}

// Preview is the estimated shopper-facing bundle price. The checkout
// function decides the discount actually applied.
type Preview struct {
	Original   decimal.Decimal
	Total      decimal.Decimal
	Savings    decimal.Decimal
	Discounted bool

	OriginalText string
	TotalText    string
}

// CartOutcome is the result of an add-to-cart attempt
type CartOutcome struct {
	Added       bool
	RedirectURL string
	// Message is an inline, recoverable message for the shopper
	Message string
}

// Session holds the state of one rendered bundle widget
type Session struct {
	mu sync.Mutex

	id       string
	bundleID string
	api      ports.StorefrontAPI
	logger   zerolog.Logger

	bundle  *domain.BundleConfig
	cards   []ProductCard
	state   State
	message string
	pending int
}

// NewSession creates a widget session for a bundle
func NewSession(bundleID string, api ports.StorefrontAPI, logger zerolog.Logger) *Session {
	id := uuid.New().String()
	return &Session{
		id:       id,
		bundleID: bundleID,
		api:      api,
		logger:   logger.With().Str("widget_session", id).Str("bundle_id", bundleID).Logger(),
		state:    StateLoading,
	}
}

// ID returns the session id sent with analytics beacons
func (s *Session) ID() string {
	return s.id
}

// State returns the current state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Message returns the current inline message, if any
func (s *Session) Message() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.message
}

// Bundle returns the loaded bundle, or nil before a successful load
func (s *Session) Bundle() *domain.BundleConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bundle == nil {
		return nil
	}
	b := *s.bundle
	return &b
}

// Cards returns a copy of the product cards
func (s *Session) Cards() []ProductCard {
	s.mu.Lock()
	defer s.mu.Unlock()
	cards := make([]ProductCard, len(s.cards))
	copy(cards, s.cards)
	return cards
}

// Load fetches the bundle and its products. Any failure abandons the session
// silently: the widget is not rendered and the product page is unaffected.
func (s *Session) Load(ctx context.Context) bool {
	bundle, err := s.api.FetchBundle(ctx, s.bundleID)
	if err != nil || bundle == nil {
		s.abandon(err, "Failed to load bundle")
		return false
	}

	details, err := s.api.FetchBundleProducts(ctx, s.bundleID)
	if err != nil {
		s.abandon(err, "Failed to load bundle products")
		return false
	}

	cards := make([]ProductCard, 0, len(details))
	for _, d := range details {
		variant, ok := InitialVariant(d.Product.Variants)
		if !ok {
			s.logger.Debug().Str("product_id", d.Product.ID).Msg("Skipping product without variants")
			continue
		}
		required := d.Quantity
		if required <= 0 {
			required = 1
		}
		cards = append(cards, ProductCard{
			Product:  d.Product,
			Required: required,
			Variant:  variant,
			Selected: append([]string(nil), variant.Options...),
		})
	}
	if len(cards) == 0 {
		s.abandon(nil, "Bundle has no displayable products")
		return false
	}

	s.mu.Lock()
	s.bundle = bundle
	s.cards = cards
	s.state = StateReady
	s.mu.Unlock()

	s.track(domain.EventImpression)
	return true
}

func (s *Session) abandon(err error, msg string) {
	s.mu.Lock()
	s.state = StateAbandoned
	s.mu.Unlock()
	s.logger.Debug().Err(err).Msg(msg)
}

// ChangeVariant selects the variant matching the given option values on a
// card. It is also accepted after a failed add to cart and brings the session
// back to ready. Variants already fetched are searched first; on a miss the product's
// variants are fetched again. Overlapping changes are not cancelled: the last
// response to arrive wins.
func (s *Session) ChangeVariant(ctx context.Context, card int, selected []string) error {
	s.mu.Lock()
	if s.state != StateReady && s.state != StateVariantChanging && s.state != StateError {
		s.mu.Unlock()
		return ErrNotReady
	}
	if card < 0 || card >= len(s.cards) {
		s.mu.Unlock()
		return ErrUnknownProduct
	}

	selected = append([]string(nil), selected...)
	if variant, ok := FindVariant(s.cards[card].Product.Variants, selected); ok {
		s.applyVariant(card, selected, variant, true)
		if s.state == StateError {
			s.state = StateReady
		}
		s.mu.Unlock()
		return nil
	}

	productID := s.cards[card].Product.ID
	s.pending++
	s.state = StateVariantChanging
	s.mu.Unlock()

	variants, err := s.api.FetchVariants(ctx, productID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending--
	if s.pending == 0 && s.state == StateVariantChanging {
		s.state = StateReady
	}

	if err != nil {
		s.applyVariant(card, selected, domain.Variant{}, false)
		return fmt.Errorf("failed to fetch variants of %s: %w", productID, err)
	}

	if len(variants) > 0 {
		s.cards[card].Product.Variants = variants
	}
	variant, ok := FindVariant(s.cards[card].Product.Variants, selected)
	s.applyVariant(card, selected, variant, ok)
	return nil
}

// applyVariant updates a card; callers hold the lock
func (s *Session) applyVariant(card int, selected []string, variant domain.Variant, found bool) {
	c := &s.cards[card]
	c.Selected = selected
	c.Missing = !found
	if found {
		c.Variant = variant
	}
	s.message = ""
}

// Preview recomputes the bundle price from the displayed variants:
// sum of unit price times required quantity, then the bundle's pricing option
// for one bundle set.
func (s *Session) Preview() Preview {
	s.mu.Lock()
	defer s.mu.Unlock()

	var format string
	original := decimal.Zero
	for _, c := range s.cards {
		original = original.Add(c.LineTotal())
	}

	p := Preview{Original: original, Total: original}
	if s.bundle != nil {
		if s.bundle.Settings != nil {
			format = s.bundle.Settings.MoneyFormat
		}
		if outcome, ok := pricing.Apply(s.bundle.PricingOption, s.bundle.DiscountValue.String(), original, 1); ok {
			p.Total = outcome.Total
			p.Savings = original.Sub(outcome.Total)
			p.Discounted = true
		}
	}

	p.OriginalText = FormatMoney(p.Original, format)
	p.TotalText = FormatMoney(p.Total, format)
	return p
}

// AddToCart submits one line item per product card. Unavailable selections,
// cart rejections and network failures all produce an inline message; only
// network failures move the session to the error state, from which the
// shopper may retry.
func (s *Session) AddToCart(ctx context.Context) CartOutcome {
	s.mu.Lock()
	if s.state != StateReady && s.state != StateError {
		s.mu.Unlock()
		return CartOutcome{Message: ErrNotReady.Error()}
	}

	for _, c := range s.cards {
		if !c.Available() {
			s.message = UnavailableMessage
			s.mu.Unlock()
			return CartOutcome{Message: UnavailableMessage}
		}
	}

	items, err := BuildLineItems(*s.bundle, s.cards)
	if err != nil {
		s.message = DefaultCartErrorMessage
		s.mu.Unlock()
		s.logger.Error().Err(err).Msg("Failed to build cart line items")
		return CartOutcome{Message: DefaultCartErrorMessage}
	}

	s.state = StateAddingToCart
	s.message = ""
	s.mu.Unlock()

	err = s.api.AddToCart(ctx, items)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		var cartErr *domain.CartError
		if errors.As(err, &cartErr) {
			s.state = StateReady
			s.message = ParseCartErrorMessage(cartErr.Body)
			s.logger.Warn().Int("status", cartErr.StatusCode).Str("message", s.message).Msg("Cart rejected bundle")
		} else {
			s.state = StateError
			s.message = DefaultCartErrorMessage
			s.logger.Warn().Err(err).Msg("Failed to submit bundle to cart")
		}
		return CartOutcome{Message: s.message}
	}

	s.state = StateReady
	s.track(domain.EventAddToCart)
	return CartOutcome{Added: true, RedirectURL: CartURL}
}

// track sends an analytics beacon in the background. Failures are swallowed.
func (s *Session) track(eventType domain.AnalyticsEventType) {
	event := domain.AnalyticsEvent{
		ID:         uuid.New().String(),
		BundleID:   s.bundleID,
		Type:       eventType,
		SessionID:  s.id,
		OccurredAt: time.Now().UTC(),
	}

	send := func() {
		ctx, cancel := context.WithTimeout(context.Background(), analyticsTimeout)
		defer cancel()
		if err := s.api.SendAnalytics(ctx, event); err != nil {
			s.logger.Debug().Err(err).Str("event", string(eventType)).Msg("Analytics beacon failed")
		}
	}

	go send()
}
