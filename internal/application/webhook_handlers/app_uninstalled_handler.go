package webhook_handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"bundle-discount-layer/internal/application"
	"bundle-discount-layer/internal/domain"

	"github.com/rs/zerolog"
)

// AppUninstalledHandler handles app uninstalled webhook events
type AppUninstalledHandler struct {
	logger         zerolog.Logger
	bundles        *application.BundleService
	shopifyService *application.ShopifyService
}

// NewAppUninstalledHandler creates a new app uninstalled webhook handler
func NewAppUninstalledHandler(
	logger zerolog.Logger,
	bundles *application.BundleService,
	shopifyService *application.ShopifyService,
) *AppUninstalledHandler {
	return &AppUninstalledHandler{
		logger:         logger,
		bundles:        bundles,
		shopifyService: shopifyService,
	}
}

// CanHandle returns true if this handler can process the given topic
func (h *AppUninstalledHandler) CanHandle(topic string) bool {
	return topic == domain.TopicAppUninstalled
}

type shopPayload struct {
	Domain          string `json:"domain"`
	MyshopifyDomain string `json:"myshopify_domain"`
}

// Handle removes the shop's bundles and its access token
func (h *AppUninstalledHandler) Handle(ctx context.Context, event *domain.WebhookEvent) error {
	shopDomain := event.Shop
	if shopDomain == "" {
		var payload shopPayload
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			return fmt.Errorf("failed to parse app uninstalled webhook payload: %w", err)
		}
		shopDomain = payload.MyshopifyDomain
		if shopDomain == "" {
			shopDomain = payload.Domain
		}
	}
	if shopDomain == "" {
		return fmt.Errorf("app uninstalled webhook has no shop domain")
	}

	h.logger.Info().Str("topic", event.Topic).Str("shop", shopDomain).Msg("Processing app uninstalled webhook event")

	removed, err := h.bundles.DeleteAllForShop(ctx, shopDomain)
	if err != nil {
		return err
	}

	if err := h.shopifyService.RemoveShop(ctx, shopDomain); err != nil {
		return err
	}

	h.logger.Info().
		Str("shop", shopDomain).
		Int64("bundlesRemoved", removed).
		Msg("App uninstalled - cleanup completed")
	return nil
}
