package webhook_handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"bundle-discount-layer/internal/application"
	"bundle-discount-layer/internal/domain"

	"github.com/rs/zerolog"
)

// ProductHandler keeps cached product data and bundles in step with product changes
type ProductHandler struct {
	catalog *application.CatalogService
	bundles *application.BundleService
	logger  zerolog.Logger
}

// NewProductHandler creates a new product webhook handler
func NewProductHandler(catalog *application.CatalogService, bundles *application.BundleService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		catalog: catalog,
		bundles: bundles,
		logger:  logger,
	}
}

// CanHandle returns true if this handler can process the given topic
func (h *ProductHandler) CanHandle(topic string) bool {
	return topic == domain.TopicProductsUpdate || topic == domain.TopicProductsDelete
}

type productPayload struct {
	ID    uint64 `json:"id"`
	Title string `json:"title"`
}

// Handle processes a product webhook event
func (h *ProductHandler) Handle(ctx context.Context, event *domain.WebhookEvent) error {
	var payload productPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return fmt.Errorf("failed to parse product webhook payload: %w", err)
	}
	if payload.ID == 0 {
		return fmt.Errorf("product webhook payload has no id")
	}

	productID := domain.ProductGIDPrefix + strconv.FormatUint(payload.ID, 10)

	h.logger.Info().
		Str("topic", event.Topic).
		Str("shop", event.Shop).
		Str("productId", productID).
		Str("title", payload.Title).
		Msg("Processing product webhook event")

	if err := h.catalog.Invalidate(ctx, event.Shop, productID); err != nil {
		h.logger.Warn().Err(err).Str("shop", event.Shop).Str("productId", productID).Msg("Failed to invalidate product cache")
	}

	if event.Topic != domain.TopicProductsDelete {
		return nil
	}

	changed, err := h.bundles.RemoveProduct(ctx, event.Shop, productID)
	if err != nil {
		return fmt.Errorf("failed to remove deleted product from bundles: %w", err)
	}
	if changed > 0 {
		h.logger.Info().Str("shop", event.Shop).Str("productId", productID).Int("bundles", changed).Msg("Deleted product removed from bundles")
	}
	return nil
}
