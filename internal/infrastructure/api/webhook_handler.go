package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

type webhookShopPayload struct {
	Domain          string `json:"domain"`
	MyshopifyDomain string `json:"myshopify_domain"`
}

// handleWebhook verifies and records a Shopify webhook, then hands it to the
// publisher. Without a publisher the event is dispatched inline and a handler
// failure answers 500 so Shopify retries the delivery.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	topic := r.Header.Get("X-Shopify-Topic")
	if topic == "" {
		s.logger.Warn().Msg("Missing X-Shopify-Topic header")
		writeError(w, http.StatusBadRequest, "Missing X-Shopify-Topic header")
		return
	}

	verified := false
	if s.opts.Verifier != nil {
		if !s.opts.Verifier.VerifyWebhook(r) {
			s.logger.Warn().Str("topic", topic).Msg("Webhook signature verification failed")
			writeError(w, http.StatusUnauthorized, "Invalid signature")
			return
		}
		verified = true
	}

	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to read webhook payload")
		writeError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}
	defer r.Body.Close()

	shop := strings.TrimSpace(r.Header.Get(shopDomainHeader))
	if shop == "" {
		var data webhookShopPayload
		if err := json.Unmarshal(payload, &data); err == nil {
			shop = data.MyshopifyDomain
			if shop == "" {
				shop = data.Domain
			}
		}
	}

	event, err := s.opts.Dispatcher.ProcessWebhook(ctx, topic, shop, payload, verified)
	if err != nil {
		// Continue processing even if logging fails
		s.logger.Error().Err(err).Str("topic", topic).Msg("Failed to log webhook event")
	}

	if s.opts.Publisher != nil {
		if n := s.opts.Publisher.Publish(event); n == 0 {
			s.logger.Warn().Str("topic", topic).Str("shop", shop).Msg("No subscriber accepted webhook event")
		}
	} else if err := s.opts.Dispatcher.Dispatch(ctx, event); err != nil {
		s.logger.Error().Err(err).Str("topic", topic).Str("shop", shop).Msg("Failed to dispatch webhook event")
		writeError(w, http.StatusInternalServerError, "Failed to process webhook event")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"received": "true"})
}
