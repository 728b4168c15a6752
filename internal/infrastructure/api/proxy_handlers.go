package api

import (
	"encoding/json"
	"net/http"

	"bundle-discount-layer/internal/domain"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleProxyBundle(w http.ResponseWriter, r *http.Request) {
	shop := domain.GetShopDomainFromContext(r.Context())

	bundle, err := s.opts.Catalog.Bundle(r.Context(), shop, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bundle)
}

func (s *Server) handleProxyBundleProducts(w http.ResponseWriter, r *http.Request) {
	shop := domain.GetShopDomainFromContext(r.Context())

	details, err := s.opts.Catalog.BundleProducts(r.Context(), shop, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if details == nil {
		details = []domain.BundleProductDetails{}
	}
	writeJSON(w, http.StatusOK, details)
}

func (s *Server) handleProxyVariants(w http.ResponseWriter, r *http.Request) {
	shop := domain.GetShopDomainFromContext(r.Context())

	variants, err := s.opts.Catalog.ProductVariants(r.Context(), shop, chi.URLParam(r, "productId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if variants == nil {
		variants = []domain.Variant{}
	}
	writeJSON(w, http.StatusOK, variants)
}

// handleProxyAnalytics records a widget beacon. Storage failures are logged
// and still answered with 202: beacons are fire-and-forget.
func (s *Server) handleProxyAnalytics(w http.ResponseWriter, r *http.Request) {
	shop := domain.GetShopDomainFromContext(r.Context())

	var event domain.AnalyticsEvent
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&event); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid analytics payload")
		return
	}

	recorded, err := s.opts.Analytics.Record(r.Context(), shop, event)
	if err != nil {
		if statusFor(err) == http.StatusUnprocessableEntity {
			writeServiceError(w, err)
			return
		}
		s.logger.Warn().Err(err).Str("shop", shop).Msg("Failed to record analytics event")
	}
	if recorded == nil {
		recorded = &event
	}
	writeJSON(w, http.StatusAccepted, recorded)
}
