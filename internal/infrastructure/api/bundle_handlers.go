package api

import (
	"encoding/json"
	"io"
	"net/http"

	"bundle-discount-layer/internal/application"
	"bundle-discount-layer/internal/domain"

	"github.com/go-chi/chi/v5"
)

func (s *Server) readBundle(w http.ResponseWriter, r *http.Request) (*domain.BundleConfig, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read request body")
		return nil, false
	}
	if err := validatePayload(s.bundleSchema, body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}

	var bundle domain.BundleConfig
	if err := json.Unmarshal(body, &bundle); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid bundle payload")
		return nil, false
	}
	return &bundle, true
}

// writeMutation answers a create/update. A metafield sync failure still
// returns the stored bundle so the admin can retry the sync by saving again.
func writeMutation(w http.ResponseWriter, status int, bundle *domain.BundleConfig, err error) {
	if err != nil {
		if application.IsMetafieldSyncError(err) && bundle != nil {
			writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error(), Bundle: bundle})
			return
		}
		writeServiceError(w, err)
		return
	}
	writeJSON(w, status, bundle)
}

func (s *Server) handleListBundles(w http.ResponseWriter, r *http.Request) {
	shop := domain.GetShopDomainFromContext(r.Context())

	bundles, err := s.opts.Bundles.List(r.Context(), shop)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if bundles == nil {
		bundles = []*domain.BundleConfig{}
	}
	writeJSON(w, http.StatusOK, bundles)
}

func (s *Server) handleCreateBundle(w http.ResponseWriter, r *http.Request) {
	shop := domain.GetShopDomainFromContext(r.Context())

	bundle, ok := s.readBundle(w, r)
	if !ok {
		return
	}

	created, err := s.opts.Bundles.Create(r.Context(), shop, bundle)
	writeMutation(w, http.StatusCreated, created, err)
}

func (s *Server) handleGetBundle(w http.ResponseWriter, r *http.Request) {
	shop := domain.GetShopDomainFromContext(r.Context())

	bundle, err := s.opts.Bundles.Get(r.Context(), shop, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bundle)
}

func (s *Server) handleUpdateBundle(w http.ResponseWriter, r *http.Request) {
	shop := domain.GetShopDomainFromContext(r.Context())

	bundle, ok := s.readBundle(w, r)
	if !ok {
		return
	}

	updated, err := s.opts.Bundles.Update(r.Context(), shop, chi.URLParam(r, "id"), bundle)
	writeMutation(w, http.StatusOK, updated, err)
}

func (s *Server) handleDeleteBundle(w http.ResponseWriter, r *http.Request) {
	shop := domain.GetShopDomainFromContext(r.Context())

	if err := s.opts.Bundles.Delete(r.Context(), shop, chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	shop := domain.GetShopDomainFromContext(r.Context())

	var req application.PreviewRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid preview payload")
		return
	}

	result, err := s.opts.Bundles.Preview(r.Context(), shop, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type registerShopRequest struct {
	AccessToken string   `json:"accessToken"`
	Scopes      []string `json:"scopes"`
}

// handleRegisterShop stores the offline access token obtained by the
// installation flow.
func (s *Server) handleRegisterShop(w http.ResponseWriter, r *http.Request) {
	shop := domain.GetShopDomainFromContext(r.Context())

	var req registerShopRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid shop payload")
		return
	}

	registered, err := s.opts.Shopify.RegisterShop(r.Context(), shop, req.AccessToken, req.Scopes)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, registered)
}
