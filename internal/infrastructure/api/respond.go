package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"bundle-discount-layer/internal/application"
	"bundle-discount-layer/internal/domain"
)

type errorResponse struct {
	Error  string               `json:"error"`
	Bundle *domain.BundleConfig `json:"bundle,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// statusFor maps application errors to HTTP statuses. A metafield sync failure
// is checked first: the change was stored but checkout does not see it yet.
func statusFor(err error) int {
	switch {
	case application.IsMetafieldSyncError(err):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrBundleNotFound),
		errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrShopNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidBundle),
		errors.Is(err, domain.ErrInvalidShop),
		errors.Is(err, domain.ErrInvalidEvent):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError writes err with its mapped status. Internal errors are not
// echoed to the client.
func writeServiceError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		writeError(w, status, "Internal server error")
		return
	}
	writeError(w, status, err.Error())
}
