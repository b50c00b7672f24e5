package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/Sameer-A01/restaurant-api/internal/cart"
	"github.com/Sameer-A01/restaurant-api/internal/catalog"
	"github.com/Sameer-A01/restaurant-api/internal/checkout"
	"github.com/Sameer-A01/restaurant-api/internal/domain"
	"github.com/Sameer-A01/restaurant-api/internal/journal"
	"github.com/Sameer-A01/restaurant-api/internal/pricing"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleDomainError maps engine errors to HTTP status codes. Every failure is
// surfaced synchronously; nothing here retries or papers over an error.
func handleDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, cart.ErrOutOfStock):
		respondError(w, http.StatusConflict, "out_of_stock", err.Error())
	case errors.Is(err, cart.ErrUnknownItem):
		respondError(w, http.StatusNotFound, "unknown_item", err.Error())
	case errors.Is(err, cart.ErrNoCatalog), errors.Is(err, catalog.ErrCatalogUnavailable):
		respondError(w, http.StatusServiceUnavailable, "catalog_unavailable", err.Error())
	case errors.Is(err, pricing.ErrInvalidPolicy):
		respondError(w, http.StatusBadRequest, "invalid_policy", err.Error())
	case errors.Is(err, domain.ErrHalfBoundReservation):
		respondError(w, http.StatusBadRequest, "half_bound_reservation", err.Error())
	case errors.Is(err, checkout.ErrEmptyCart):
		respondError(w, http.StatusBadRequest, "empty_cart", err.Error())
	case errors.Is(err, checkout.ErrIncompleteReservation):
		respondError(w, http.StatusConflict, "incomplete_reservation", err.Error())
	case errors.Is(err, checkout.ErrOrderSubmissionFailed):
		respondError(w, http.StatusBadGateway, "order_submission_failed", err.Error())
	case errors.Is(err, journal.ErrOrderNotFound):
		respondError(w, http.StatusNotFound, "order_not_found", err.Error())
	default:
		log.Printf("internal error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
