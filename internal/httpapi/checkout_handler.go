package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/Sameer-A01/restaurant-api/internal/checkout"
)

type CheckoutHandler struct {
	checkout *checkout.Service
	timeout  time.Duration
}

func NewCheckoutHandler(svc *checkout.Service, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: svc,
		timeout:  timeout,
	}
}

func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionIDFromContext(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	order, err := h.checkout.Checkout(ctx, sessionID)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, order)
}
