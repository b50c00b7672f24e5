package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Sameer-A01/restaurant-api/internal/domain"
	"github.com/Sameer-A01/restaurant-api/internal/pricing"
	"github.com/Sameer-A01/restaurant-api/internal/session"
)

// PolicyBackend is the configuration collaborator holding the canonical
// pricing policy.
type PolicyBackend interface {
	GetPolicy(ctx context.Context) (domain.PricingPolicy, error)
	PutPolicy(ctx context.Context, policy domain.PricingPolicy) error
}

type PolicyHandler struct {
	sessions *session.Service
	backend  PolicyBackend
	timeout  time.Duration
}

func NewPolicyHandler(sessions *session.Service, backend PolicyBackend, timeout time.Duration) *PolicyHandler {
	return &PolicyHandler{
		sessions: sessions,
		backend:  backend,
		timeout:  timeout,
	}
}

func (h *PolicyHandler) GetPolicy(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionIDFromContext(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	state, err := h.sessions.GetState(ctx, sessionID)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, state.Policy)
}

// PutPolicy validates the new rates, writes them to the configuration backend
// and only then applies them to the session. An invalid policy never reaches
// the calculator or the backend.
func (h *PolicyHandler) PutPolicy(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionIDFromContext(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	var policy domain.PricingPolicy
	if err := json.NewDecoder(r.Body).Decode(&policy); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := pricing.ValidatePolicy(policy); err != nil {
		handleDomainError(w, err)
		return
	}

	if err := h.backend.PutPolicy(ctx, policy); err != nil {
		respondError(w, http.StatusBadGateway, "policy_backend_failed", err.Error())
		return
	}

	state, err := h.sessions.SetPolicy(ctx, sessionID, policy)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, state.Policy)
}
