package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Sameer-A01/restaurant-api/internal/catalog"
	"github.com/Sameer-A01/restaurant-api/internal/domain"
	"github.com/Sameer-A01/restaurant-api/internal/session"
	"github.com/go-chi/chi/v5"
)

// SnapshotSource yields catalog snapshots for stock validation. Each handler
// reads Current() once per request so the whole mutation validates against the
// snapshot current at that specific call.
type SnapshotSource interface {
	Current() *catalog.Snapshot
	Refresh(ctx context.Context) (*catalog.Snapshot, error)
}

type CartHandler struct {
	sessions  *session.Service
	snapshots SnapshotSource
	timeout   time.Duration
}

func NewCartHandler(sessions *session.Service, snapshots SnapshotSource, timeout time.Duration) *CartHandler {
	return &CartHandler{
		sessions:  sessions,
		snapshots: snapshots,
		timeout:   timeout,
	}
}

type AddItemRequestDTO struct {
	ItemID string `json:"item_id"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type BindReservationRequestDTO struct {
	RoomID  string `json:"room_id"`
	TableID string `json:"table_id"`
}

type CartResponseDTO struct {
	SessionID   string                    `json:"session_id"`
	Lines       []domain.CartLine         `json:"lines"`
	Policy      domain.PricingPolicy      `json:"policy"`
	Reservation domain.ReservationBinding `json:"reservation"`
	Totals      domain.Totals             `json:"totals"`
}

func (h *CartHandler) cartResponse(ctx context.Context, state *domain.SessionState) (*CartResponseDTO, error) {
	totals, err := h.sessions.Totals(ctx, state.SessionID, h.snapshots.Current())
	if err != nil {
		return nil, err
	}
	return &CartResponseDTO{
		SessionID:   state.SessionID,
		Lines:       state.Lines,
		Policy:      state.Policy,
		Reservation: state.Reservation,
		Totals:      totals,
	}, nil
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
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

	resp, err := h.cartResponse(ctx, state)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionIDFromContext(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ItemID == "" {
		respondError(w, http.StatusBadRequest, "invalid_item_id", "item_id must not be empty")
		return
	}

	state, err := h.sessions.AddItem(ctx, sessionID, h.snapshots.Current(), req.ItemID)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	resp, err := h.cartResponse(ctx, state)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, resp)
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionIDFromContext(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	itemID := chi.URLParam(r, "item_id")
	if itemID == "" {
		respondError(w, http.StatusBadRequest, "invalid_item_id", "item_id must not be empty")
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	state, err := h.sessions.SetQuantity(ctx, sessionID, h.snapshots.Current(), itemID, req.Quantity)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	resp, err := h.cartResponse(ctx, state)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionIDFromContext(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	itemID := chi.URLParam(r, "item_id")
	if itemID == "" {
		respondError(w, http.StatusBadRequest, "invalid_item_id", "item_id must not be empty")
		return
	}

	state, err := h.sessions.RemoveItem(ctx, sessionID, itemID)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	resp, err := h.cartResponse(ctx, state)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionIDFromContext(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	state, err := h.sessions.ClearCart(ctx, sessionID)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	resp, err := h.cartResponse(ctx, state)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *CartHandler) GetTotals(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionIDFromContext(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	totals, err := h.sessions.Totals(ctx, sessionID, h.snapshots.Current())
	if err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, totals)
}

func (h *CartHandler) BindReservation(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionIDFromContext(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	var req BindReservationRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	state, err := h.sessions.BindReservation(ctx, sessionID, req.RoomID, req.TableID)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	resp, err := h.cartResponse(ctx, state)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *CartHandler) ClearReservation(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionIDFromContext(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	state, err := h.sessions.ClearReservation(ctx, sessionID)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	resp, err := h.cartResponse(ctx, state)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}
