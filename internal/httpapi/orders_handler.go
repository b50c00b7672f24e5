package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/Sameer-A01/restaurant-api/internal/domain"
	"github.com/go-chi/chi/v5"
)

const defaultOrderListLimit = 50

// OrderLog is the read side of the local order journal.
type OrderLog interface {
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	ListRecent(ctx context.Context, limit int) ([]*domain.Order, error)
}

type OrdersHandler struct {
	journal OrderLog
	timeout time.Duration
}

func NewOrdersHandler(repo OrderLog, timeout time.Duration) *OrdersHandler {
	return &OrdersHandler{
		journal: repo,
		timeout: timeout,
	}
}

func (h *OrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	limit := defaultOrderListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			respondError(w, http.StatusBadRequest, "invalid_limit", "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	orders, err := h.journal.ListRecent(ctx, limit)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, orders)
}

func (h *OrdersHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	orderID := chi.URLParam(r, "order_id")
	if orderID == "" {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order_id must not be empty")
		return
	}

	order, err := h.journal.GetOrder(ctx, orderID)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, order)
}
