package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/Sameer-A01/restaurant-api/internal/cart"
	"github.com/Sameer-A01/restaurant-api/internal/domain"
)

type CatalogHandler struct {
	snapshots SnapshotSource
	timeout   time.Duration
}

func NewCatalogHandler(snapshots SnapshotSource, timeout time.Duration) *CatalogHandler {
	return &CatalogHandler{
		snapshots: snapshots,
		timeout:   timeout,
	}
}

type CatalogResponseDTO struct {
	Items     []domain.CatalogItem `json:"items"`
	FetchedAt time.Time            `json:"fetched_at"`
}

func (h *CatalogHandler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	snapshot := h.snapshots.Current()
	if snapshot == nil {
		handleDomainError(w, cart.ErrNoCatalog)
		return
	}

	respondJSON(w, http.StatusOK, CatalogResponseDTO{
		Items:     snapshot.Items(),
		FetchedAt: snapshot.FetchedAt(),
	})
}

func (h *CatalogHandler) RefreshCatalog(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	snapshot, err := h.snapshots.Refresh(ctx)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, CatalogResponseDTO{
		Items:     snapshot.Items(),
		FetchedAt: snapshot.FetchedAt(),
	})
}
