package checkout

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Sameer-A01/restaurant-api/internal/cart"
	"github.com/Sameer-A01/restaurant-api/internal/catalog"
	"github.com/Sameer-A01/restaurant-api/internal/domain"
	"github.com/Sameer-A01/restaurant-api/internal/pricing"
)

// SessionStore is the slice of the session service checkout needs.
type SessionStore interface {
	GetState(ctx context.Context, sessionID string) (*domain.SessionState, error)
	ClearCart(ctx context.Context, sessionID string) (*domain.SessionState, error)
}

// SnapshotSource yields the catalog snapshot current at call time.
type SnapshotSource interface {
	Current() *catalog.Snapshot
}

// OrderSubmitter hands the order payload to the order-creation backend and
// returns the backend's order ID.
type OrderSubmitter interface {
	Submit(ctx context.Context, submission *domain.OrderSubmission) (string, error)
}

// OrderJournal records confirmed orders locally.
type OrderJournal interface {
	RecordOrder(ctx context.Context, order *domain.Order) error
}

// Service submits orders as a two-phase commit from the cart's point of view:
// the cart is cleared only after the order backend confirmed success, so a
// failed submission leaves the cart intact for a manual retry.
type Service struct {
	sessions     SessionStore
	snapshots    SnapshotSource
	orders       OrderSubmitter
	journal      OrderJournal
	requireTable bool
}

func NewService(sessions SessionStore, snapshots SnapshotSource, orders OrderSubmitter, journal OrderJournal, requireTable bool) *Service {
	return &Service{
		sessions:     sessions,
		snapshots:    snapshots,
		orders:       orders,
		journal:      journal,
		requireTable: requireTable,
	}
}

// Checkout validates the session's cart against the current catalog, computes
// totals, submits the order and, only on confirmed success, clears the cart
// and records the order in the local journal.
func (s *Service) Checkout(ctx context.Context, sessionID string) (*domain.Order, error) {
	snapshot := s.snapshots.Current()
	if snapshot == nil {
		return nil, cart.ErrNoCatalog
	}

	state, err := s.sessions.GetState(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if s.requireTable && !state.Reservation.IsComplete() {
		return nil, ErrIncompleteReservation
	}

	store := cart.NewStore(state.Lines)
	for _, line := range store.Prune(snapshot) {
		log.Printf("checkout %s: dropped stale cart line %s", sessionID, line.ItemID)
	}
	if store.Len() == 0 {
		return nil, ErrEmptyCart
	}

	subtotal := store.Subtotal(snapshot)
	totals := pricing.ComputeTotals(subtotal, state.Policy)

	submission := &domain.OrderSubmission{
		Lines:      store.Lines(),
		GrandTotal: totals.GrandTotal,
		RoomID:     state.Reservation.RoomID(),
		TableID:    state.Reservation.TableID(),
	}

	orderID, err := s.orders.Submit(ctx, submission)
	if err != nil {
		// Cart is preserved: the user retries without rebuilding it.
		return nil, fmt.Errorf("%w: %v", ErrOrderSubmissionFailed, err)
	}

	order := buildOrder(orderID, sessionID, store, snapshot, state, totals)

	if errRecord := s.journal.RecordOrder(ctx, order); errRecord != nil {
		// The backend confirmed the order; a journal failure must not undo it.
		log.Printf("failed to journal order %s: %v", orderID, errRecord)
	}

	if _, errClear := s.sessions.ClearCart(ctx, sessionID); errClear != nil {
		log.Printf("failed to clear cart for session %s after order %s: %v", sessionID, orderID, errClear)
	}

	return order, nil
}

func buildOrder(orderID, sessionID string, store *cart.Store, snapshot *catalog.Snapshot, state *domain.SessionState, totals domain.Totals) *domain.Order {
	lines := store.Lines()
	orderLines := make([]domain.OrderLine, len(lines))
	for i, line := range lines {
		item, _ := snapshot.Item(line.ItemID) // pruned above, must exist
		orderLines[i] = domain.OrderLine{
			ItemID:    line.ItemID,
			Name:      item.Name,
			Quantity:  line.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}

	return &domain.Order{
		ID:         orderID,
		SessionID:  sessionID,
		Lines:      orderLines,
		RoomID:     state.Reservation.RoomID(),
		TableID:    state.Reservation.TableID(),
		Subtotal:   totals.Subtotal,
		Discount:   totals.Discount,
		Tax:        totals.Tax,
		GrandTotal: totals.GrandTotal,
		CreatedAt:  time.Now(),
	}
}
