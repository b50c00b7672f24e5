package cart

import (
	"errors"
	"fmt"

	"github.com/Sameer-A01/restaurant-api/internal/catalog"
	"github.com/Sameer-A01/restaurant-api/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	ErrOutOfStock  = errors.New("requested quantity exceeds available stock")
	ErrUnknownItem = errors.New("item not found in catalog")
	ErrNoCatalog   = errors.New("no catalog snapshot loaded")
)

// Store holds the working set of cart lines for one POS session. Mutations
// validate against the catalog snapshot supplied for that specific call, so
// stock checks always use the figures current at call time. A failed mutation
// leaves the cart unchanged.
//
// The store never caches a subtotal: Subtotal recomputes from scratch on every
// call because catalog prices may have refreshed between mutations.
type Store struct {
	lines []domain.CartLine
}

// NewStore builds a store from persisted lines (nil for a fresh cart).
// Duplicate line IDs in the input are merged defensively.
func NewStore(lines []domain.CartLine) *Store {
	s := &Store{}
	for _, line := range lines {
		if line.Quantity < 1 {
			continue
		}
		if i := s.indexOf(line.ItemID); i >= 0 {
			s.lines[i].Quantity += line.Quantity
			continue
		}
		s.lines = append(s.lines, line)
	}
	return s
}

// AddItem increments the line for itemID by one, inserting a new line with
// quantity 1 when the item is not in the cart yet.
func (s *Store) AddItem(snapshot *catalog.Snapshot, itemID string) error {
	if snapshot == nil {
		return ErrNoCatalog
	}
	item, ok := snapshot.Item(itemID)
	if !ok {
		return fmt.Errorf("add %q: %w", itemID, ErrUnknownItem)
	}

	next := 1
	if i := s.indexOf(itemID); i >= 0 {
		next = s.lines[i].Quantity + 1
	}
	if next > item.AvailableStock {
		return fmt.Errorf("add %q: want %d, stock %d: %w", itemID, next, item.AvailableStock, ErrOutOfStock)
	}

	if i := s.indexOf(itemID); i >= 0 {
		s.lines[i].Quantity = next
		return nil
	}
	s.lines = append(s.lines, domain.CartLine{ItemID: itemID, Quantity: 1})
	return nil
}

// SetQuantity replaces the line's quantity. A quantity below 1 removes the
// line. A quantity above available stock fails with ErrOutOfStock and leaves
// the line unchanged; the caller must re-prompt, never silently cap.
func (s *Store) SetQuantity(snapshot *catalog.Snapshot, itemID string, quantity int) error {
	if quantity < 1 {
		s.RemoveItem(itemID)
		return nil
	}
	if snapshot == nil {
		return ErrNoCatalog
	}
	item, ok := snapshot.Item(itemID)
	if !ok {
		return fmt.Errorf("set %q: %w", itemID, ErrUnknownItem)
	}
	if quantity > item.AvailableStock {
		return fmt.Errorf("set %q: want %d, stock %d: %w", itemID, quantity, item.AvailableStock, ErrOutOfStock)
	}

	if i := s.indexOf(itemID); i >= 0 {
		s.lines[i].Quantity = quantity
		return nil
	}
	s.lines = append(s.lines, domain.CartLine{ItemID: itemID, Quantity: quantity})
	return nil
}

// RemoveItem deletes the line if present; removing an absent item is a no-op,
// not an error.
func (s *Store) RemoveItem(itemID string) {
	if i := s.indexOf(itemID); i >= 0 {
		s.lines = append(s.lines[:i], s.lines[i+1:]...)
	}
}

// Clear empties all lines.
func (s *Store) Clear() {
	s.lines = nil
}

// Prune drops lines whose item ID is absent from the snapshot. A line pointing
// at a vanished catalog item is a stale reference and is removed defensively
// rather than left to poison the subtotal.
func (s *Store) Prune(snapshot *catalog.Snapshot) []domain.CartLine {
	if snapshot == nil {
		return nil
	}
	var dropped []domain.CartLine
	kept := s.lines[:0]
	for _, line := range s.lines {
		if _, ok := snapshot.Item(line.ItemID); ok {
			kept = append(kept, line)
		} else {
			dropped = append(dropped, line)
		}
	}
	s.lines = kept
	return dropped
}

// Subtotal recomputes the cart subtotal from scratch against the supplied
// snapshot. An empty cart yields zero. Lines referencing unknown items are
// skipped; callers that refresh the catalog are expected to Prune first.
func (s *Store) Subtotal(snapshot *catalog.Snapshot) decimal.Decimal {
	subtotal := decimal.Zero
	if snapshot == nil {
		return subtotal
	}
	for _, line := range s.lines {
		item, ok := snapshot.Item(line.ItemID)
		if !ok {
			continue
		}
		subtotal = subtotal.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return subtotal
}

// Lines returns a copy of the cart lines in insertion order.
func (s *Store) Lines() []domain.CartLine {
	out := make([]domain.CartLine, len(s.lines))
	copy(out, s.lines)
	return out
}

func (s *Store) Len() int { return len(s.lines) }

func (s *Store) indexOf(itemID string) int {
	for i, line := range s.lines {
		if line.ItemID == itemID {
			return i
		}
	}
	return -1
}
