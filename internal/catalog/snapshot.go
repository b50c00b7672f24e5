package catalog

import (
	"time"

	"github.com/Sameer-A01/restaurant-api/internal/domain"
)

// Snapshot is an immutable, point-in-time view of the sellable catalog.
// Consumers never observe a partially updated catalog: a refresh builds a new
// Snapshot and swaps it in wholesale.
type Snapshot struct {
	items     map[string]domain.CatalogItem
	order     []string
	fetchedAt time.Time
}

// NewSnapshot builds a snapshot from a catalog listing. Later duplicates of an
// item ID supersede earlier ones.
func NewSnapshot(items []domain.CatalogItem, fetchedAt time.Time) *Snapshot {
	s := &Snapshot{
		items:     make(map[string]domain.CatalogItem, len(items)),
		order:     make([]string, 0, len(items)),
		fetchedAt: fetchedAt,
	}
	for _, item := range items {
		if _, exists := s.items[item.ID]; !exists {
			s.order = append(s.order, item.ID)
		}
		s.items[item.ID] = item
	}
	return s
}

// Item looks up a catalog item by ID.
func (s *Snapshot) Item(id string) (domain.CatalogItem, bool) {
	item, ok := s.items[id]
	return item, ok
}

// Items returns the catalog listing in fetch order.
func (s *Snapshot) Items() []domain.CatalogItem {
	out := make([]domain.CatalogItem, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.items[id])
	}
	return out
}

func (s *Snapshot) Len() int { return len(s.items) }

func (s *Snapshot) FetchedAt() time.Time { return s.fetchedAt }
