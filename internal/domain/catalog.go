package domain

import (
	"github.com/shopspring/decimal"
)

// CatalogItem is a sellable menu item as last fetched from the catalog backend.
// Items are immutable within a snapshot; a refresh replaces them wholesale.
type CatalogItem struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	AvailableStock int             `json:"available_stock"`
	CategoryID     string          `json:"category_id,omitempty"`
}
