package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLine is a cart line frozen at checkout time, with the unit price that
// was charged so the journal stays meaningful after catalog prices change.
type OrderLine struct {
	ItemID    string          `json:"item_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// Order is a confirmed order as recorded in the local journal after the order
// backend acknowledged it.
type Order struct {
	ID         string          `json:"id"`
	SessionID  string          `json:"session_id"`
	Lines      []OrderLine     `json:"lines"`
	RoomID     string          `json:"room_id,omitempty"`
	TableID    string          `json:"table_id,omitempty"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	Discount   decimal.Decimal `json:"discount"`
	Tax        decimal.Decimal `json:"tax"`
	GrandTotal decimal.Decimal `json:"grand_total"`
	CreatedAt  time.Time       `json:"created_at"`
}
