package domain

import "github.com/shopspring/decimal"

// OrderSubmission is the wire payload handed to the order-creation backend.
// Room and table are present together or absent together.
type OrderSubmission struct {
	Lines      []CartLine      `json:"lines"`
	GrandTotal decimal.Decimal `json:"grand_total"`
	RoomID     string          `json:"room_id,omitempty"`
	TableID    string          `json:"table_id,omitempty"`
}
