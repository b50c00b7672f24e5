package domain

// CartLine is one selected item in an in-progress order.
// No two lines in a cart share the same ItemID (merge-on-add).
type CartLine struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}
