package domain

import "time"

// SessionState is the full working state of one POS session: the cart lines,
// the pricing policy in effect and the optional reservation binding. It is
// persisted as a single blob, overwritten wholesale on every mutation, so an
// interrupted session resumes with the same cart.
type SessionState struct {
	SessionID   string             `json:"session_id"`
	Lines       []CartLine         `json:"lines"`
	Policy      PricingPolicy      `json:"policy"`
	Reservation ReservationBinding `json:"reservation"`
	UpdatedAt   time.Time          `json:"updated_at"`
}
