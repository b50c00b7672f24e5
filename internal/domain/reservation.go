package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrHalfBoundReservation = errors.New("reservation must bind room and table together")

// ReservationBinding is the optional room+table assignment attached to a cart
// before checkout. The fields are unexported so that no caller can set one
// without the other: Bind sets both, Clear unsets both, and there is no other
// way to change them.
type ReservationBinding struct {
	roomID  string
	tableID string
}

// Bind assigns both identifiers together. Binding with an empty room or table
// ID is rejected so a half-bound state can never be constructed.
func (b *ReservationBinding) Bind(roomID, tableID string) error {
	if roomID == "" || tableID == "" {
		return ErrHalfBoundReservation
	}
	b.roomID = roomID
	b.tableID = tableID
	return nil
}

// Clear unsets both identifiers together.
func (b *ReservationBinding) Clear() {
	b.roomID = ""
	b.tableID = ""
}

// IsComplete reports whether both room and table are set.
func (b *ReservationBinding) IsComplete() bool {
	return b.roomID != "" && b.tableID != ""
}

func (b *ReservationBinding) RoomID() string  { return b.roomID }
func (b *ReservationBinding) TableID() string { return b.tableID }

type reservationJSON struct {
	RoomID  string `json:"room_id,omitempty"`
	TableID string `json:"table_id,omitempty"`
}

func (b ReservationBinding) MarshalJSON() ([]byte, error) {
	return json.Marshal(reservationJSON{RoomID: b.roomID, TableID: b.tableID})
}

// UnmarshalJSON rehydrates a binding from the persisted session blob. A blob
// carrying only one of the two identifiers is corrupt and is rejected rather
// than silently repaired.
func (b *ReservationBinding) UnmarshalJSON(data []byte) error {
	var raw reservationJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to unmarshal reservation: %w", err)
	}
	if (raw.RoomID == "") != (raw.TableID == "") {
		return ErrHalfBoundReservation
	}
	b.roomID = raw.RoomID
	b.tableID = raw.TableID
	return nil
}
