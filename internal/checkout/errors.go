package checkout

import "errors"

var (
	ErrEmptyCart             = errors.New("cart is empty, nothing to checkout")
	ErrIncompleteReservation = errors.New("checkout requires a room and table assignment")
	ErrOrderSubmissionFailed = errors.New("order backend rejected the order")
)
