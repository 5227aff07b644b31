package order

import "errors"

var (
	// ErrOrderNotFound no order matches the id (and owner, when scoped).
	ErrOrderNotFound = errors.New("order not found")

	// ErrEmptyOrder an order must contain at least one line.
	ErrEmptyOrder = errors.New("order has no items")

	// ErrInvalidOrder the order inputs are structurally invalid.
	ErrInvalidOrder = errors.New("invalid order")

	// ErrNotCancelable only PENDING orders can be canceled.
	ErrNotCancelable = errors.New("order cannot be canceled")

	// ErrStatusConflict a conditional status transition matched no row:
	// the order was already moved out of the expected status by a
	// concurrent request.
	ErrStatusConflict = errors.New("order status changed concurrently")
)
