package payment

import "errors"

var (
	// ErrPaymentNotFound no payment matches the lookup.
	ErrPaymentNotFound = errors.New("payment not found")

	// ErrPriceMismatch the price snapshot taken at payment time diverged
	// from the order's snapshot. Never corrected silently; the settlement
	// aborts.
	ErrPriceMismatch = errors.New("payment price does not match order snapshot")
)
