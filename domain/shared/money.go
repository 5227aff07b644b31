package shared

import "errors"

// Money value object. Amounts are stored in minor currency units (cents) so
// price snapshots never suffer floating point drift.
type Money struct {
	amount   int64
	currency string
}

// NewMoney creates a new Money value object.
func NewMoney(amount int64, currency string) *Money {
	return &Money{amount: amount, currency: currency}
}

// Amount returns the amount in minor units.
func (m Money) Amount() int64 {
	return m.amount
}

// Currency returns the currency code.
func (m Money) Currency() string {
	return m.currency
}

// Add returns a new Money holding the sum.
func (m Money) Add(other Money) (*Money, error) {
	if m.currency != other.currency {
		return nil, errors.New("cannot add money with different currencies")
	}
	return &Money{amount: m.amount + other.amount, currency: m.currency}, nil
}

// IsPositive reports whether the amount is strictly greater than zero.
func (m Money) IsPositive() bool {
	return m.amount > 0
}

// Equals compares two Money value objects.
func (m Money) Equals(other Money) bool {
	return m.amount == other.amount && m.currency == other.currency
}
