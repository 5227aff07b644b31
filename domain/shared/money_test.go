package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoneyAdd(t *testing.T) {
	a := NewMoney(999, "USD")
	b := NewMoney(1450, "USD")

	sum, err := a.Add(*b)
	require.NoError(t, err)
	assert.Equal(t, int64(2449), sum.Amount())
	assert.Equal(t, "USD", sum.Currency())

	// Operands are untouched.
	assert.Equal(t, int64(999), a.Amount())
}

func TestMoneyAddCurrencyMismatch(t *testing.T) {
	a := NewMoney(999, "USD")
	b := NewMoney(999, "EUR")

	_, err := a.Add(*b)
	assert.Error(t, err)
}

func TestMoneyPredicates(t *testing.T) {
	assert.True(t, NewMoney(1, "USD").IsPositive())
	assert.False(t, NewMoney(0, "USD").IsPositive())
	assert.False(t, NewMoney(-1, "USD").IsPositive())

	assert.True(t, NewMoney(999, "USD").Equals(*NewMoney(999, "USD")))
	assert.False(t, NewMoney(999, "USD").Equals(*NewMoney(999, "EUR")))
}
