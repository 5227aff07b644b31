package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorUnwrap(t *testing.T) {
	underlying := errors.New("duplicate entry")
	err := Wrap(underlying, CodeConflict, "movie is already in the cart")

	assert.True(t, errors.Is(err, underlying))
	assert.Contains(t, err.Error(), "CONFLICT")
	assert.Contains(t, err.Error(), "duplicate entry")
}

func TestIsMatchesCodeThroughWrapping(t *testing.T) {
	err := fmt.Errorf("checkout failed: %w", AlreadyPurchased())

	assert.True(t, Is(err, CodeAlreadyPurchased))
	assert.False(t, Is(err, CodeCartEmpty))
	assert.False(t, Is(errors.New("plain"), CodeAlreadyPurchased))
}

func TestRetryable(t *testing.T) {
	assert.True(t, Gateway(errors.New("timeout"), "gateway unreachable").Retryable())
	assert.True(t, Persistence(errors.New("commit failed")).Retryable())

	assert.False(t, OrderNotPayable().Retryable())
	assert.False(t, CartNotFound().Retryable())
	assert.False(t, Validation("unknown sort key").Retryable())
}

func TestAsAppErrorWrapsUnknown(t *testing.T) {
	appErr := AsAppError(errors.New("driver: bad connection"))

	assert.Equal(t, CodeInternal, appErr.Code)
	assert.Equal(t, "internal server error", appErr.Message)

	// Existing AppErrors pass through untouched.
	orig := OrderNotFound()
	assert.Same(t, orig, AsAppError(orig))
}
