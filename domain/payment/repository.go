package payment

import "context"

// Repository persists payments and their line breakdown.
type Repository interface {
	// Save inserts the payment and all its items inside the caller's
	// transaction.
	Save(ctx context.Context, p *Payment) error

	// FindByID returns the payment with its items or ErrPaymentNotFound.
	FindByID(ctx context.Context, id string) (*Payment, error)

	// FindByUserID returns the user's payments, most recent first.
	// Returns ErrPaymentNotFound when the user has none.
	FindByUserID(ctx context.Context, userID string) ([]*Payment, error)
}
