package order

import "context"

// SearchCriteria is the validated input of the admin listing. SortBy must be
// a key of SortableFields; validation happens before the criteria reaches a
// repository.
type SearchCriteria struct {
	Status    *Status
	SortBy    string
	SortOrder string // ASC or DESC
	Page      int
	PageSize  int
}

// Repository persists order aggregates.
type Repository interface {
	// Save inserts the order and all its items. Joins the transaction from
	// context when present; the order and its items are never persisted
	// partially.
	Save(ctx context.Context, o *Order) error

	// FindByID returns the order with its items or ErrOrderNotFound.
	FindByID(ctx context.Context, id string) (*Order, error)

	// FindByUserAndID scopes the lookup to an owner; a mismatch is
	// ErrOrderNotFound, indistinguishable from absence.
	FindByUserAndID(ctx context.Context, userID, id string) (*Order, error)

	// FindByUserID returns the user's orders, most recent first.
	FindByUserID(ctx context.Context, userID string) ([]*Order, error)

	// Search returns a page of orders plus the total row count.
	Search(ctx context.Context, criteria SearchCriteria) ([]*Order, int64, error)

	// TransitionStatus atomically moves the order from one status to
	// another. Returns ErrStatusConflict if the order is no longer in the
	// expected status, ErrOrderNotFound if it does not exist. This is the
	// winner gate for concurrent cancel/pay races.
	TransitionStatus(ctx context.Context, orderID string, from, to Status) error
}
