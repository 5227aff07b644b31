package cart

import "context"

// Repository persists carts and their items.
type Repository interface {
	// FindByUserID returns the user's cart or ErrCartNotFound.
	FindByUserID(ctx context.Context, userID string) (*Cart, error)

	// CreateIfAbsent returns the user's cart, creating it on first use.
	// Safe under concurrent first use: a duplicate-create detected through
	// the carts(user_id) unique constraint is resolved by re-reading the
	// winner's row, never surfaced as an error.
	CreateIfAbsent(ctx context.Context, userID string) (*Cart, error)

	// FindItem returns the cart line for a movie or ErrItemNotFound.
	FindItem(ctx context.Context, cartID, movieID string) (*Item, error)

	// AddItem appends a movie line. Returns ErrDuplicateItem if the movie
	// is already in the cart, including when the unique constraint fires
	// under a race.
	AddItem(ctx context.Context, cartID, movieID string) (*Item, error)

	// RemoveItem deletes the movie line or returns ErrItemNotFound.
	RemoveItem(ctx context.Context, cartID, movieID string) error

	// ListItems returns all lines of a cart.
	ListItems(ctx context.Context, cartID string) ([]Item, error)

	// ClearItems deletes every line of the cart in one statement.
	ClearItems(ctx context.Context, cartID string) error
}
