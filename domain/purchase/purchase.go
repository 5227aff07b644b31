// Package purchase is the ledger of definitively settled (user, movie)
// pairs. It is the single source of truth preventing re-purchase: existence
// of a record blocks both add-to-cart and checkout.
package purchase

import (
	"context"
	"errors"
	"time"
)

// ErrDuplicateRecord the (user_id, movie_id) pair is already in the ledger.
// Raised by the storage layer when the unique constraint fires; the
// constraint is the last line of defense when an in-transaction check missed
// a race.
var ErrDuplicateRecord = errors.New("purchase record already exists")

// Record is one append-only ledger entry.
type Record struct {
	UserID      string
	MovieID     string
	PurchasedAt time.Time
}

// Ledger reads and appends purchase records. Records are never updated or
// deleted.
type Ledger interface {
	// IsPurchased reports whether the user already owns the movie.
	IsPurchased(ctx context.Context, userID, movieID string) (bool, error)

	// Append inserts the records, all inside the caller's transaction.
	// Returns ErrDuplicateRecord if any pair already exists.
	Append(ctx context.Context, records []Record) error
}
