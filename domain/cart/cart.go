// Package cart holds the pre-checkout working state: one mutable cart per
// user with at most one line per movie.
package cart

import "time"

// Cart is a user's single active cart. Created lazily on first add and never
// deleted, only emptied.
type Cart struct {
	ID     string
	UserID string
}

// Item is one movie line inside a cart. (cart_id, movie_id) is unique.
type Item struct {
	ID      string
	CartID  string
	MovieID string
	AddedAt time.Time
}
