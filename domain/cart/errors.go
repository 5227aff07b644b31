package cart

import "errors"

var (
	// ErrCartNotFound no cart exists for the user yet.
	ErrCartNotFound = errors.New("cart not found")

	// ErrItemNotFound the movie is not in the cart.
	ErrItemNotFound = errors.New("cart item not found")

	// ErrDuplicateItem the movie is already in the cart. Also raised by the
	// storage layer when the (cart_id, movie_id) unique constraint fires
	// under a race.
	ErrDuplicateItem = errors.New("movie is already in the cart")
)
