// Package catalog exposes the read-only movie reference data consumed by the
// commerce pipeline. The catalog subsystem owns movies; the pipeline only
// resolves them by id.
package catalog

import (
	"context"
	"errors"

	"movieshop/domain/shared"
)

// ErrMovieNotFound is returned when the referenced movie does not exist.
var ErrMovieNotFound = errors.New("movie not found")

// Movie is a read-only reference snapshot.
type Movie struct {
	ID    string
	Title string
	Price shared.Money
}

// Catalog resolves movies by id. Prices returned here are the authority at
// the moment of the call; checkout snapshots them and never re-reads.
type Catalog interface {
	GetMovie(ctx context.Context, id string) (*Movie, error)
}
