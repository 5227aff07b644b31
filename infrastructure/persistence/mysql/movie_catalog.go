package mysql

import (
	"context"
	"errors"

	"movieshop/domain/catalog"
	"movieshop/infrastructure/persistence"
	"movieshop/infrastructure/persistence/mysql/po"

	"gorm.io/gorm"
)

// MovieCatalog MySQL/GORM implementation of the movie catalog read model.
type MovieCatalog struct {
	db *gorm.DB
}

// NewMovieCatalog Create movie catalog
func NewMovieCatalog(db *gorm.DB) *MovieCatalog {
	return &MovieCatalog{db: db}
}

func (c *MovieCatalog) getDB(ctx context.Context) *gorm.DB {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return tx
	}
	return c.db.WithContext(ctx)
}

// GetMovie Resolve a movie by id
func (c *MovieCatalog) GetMovie(ctx context.Context, id string) (*catalog.Movie, error) {
	var moviePO po.MoviePO
	result := c.getDB(ctx).First(&moviePO, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrMovieNotFound
		}
		return nil, result.Error
	}
	return moviePO.ToDomain(), nil
}

// Compile-time interface implementation check
var _ catalog.Catalog = (*MovieCatalog)(nil)
