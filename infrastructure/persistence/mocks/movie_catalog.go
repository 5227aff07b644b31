package mocks

import (
	"context"
	"sync"

	"movieshop/domain/catalog"
)

// MockMovieCatalog In-memory movie catalog preloaded by tests.
type MockMovieCatalog struct {
	movies map[string]*catalog.Movie
	mu     sync.RWMutex
}

// NewMockMovieCatalog Create Mock movie catalog
func NewMockMovieCatalog() *MockMovieCatalog {
	return &MockMovieCatalog{
		movies: make(map[string]*catalog.Movie),
	}
}

// AddMovie Seed a movie into the catalog
func (c *MockMovieCatalog) AddMovie(m *catalog.Movie) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.movies[m.ID] = m
}

func (c *MockMovieCatalog) GetMovie(ctx context.Context, id string) (*catalog.Movie, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	m, exists := c.movies[id]
	if !exists {
		return nil, catalog.ErrMovieNotFound
	}
	return m, nil
}

// Compile-time interface implementation check
var _ catalog.Catalog = (*MockMovieCatalog)(nil)
