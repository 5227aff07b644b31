package mocks

import (
	"context"
	"sync"
	"time"

	"movieshop/domain/cart"

	"github.com/google/uuid"
)

// MockCartRepository In-memory implementation of the cart repository.
// Mirrors the storage-level behavior of the MySQL implementation, including
// the one-cart-per-user and one-line-per-movie uniqueness rules.
type MockCartRepository struct {
	carts map[string]*cart.Cart // keyed by user id
	items map[string][]cart.Item
	mu    sync.RWMutex
}

// NewMockCartRepository Create Mock cart repository
func NewMockCartRepository() *MockCartRepository {
	return &MockCartRepository{
		carts: make(map[string]*cart.Cart),
		items: make(map[string][]cart.Item),
	}
}

func (r *MockCartRepository) FindByUserID(ctx context.Context, userID string) (*cart.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, exists := r.carts[userID]
	if !exists {
		return nil, cart.ErrCartNotFound
	}
	return c, nil
}

func (r *MockCartRepository) CreateIfAbsent(ctx context.Context, userID string) (*cart.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, exists := r.carts[userID]; exists {
		return c, nil
	}
	c := &cart.Cart{
		ID:     "cart-" + uuid.New().String(),
		UserID: userID,
	}
	r.carts[userID] = c
	return c, nil
}

func (r *MockCartRepository) FindItem(ctx context.Context, cartID, movieID string) (*cart.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items[cartID] {
		if item.MovieID == movieID {
			found := item
			return &found, nil
		}
	}
	return nil, cart.ErrItemNotFound
}

func (r *MockCartRepository) AddItem(ctx context.Context, cartID, movieID string) (*cart.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range r.items[cartID] {
		if item.MovieID == movieID {
			return nil, cart.ErrDuplicateItem
		}
	}
	item := cart.Item{
		ID:      "cart-item-" + uuid.New().String(),
		CartID:  cartID,
		MovieID: movieID,
		AddedAt: time.Now(),
	}
	r.items[cartID] = append(r.items[cartID], item)
	return &item, nil
}

func (r *MockCartRepository) RemoveItem(ctx context.Context, cartID, movieID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := r.items[cartID]
	for i, item := range items {
		if item.MovieID == movieID {
			r.items[cartID] = append(items[:i], items[i+1:]...)
			return nil
		}
	}
	return cart.ErrItemNotFound
}

func (r *MockCartRepository) ListItems(ctx context.Context, cartID string) ([]cart.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]cart.Item, len(r.items[cartID]))
	copy(items, r.items[cartID])
	return items, nil
}

func (r *MockCartRepository) ClearItems(ctx context.Context, cartID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, cartID)
	return nil
}

// Compile-time interface implementation check
var _ cart.Repository = (*MockCartRepository)(nil)
