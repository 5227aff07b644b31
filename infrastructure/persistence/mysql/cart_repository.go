package mysql

import (
	"context"
	"errors"

	"movieshop/domain/cart"
	"movieshop/infrastructure/persistence"
	"movieshop/infrastructure/persistence/mysql/po"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CartRepository MySQL/GORM implementation of the cart repository.
// GORM usage specification: Association features are prohibited to maintain
// aggregate boundaries.
type CartRepository struct {
	db *gorm.DB
}

// NewCartRepository Create cart repository
func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{db: db}
}

// getDB returns the transaction from context if available, otherwise the default db
func (r *CartRepository) getDB(ctx context.Context) *gorm.DB {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

// FindByUserID Find the user's cart
func (r *CartRepository) FindByUserID(ctx context.Context, userID string) (*cart.Cart, error) {
	var cartPO po.CartPO
	result := r.getDB(ctx).First(&cartPO, "user_id = ?", userID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, cart.ErrCartNotFound
		}
		return nil, result.Error
	}
	return cartPO.ToDomain(), nil
}

// CreateIfAbsent Return the user's cart, creating it on first use.
// Two concurrent first adds both attempt the insert; the carts(user_id)
// unique constraint picks a winner and the loser re-reads that row.
func (r *CartRepository) CreateIfAbsent(ctx context.Context, userID string) (*cart.Cart, error) {
	existing, err := r.FindByUserID(ctx, userID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, cart.ErrCartNotFound) {
		return nil, err
	}

	cartPO := &po.CartPO{
		ID:     "cart-" + uuid.New().String(),
		UserID: userID,
	}
	if err := r.getDB(ctx).Create(cartPO).Error; err != nil {
		if isDuplicateKey(err) {
			return r.FindByUserID(ctx, userID)
		}
		return nil, err
	}
	return cartPO.ToDomain(), nil
}

// FindItem Find the cart line for a movie
func (r *CartRepository) FindItem(ctx context.Context, cartID, movieID string) (*cart.Item, error) {
	var itemPO po.CartItemPO
	result := r.getDB(ctx).First(&itemPO, "cart_id = ? AND movie_id = ?", cartID, movieID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, cart.ErrItemNotFound
		}
		return nil, result.Error
	}
	return itemPO.ToDomain(), nil
}

// AddItem Append a movie line to the cart
func (r *CartRepository) AddItem(ctx context.Context, cartID, movieID string) (*cart.Item, error) {
	itemPO := &po.CartItemPO{
		ID:      "cart-item-" + uuid.New().String(),
		CartID:  cartID,
		MovieID: movieID,
	}
	if err := r.getDB(ctx).Create(itemPO).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, cart.ErrDuplicateItem
		}
		return nil, err
	}
	return itemPO.ToDomain(), nil
}

// RemoveItem Delete the movie line from the cart
func (r *CartRepository) RemoveItem(ctx context.Context, cartID, movieID string) error {
	result := r.getDB(ctx).
		Where("cart_id = ? AND movie_id = ?", cartID, movieID).
		Delete(&po.CartItemPO{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return cart.ErrItemNotFound
	}
	return nil
}

// ListItems Return all lines of the cart
func (r *CartRepository) ListItems(ctx context.Context, cartID string) ([]cart.Item, error) {
	var itemPOs []po.CartItemPO
	if err := r.getDB(ctx).
		Where("cart_id = ?", cartID).
		Order("added_at ASC").
		Find(&itemPOs).Error; err != nil {
		return nil, err
	}

	items := make([]cart.Item, len(itemPOs))
	for i, itemPO := range itemPOs {
		items[i] = *itemPO.ToDomain()
	}
	return items, nil
}

// ClearItems Delete every line of the cart in one statement
func (r *CartRepository) ClearItems(ctx context.Context, cartID string) error {
	return r.getDB(ctx).
		Where("cart_id = ?", cartID).
		Delete(&po.CartItemPO{}).Error
}

// Compile-time interface implementation check
var _ cart.Repository = (*CartRepository)(nil)
