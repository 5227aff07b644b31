package po

import (
	"time"

	"movieshop/domain/cart"
)

// CartPO Cart persistence object
// The unique index on user_id enforces one cart per user; concurrent
// get-or-create races resolve at the database instead of in code.
type CartPO struct {
	ID        string    `gorm:"primaryKey;size:64"`
	UserID    string    `gorm:"size:64;uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName Specify table name
func (CartPO) TableName() string {
	return "carts"
}

// CartItemPO Cart item persistence object
// The composite unique index rejects duplicate movies within one cart.
type CartItemPO struct {
	ID      string    `gorm:"primaryKey;size:64"`
	CartID  string    `gorm:"size:64;not null;uniqueIndex:uniq_cart_movie"`
	MovieID string    `gorm:"size:64;not null;uniqueIndex:uniq_cart_movie"`
	AddedAt time.Time `gorm:"autoCreateTime"`
}

// TableName Specify table name
func (CartItemPO) TableName() string {
	return "cart_items"
}

// FromCartDomain Convert domain model to persistence object
func FromCartDomain(c *cart.Cart) *CartPO {
	return &CartPO{
		ID:     c.ID,
		UserID: c.UserID,
	}
}

// ToDomain Convert persistence object to domain model
func (po *CartPO) ToDomain() *cart.Cart {
	return &cart.Cart{
		ID:     po.ID,
		UserID: po.UserID,
	}
}

// FromCartItemDomain Convert domain model to persistence object
func FromCartItemDomain(item *cart.Item) *CartItemPO {
	return &CartItemPO{
		ID:      item.ID,
		CartID:  item.CartID,
		MovieID: item.MovieID,
		AddedAt: item.AddedAt,
	}
}

// ToDomain Convert persistence object to domain model
func (po *CartItemPO) ToDomain() *cart.Item {
	return &cart.Item{
		ID:      po.ID,
		CartID:  po.CartID,
		MovieID: po.MovieID,
		AddedAt: po.AddedAt,
	}
}
