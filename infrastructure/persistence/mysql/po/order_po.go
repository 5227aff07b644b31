package po

import (
	"time"

	"movieshop/domain/order"
	"movieshop/domain/shared"
)

// OrderPO Order persistence object
// Note: Only used for database mapping, does not contain any business logic
// Defining GORM associations is prohibited here
type OrderPO struct {
	ID            string    `gorm:"primaryKey;size:64"`
	UserID        string    `gorm:"size:64;index;not null"` // Only store ID, no association with users
	Status        string    `gorm:"size:20;index;not null"`
	TotalAmount   int64     `gorm:"not null"`
	TotalCurrency string    `gorm:"size:3;not null"`
	CreatedAt     time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

// TableName Specify table name
func (OrderPO) TableName() string {
	return "orders"
}

// OrderItemPO Order item persistence object
type OrderItemPO struct {
	ID            string `gorm:"primaryKey;size:64"`
	OrderID       string `gorm:"size:64;index;not null"` // Only store ID, no GORM association
	MovieID       string `gorm:"size:64;not null"`
	PriceAmount   int64  `gorm:"not null"`
	PriceCurrency string `gorm:"size:3;not null"`
}

// TableName Specify table name
func (OrderItemPO) TableName() string {
	return "order_items"
}

// FromOrderDomain Convert domain model to persistence objects
func FromOrderDomain(o *order.Order) (*OrderPO, []OrderItemPO) {
	orderPO := &OrderPO{
		ID:            o.ID(),
		UserID:        o.UserID(),
		Status:        string(o.Status()),
		TotalAmount:   o.TotalAmount().Amount(),
		TotalCurrency: o.TotalAmount().Currency(),
		CreatedAt:     o.CreatedAt(),
	}

	items := o.Items()
	itemPOs := make([]OrderItemPO, len(items))
	for i, item := range items {
		itemPOs[i] = OrderItemPO{
			ID:            item.ID(),
			OrderID:       o.ID(),
			MovieID:       item.MovieID(),
			PriceAmount:   item.PriceAtOrder().Amount(),
			PriceCurrency: item.PriceAtOrder().Currency(),
		}
	}

	return orderPO, itemPOs
}

// ToDomain Convert persistence objects to domain model
func (po *OrderPO) ToDomain(itemPOs []OrderItemPO) *order.Order {
	items := make([]order.Item, len(itemPOs))
	for i, itemPO := range itemPOs {
		items[i] = order.RebuildItemFromDTO(order.ItemReconstructionDTO{
			ID:           itemPO.ID,
			MovieID:      itemPO.MovieID,
			PriceAtOrder: *shared.NewMoney(itemPO.PriceAmount, itemPO.PriceCurrency),
		})
	}

	return order.RebuildFromDTO(order.ReconstructionDTO{
		ID:          po.ID,
		UserID:      po.UserID,
		Items:       items,
		TotalAmount: *shared.NewMoney(po.TotalAmount, po.TotalCurrency),
		Status:      order.Status(po.Status),
		CreatedAt:   po.CreatedAt,
	})
}
