package mysql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"movieshop/domain/order"
	"movieshop/infrastructure/persistence"
	"movieshop/infrastructure/persistence/mysql/po"

	"gorm.io/gorm"
)

// OrderRepository MySQL/GORM implementation of the order repository.
// Repository is only responsible for persistence of aggregate roots, not
// event publishing. GORM association features are prohibited to maintain
// aggregate boundaries.
type OrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository Create order repository
func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// getDB returns the transaction from context if available, otherwise the default db
func (r *OrderRepository) getDB(ctx context.Context) *gorm.DB {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

// Save Insert the order and its items.
// When called within UoW.Execute(), it uses the transaction from context.
// When called standalone, it creates its own transaction for atomicity.
func (r *OrderRepository) Save(ctx context.Context, o *order.Order) error {
	orderPO, itemPOs := po.FromOrderDomain(o)

	if tx := persistence.TxFromContext(ctx); tx != nil {
		return r.saveWithTx(tx, orderPO, itemPOs)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return r.saveWithTx(tx, orderPO, itemPOs)
	})
}

func (r *OrderRepository) saveWithTx(tx *gorm.DB, orderPO *po.OrderPO, itemPOs []po.OrderItemPO) error {
	if err := tx.Create(orderPO).Error; err != nil {
		return err
	}
	if len(itemPOs) > 0 {
		if err := tx.Create(&itemPOs).Error; err != nil {
			return err
		}
	}
	return nil
}

// FindByID Find order by ID
func (r *OrderRepository) FindByID(ctx context.Context, id string) (*order.Order, error) {
	db := r.getDB(ctx)
	var orderPO po.OrderPO

	result := db.First(&orderPO, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, order.ErrOrderNotFound
		}
		return nil, result.Error
	}

	// Manually query order items (no Preload to keep aggregate boundaries clear)
	var itemPOs []po.OrderItemPO
	if err := db.Where("order_id = ?", id).Find(&itemPOs).Error; err != nil {
		return nil, err
	}

	return orderPO.ToDomain(itemPOs), nil
}

// FindByUserAndID Find order scoped to its owner. A foreign owner's order is
// reported as not found.
func (r *OrderRepository) FindByUserAndID(ctx context.Context, userID, id string) (*order.Order, error) {
	db := r.getDB(ctx)
	var orderPO po.OrderPO

	result := db.First(&orderPO, "id = ? AND user_id = ?", id, userID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, order.ErrOrderNotFound
		}
		return nil, result.Error
	}

	var itemPOs []po.OrderItemPO
	if err := db.Where("order_id = ?", id).Find(&itemPOs).Error; err != nil {
		return nil, err
	}

	return orderPO.ToDomain(itemPOs), nil
}

// FindByUserID Find the user's orders, most recent first
func (r *OrderRepository) FindByUserID(ctx context.Context, userID string) ([]*order.Order, error) {
	db := r.getDB(ctx)
	var orderPOs []po.OrderPO

	if err := db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orderPOs).Error; err != nil {
		return nil, err
	}

	return r.loadItems(db, orderPOs)
}

// Search Return a page of orders plus the total row count. SortBy must
// already be validated against order.SortableFields; an unknown field is a
// programming error here, not user input.
func (r *OrderRepository) Search(ctx context.Context, criteria order.SearchCriteria) ([]*order.Order, int64, error) {
	db := r.getDB(ctx)
	query := db.Model(&po.OrderPO{})

	if criteria.Status != nil {
		query = query.Where("status = ?", string(*criteria.Status))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := order.SortableFields[criteria.SortBy]
	if !ok {
		return nil, 0, fmt.Errorf("unsortable field: %s", criteria.SortBy)
	}
	direction := "ASC"
	if strings.EqualFold(criteria.SortOrder, "DESC") {
		direction = "DESC"
	}

	page := criteria.Page
	if page < 1 {
		page = 1
	}
	pageSize := criteria.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	var orderPOs []po.OrderPO
	if err := query.
		Order(column + " " + direction).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&orderPOs).Error; err != nil {
		return nil, 0, err
	}

	orders, err := r.loadItems(db, orderPOs)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *OrderRepository) loadItems(db *gorm.DB, orderPOs []po.OrderPO) ([]*order.Order, error) {
	orders := make([]*order.Order, len(orderPOs))
	for i, orderPO := range orderPOs {
		var itemPOs []po.OrderItemPO
		if err := db.Where("order_id = ?", orderPO.ID).Find(&itemPOs).Error; err != nil {
			return nil, err
		}
		orders[i] = orderPO.ToDomain(itemPOs)
	}
	return orders, nil
}

// TransitionStatus Conditionally move the order between statuses.
// The WHERE clause carries the expected current status, so of N concurrent
// transitions exactly one matches a row; the rest see RowsAffected == 0 and
// get ErrStatusConflict.
func (r *OrderRepository) TransitionStatus(ctx context.Context, orderID string, from, to order.Status) error {
	result := r.getDB(ctx).
		Model(&po.OrderPO{}).
		Where("id = ? AND status = ?", orderID, string(from)).
		Update("status", string(to))

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// Distinguish a vanished order from a lost race.
		var count int64
		if err := r.getDB(ctx).
			Model(&po.OrderPO{}).
			Where("id = ?", orderID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return order.ErrOrderNotFound
		}
		return order.ErrStatusConflict
	}

	return nil
}

// Compile-time interface implementation check
var _ order.Repository = (*OrderRepository)(nil)
