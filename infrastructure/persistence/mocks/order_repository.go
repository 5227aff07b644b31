package mocks

import (
	"context"
	"sort"
	"strings"
	"sync"

	"movieshop/domain/order"
)

// MockOrderRepository In-memory implementation of the order repository.
// TransitionStatus is guarded by the same single-winner rule as the MySQL
// implementation: the status check and the write happen under one lock, so
// concurrent transitions from the same status admit exactly one winner.
type MockOrderRepository struct {
	orders map[string]*order.Order
	mu     sync.RWMutex
}

// NewMockOrderRepository Create Mock order repository
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]*order.Order),
	}
}

func (r *MockOrderRepository) Save(ctx context.Context, o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.orders[o.ID()] = clone(o)
	return nil
}

// clone rebuilds a detached aggregate, like a real repository materializing
// a fresh instance per load. Callers mutating their copy never affect the
// stored one.
func clone(o *order.Order) *order.Order {
	return order.RebuildFromDTO(order.ReconstructionDTO{
		ID:          o.ID(),
		UserID:      o.UserID(),
		Items:       o.Items(),
		TotalAmount: o.TotalAmount(),
		Status:      o.Status(),
		CreatedAt:   o.CreatedAt(),
	})
}

func (r *MockOrderRepository) FindByID(ctx context.Context, id string) (*order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, exists := r.orders[id]
	if !exists {
		return nil, order.ErrOrderNotFound
	}
	return clone(o), nil
}

func (r *MockOrderRepository) FindByUserAndID(ctx context.Context, userID, id string) (*order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, exists := r.orders[id]
	if !exists || o.UserID() != userID {
		return nil, order.ErrOrderNotFound
	}
	return clone(o), nil
}

func (r *MockOrderRepository) FindByUserID(ctx context.Context, userID string) ([]*order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var orders []*order.Order
	for _, o := range r.orders {
		if o.UserID() == userID {
			orders = append(orders, clone(o))
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt().After(orders[j].CreatedAt())
	})
	return orders, nil
}

func (r *MockOrderRepository) Search(ctx context.Context, criteria order.SearchCriteria) ([]*order.Order, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*order.Order
	for _, o := range r.orders {
		if criteria.Status != nil && o.Status() != *criteria.Status {
			continue
		}
		matched = append(matched, clone(o))
	}
	total := int64(len(matched))

	desc := strings.EqualFold(criteria.SortOrder, "DESC")
	sort.Slice(matched, func(i, j int) bool {
		var less bool
		switch criteria.SortBy {
		case "total_amount":
			less = matched[i].TotalAmount().Amount() < matched[j].TotalAmount().Amount()
		case "status":
			less = matched[i].Status() < matched[j].Status()
		case "id":
			less = matched[i].ID() < matched[j].ID()
		default:
			less = matched[i].CreatedAt().Before(matched[j].CreatedAt())
		}
		if desc {
			return !less
		}
		return less
	})

	page := criteria.Page
	if page < 1 {
		page = 1
	}
	pageSize := criteria.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	start := (page - 1) * pageSize
	if start >= len(matched) {
		return nil, total, nil
	}
	end := start + pageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *MockOrderRepository) TransitionStatus(ctx context.Context, orderID string, from, to order.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, exists := r.orders[orderID]
	if !exists {
		return order.ErrOrderNotFound
	}
	if o.Status() != from {
		return order.ErrStatusConflict
	}

	r.orders[orderID] = order.RebuildFromDTO(order.ReconstructionDTO{
		ID:          o.ID(),
		UserID:      o.UserID(),
		Items:       o.Items(),
		TotalAmount: o.TotalAmount(),
		Status:      to,
		CreatedAt:   o.CreatedAt(),
	})
	return nil
}

// Compile-time interface implementation check
var _ order.Repository = (*MockOrderRepository)(nil)
