package mocks

import (
	"context"
	"sort"
	"sync"

	"movieshop/domain/payment"
)

// MockPaymentRepository In-memory implementation of the payment repository.
type MockPaymentRepository struct {
	payments map[string]*payment.Payment
	mu       sync.RWMutex
}

// NewMockPaymentRepository Create Mock payment repository
func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{
		payments: make(map[string]*payment.Payment),
	}
}

func (r *MockPaymentRepository) Save(ctx context.Context, p *payment.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.payments[p.ID] = p
	return nil
}

func (r *MockPaymentRepository) FindByID(ctx context.Context, id string) (*payment.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, exists := r.payments[id]
	if !exists {
		return nil, payment.ErrPaymentNotFound
	}
	return p, nil
}

func (r *MockPaymentRepository) FindByUserID(ctx context.Context, userID string) ([]*payment.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var payments []*payment.Payment
	for _, p := range r.payments {
		if p.UserID == userID {
			payments = append(payments, p)
		}
	}
	if len(payments) == 0 {
		return nil, payment.ErrPaymentNotFound
	}
	sort.Slice(payments, func(i, j int) bool {
		return payments[i].CreatedAt.After(payments[j].CreatedAt)
	})
	return payments, nil
}

// CountByOrderAndStatus Test helper for asserting settlement outcomes.
func (r *MockPaymentRepository) CountByOrderAndStatus(orderID string, status payment.Status) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, p := range r.payments {
		if p.OrderID == orderID && p.Status == status {
			count++
		}
	}
	return count
}

// Compile-time interface implementation check
var _ payment.Repository = (*MockPaymentRepository)(nil)
