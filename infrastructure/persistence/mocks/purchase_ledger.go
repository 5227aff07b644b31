package mocks

import (
	"context"
	"sync"

	"movieshop/domain/purchase"
)

// MockPurchaseLedger In-memory implementation of the purchase ledger.
// The check and the insert happen under one lock, matching the unique
// constraint semantics of the MySQL implementation.
type MockPurchaseLedger struct {
	records map[string]purchase.Record // keyed by userID + "/" + movieID
	mu      sync.RWMutex
}

// NewMockPurchaseLedger Create Mock purchase ledger
func NewMockPurchaseLedger() *MockPurchaseLedger {
	return &MockPurchaseLedger{
		records: make(map[string]purchase.Record),
	}
}

func key(userID, movieID string) string {
	return userID + "/" + movieID
}

func (r *MockPurchaseLedger) IsPurchased(ctx context.Context, userID, movieID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.records[key(userID, movieID)]
	return exists, nil
}

func (r *MockPurchaseLedger) Append(ctx context.Context, records []purchase.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, record := range records {
		if _, exists := r.records[key(record.UserID, record.MovieID)]; exists {
			return purchase.ErrDuplicateRecord
		}
	}
	for _, record := range records {
		r.records[key(record.UserID, record.MovieID)] = record
	}
	return nil
}

// Compile-time interface implementation check
var _ purchase.Ledger = (*MockPurchaseLedger)(nil)
