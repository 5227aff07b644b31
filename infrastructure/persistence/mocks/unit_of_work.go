package mocks

import (
	"context"
	"sync"

	"movieshop/domain/shared"
)

// MockUnitOfWork is a unit of work without real transactions. It still
// collects events from registered aggregates so tests can assert what would
// have reached the outbox.
type MockUnitOfWork struct {
	aggregates []shared.AggregateRoot
	sink       *EventSink
}

// EventSink accumulates events across unit-of-work executions. Shared by
// every MockUnitOfWork built from one MockUnitOfWorkFactory.
type EventSink struct {
	events []shared.DomainEvent
	mu     sync.Mutex
}

func (s *EventSink) append(events []shared.DomainEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, events...)
}

// Events returns a snapshot of everything collected so far.
func (s *EventSink) Events() []shared.DomainEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := make([]shared.DomainEvent, len(s.events))
	copy(events, s.events)
	return events
}

// NewMockUnitOfWork creates a standalone MockUnitOfWork instance
func NewMockUnitOfWork() *MockUnitOfWork {
	return &MockUnitOfWork{sink: &EventSink{}}
}

// Execute runs the business logic without transaction management. Events of
// registered aggregates are collected only when fn succeeds, matching the
// commit-only semantics of the real implementation.
func (u *MockUnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	u.aggregates = make([]shared.AggregateRoot, 0)

	if err := fn(ctx); err != nil {
		return err
	}

	for _, agg := range u.aggregates {
		u.sink.append(agg.PullEvents())
	}
	return nil
}

// RegisterNew registers a newly created aggregate root for event collection
func (u *MockUnitOfWork) RegisterNew(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

// RegisterDirty registers a modified aggregate root for event collection
func (u *MockUnitOfWork) RegisterDirty(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

// MockUnitOfWorkFactory builds MockUnitOfWork instances sharing one sink.
type MockUnitOfWorkFactory struct {
	Sink EventSink
}

// NewMockUnitOfWorkFactory Create Mock unit of work factory
func NewMockUnitOfWorkFactory() *MockUnitOfWorkFactory {
	return &MockUnitOfWorkFactory{}
}

func (f *MockUnitOfWorkFactory) New() shared.UnitOfWork {
	return &MockUnitOfWork{sink: &f.Sink}
}

// Compile-time interface implementation checks
var (
	_ shared.UnitOfWork        = (*MockUnitOfWork)(nil)
	_ shared.UnitOfWorkFactory = (*MockUnitOfWorkFactory)(nil)
)
