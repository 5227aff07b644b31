package shared

import "context"

// UnitOfWork manages the transaction boundary and aggregate event collection.
// Execute runs fn inside a single storage transaction; repositories invoked
// through the context join that transaction. On success the events of every
// registered aggregate are appended to the outbox within the same
// transaction, so notifications become visible only after commit.
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(ctx context.Context) error) error
	RegisterNew(aggregate AggregateRoot)
	RegisterDirty(aggregate AggregateRoot)
}

type UnitOfWorkFactory interface {
	New() UnitOfWork
}

type OutboxRepository interface {
	SaveEvent(ctx context.Context, event DomainEvent) error
}
