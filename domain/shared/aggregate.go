package shared

// AggregateRoot is the entry point of a consistency boundary. Aggregates
// record domain events internally; the unit of work pulls them after the
// business function succeeds and writes them to the outbox.
type AggregateRoot interface {
	// PullEvents returns and clears the events recorded since load/creation.
	PullEvents() []DomainEvent
}
