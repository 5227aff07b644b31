package shared

import (
	"fmt"
	"time"
)

// DomainEvent is a fact recorded by an aggregate. Events are collected by the
// unit of work, persisted to the outbox table inside the owning transaction,
// and published asynchronously after commit. Failures on the publish side
// never surface on the request that produced the event.
type DomainEvent interface {
	EventName() string
	OccurredOn() time.Time
	AggregateID() string
	// Payload returns the serializable event body handed to subscribers.
	Payload() map[string]interface{}
}

// ValidateEvent rejects events that cannot be persisted to the outbox.
func ValidateEvent(event DomainEvent) error {
	if event == nil {
		return fmt.Errorf("event cannot be nil")
	}
	if event.EventName() == "" {
		return fmt.Errorf("event name cannot be empty")
	}
	if event.AggregateID() == "" {
		return fmt.Errorf("aggregate ID cannot be empty")
	}
	return nil
}
