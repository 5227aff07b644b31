package order

import (
	"time"

	"movieshop/domain/shared"
)

type PlacedEvent struct {
	orderID     string
	userID      string
	totalAmount shared.Money
	occurredOn  time.Time
}

func NewPlacedEvent(orderID, userID string, totalAmount shared.Money) *PlacedEvent {
	return &PlacedEvent{
		orderID:     orderID,
		userID:      userID,
		totalAmount: totalAmount,
		occurredOn:  time.Now(),
	}
}

func (e *PlacedEvent) EventName() string     { return "order.placed" }
func (e *PlacedEvent) OccurredOn() time.Time { return e.occurredOn }
func (e *PlacedEvent) AggregateID() string   { return e.orderID }

func (e *PlacedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"order_id":     e.orderID,
		"user_id":      e.userID,
		"total_amount": e.totalAmount.Amount(),
		"currency":     e.totalAmount.Currency(),
	}
}

type CanceledEvent struct {
	orderID    string
	userID     string
	occurredOn time.Time
}

func NewCanceledEvent(orderID, userID string) *CanceledEvent {
	return &CanceledEvent{orderID: orderID, userID: userID, occurredOn: time.Now()}
}

func (e *CanceledEvent) EventName() string     { return "order.canceled" }
func (e *CanceledEvent) OccurredOn() time.Time { return e.occurredOn }
func (e *CanceledEvent) AggregateID() string   { return e.orderID }

func (e *CanceledEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"order_id": e.orderID,
		"user_id":  e.userID,
	}
}
