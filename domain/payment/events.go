package payment

import (
	"time"

	"movieshop/domain/shared"
)

// SucceededEvent is recorded when a payment settles successfully. The
// outbox worker turns it into the payment confirmation notification after
// the owning transaction commits.
type SucceededEvent struct {
	paymentID  string
	orderID    string
	userID     string
	amount     shared.Money
	occurredOn time.Time
}

func NewSucceededEvent(paymentID, orderID, userID string, amount shared.Money) *SucceededEvent {
	return &SucceededEvent{
		paymentID:  paymentID,
		orderID:    orderID,
		userID:     userID,
		amount:     amount,
		occurredOn: time.Now(),
	}
}

func (e *SucceededEvent) EventName() string     { return "payment.succeeded" }
func (e *SucceededEvent) OccurredOn() time.Time { return e.occurredOn }
func (e *SucceededEvent) AggregateID() string   { return e.paymentID }

func (e *SucceededEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"payment_id": e.paymentID,
		"order_id":   e.orderID,
		"user_id":    e.userID,
		"amount":     e.amount.Amount(),
		"currency":   e.amount.Currency(),
	}
}
