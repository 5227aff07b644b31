// Package payment records settlement attempts against orders and drives
// their terminal status through the external gateway outcome.
package payment

import (
	"fmt"
	"time"

	"movieshop/domain/shared"

	"github.com/google/uuid"
)

// Status Payment status enum
type Status string

const (
	StatusSuccessful Status = "SUCCESSFUL"
	StatusCancelled  Status = "CANCELLED"
	StatusRefunded   Status = "REFUNDED"
)

// Payment is one settlement attempt against an order. At most one payment
// per order ever reaches SUCCESSFUL.
type Payment struct {
	ID                string
	OrderID           string
	UserID            string
	CreatedAt         time.Time
	Status            Status
	Amount            shared.Money
	ExternalPaymentID string
	Items             []Item

	events []shared.DomainEvent
}

// Item is the line-level breakdown of a payment, one per order item. The
// price snapshot is copied again at payment time; a divergence from the
// order's snapshot indicates corruption and aborts the settlement.
type Item struct {
	ID             string
	PaymentID      string
	OrderItemID    string
	MovieID        string
	PriceAtPayment shared.Money
}

// ItemInput is one order line being settled.
type ItemInput struct {
	OrderItemID string
	MovieID     string
	Price       shared.Money
}

// NewSuccessful builds a SUCCESSFUL payment with its line breakdown and
// records the confirmation event.
func NewSuccessful(orderID, userID, externalID string, amount shared.Money, inputs []ItemInput) (*Payment, error) {
	p, err := newPayment(orderID, userID, StatusSuccessful, amount, inputs)
	if err != nil {
		return nil, err
	}
	p.ExternalPaymentID = externalID
	p.events = append(p.events, NewSucceededEvent(p.ID, orderID, userID, amount))
	return p, nil
}

// NewCancelled builds a CANCELLED payment recording a user-declined gateway
// session. The session id is kept for reconciliation; the order stays
// payable and no event is emitted.
func NewCancelled(orderID, userID, externalID string, amount shared.Money, inputs []ItemInput) (*Payment, error) {
	p, err := newPayment(orderID, userID, StatusCancelled, amount, inputs)
	if err != nil {
		return nil, err
	}
	p.ExternalPaymentID = externalID
	return p, nil
}

func newPayment(orderID, userID string, status Status, amount shared.Money, inputs []ItemInput) (*Payment, error) {
	paymentID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate payment ID: %w", err)
	}
	id := "payment-" + paymentID.String()

	items := make([]Item, len(inputs))
	for i, input := range inputs {
		itemID, err := uuid.NewV7()
		if err != nil {
			return nil, fmt.Errorf("failed to generate payment item ID: %w", err)
		}
		items[i] = Item{
			ID:             itemID.String(),
			PaymentID:      id,
			OrderItemID:    input.OrderItemID,
			MovieID:        input.MovieID,
			PriceAtPayment: input.Price,
		}
	}

	return &Payment{
		ID:        id,
		OrderID:   orderID,
		UserID:    userID,
		CreatedAt: time.Now(),
		Status:    status,
		Amount:    amount,
		Items:     items,
	}, nil
}

// PullEvents returns and clears recorded domain events.
func (p *Payment) PullEvents() []shared.DomainEvent {
	events := p.events
	p.events = nil
	return events
}
