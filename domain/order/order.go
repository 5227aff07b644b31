/*
Package order is the immutable financial snapshot produced by checkout.

The Order aggregate maintains the consistency boundary of an order: items
carry the price snapshotted at creation, the total always equals the sum of
those snapshots, and status is the only field that ever changes after
creation. Status moves along PENDING→PAID (payment success) or
PENDING→CANCELED (user cancel); both targets are terminal.
*/
package order

import (
	"fmt"
	"time"

	"movieshop/domain/shared"

	"github.com/google/uuid"
)

// Status Order status enum
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusPaid     Status = "PAID"
	StatusCanceled Status = "CANCELED"
)

// SortableFields is the allow-list for admin order listings. Anything else
// is rejected before it reaches storage.
var SortableFields = map[string]string{
	"id":           "id",
	"created_at":   "created_at",
	"total_amount": "total_amount",
	"status":       "status",
}

// Order aggregate root.
type Order struct {
	id          string
	userID      string
	items       []Item
	totalAmount shared.Money
	status      Status
	createdAt   time.Time

	events []shared.DomainEvent
}

// Item is an order line owned exclusively by its Order. It carries the
// price snapshot copied from the catalog at order creation and never
// re-read afterward.
type Item struct {
	id           string
	movieID      string
	priceAtOrder shared.Money
}

// Line is the input for one order line at creation time.
type Line struct {
	MovieID string
	Price   shared.Money
}

// NewOrder creates a PENDING order from resolved catalog prices. This is the
// only way an Order comes into existence; the total is derived from the
// lines and can never be set independently.
func NewOrder(userID string, lines []Line) (*Order, error) {
	if userID == "" {
		return nil, ErrInvalidOrder
	}
	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}

	currency := lines[0].Price.Currency()
	total := shared.NewMoney(0, currency)
	items := make([]Item, len(lines))
	for i, line := range lines {
		itemID, err := uuid.NewV7()
		if err != nil {
			return nil, fmt.Errorf("failed to generate order item ID: %w", err)
		}
		items[i] = Item{
			id:           itemID.String(),
			movieID:      line.MovieID,
			priceAtOrder: line.Price,
		}
		total, err = total.Add(line.Price)
		if err != nil {
			return nil, err
		}
	}
	if !total.IsPositive() {
		return nil, ErrInvalidOrder
	}

	orderID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate order ID: %w", err)
	}

	o := &Order{
		id:          "order-" + orderID.String(),
		userID:      userID,
		items:       items,
		totalAmount: *total,
		status:      StatusPending,
		createdAt:   time.Now(),
		events:      make([]shared.DomainEvent, 0, 1),
	}
	o.events = append(o.events, NewPlacedEvent(o.id, userID, o.totalAmount))
	return o, nil
}

// Cancel transitions the order to CANCELED. Only PENDING orders can be
// canceled; CANCELED is terminal.
func (o *Order) Cancel() error {
	if o.status != StatusPending {
		return ErrNotCancelable
	}
	o.status = StatusCanceled
	o.events = append(o.events, NewCanceledEvent(o.id, o.userID))
	return nil
}

// IsPayable reports whether a payment may be attempted.
func (o *Order) IsPayable() bool {
	return o.status == StatusPending
}

// Accessors

func (o *Order) ID() string                { return o.id }
func (o *Order) UserID() string            { return o.userID }
func (o *Order) Items() []Item             { return o.items }
func (o *Order) TotalAmount() shared.Money { return o.totalAmount }
func (o *Order) Status() Status            { return o.status }
func (o *Order) CreatedAt() time.Time      { return o.createdAt }

// PullEvents returns and clears recorded domain events.
func (o *Order) PullEvents() []shared.DomainEvent {
	events := o.events
	o.events = nil
	return events
}

func (i Item) ID() string                 { return i.id }
func (i Item) MovieID() string            { return i.movieID }
func (i Item) PriceAtOrder() shared.Money { return i.priceAtOrder }

// ReconstructionDTO rebuilds an Order from storage. Repository use only.
type ReconstructionDTO struct {
	ID          string
	UserID      string
	Items       []Item
	TotalAmount shared.Money
	Status      Status
	CreatedAt   time.Time
}

// RebuildFromDTO reconstructs the aggregate without recording events.
func RebuildFromDTO(dto ReconstructionDTO) *Order {
	return &Order{
		id:          dto.ID,
		userID:      dto.UserID,
		items:       dto.Items,
		totalAmount: dto.TotalAmount,
		status:      dto.Status,
		createdAt:   dto.CreatedAt,
		events:      nil,
	}
}

// ItemReconstructionDTO rebuilds an order line from storage.
type ItemReconstructionDTO struct {
	ID           string
	MovieID      string
	PriceAtOrder shared.Money
}

// RebuildItemFromDTO reconstructs an order line.
func RebuildItemFromDTO(dto ItemReconstructionDTO) Item {
	return Item{
		id:           dto.ID,
		movieID:      dto.MovieID,
		priceAtOrder: dto.PriceAtOrder,
	}
}
