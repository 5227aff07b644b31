package payment

import (
	"context"

	"movieshop/domain/shared"
)

// SessionOutcome is the gateway's decision for a checkout session.
type SessionOutcome string

const (
	// OutcomeSuccess the user completed the hosted checkout.
	OutcomeSuccess SessionOutcome = "success"

	// OutcomeCanceled the user declined inside the hosted checkout. This
	// is a business outcome, not a transport failure: the order stays
	// payable.
	OutcomeCanceled SessionOutcome = "cancel"
)

// LineItem is one display line handed to the gateway.
type LineItem struct {
	Name   string
	Amount shared.Money
}

// CheckoutSession is the gateway's response for a settled session.
type CheckoutSession struct {
	Outcome    SessionOutcome
	ExternalID string
}

// Gateway drives the external payment provider. A returned error means the
// gateway was unreachable, timed out, or answered with something
// unexpected; timeouts from ctx are treated identically. A user decline is
// not an error but OutcomeCanceled.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, amount shared.Money, lines []LineItem) (*CheckoutSession, error)
}
