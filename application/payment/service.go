/*
Package payment Application Layer - settlement orchestration.

Pay drives the whole settlement: gate on the order being PENDING, open the
hosted gateway session, then persist the outcome. The gateway call happens
outside any transaction; on success one transaction moves the order to PAID,
records the payment with its line breakdown, and appends the purchase
ledger. The conditional status transition is the winner gate, so of N
concurrent payment attempts against one order exactly one reaches
SUCCESSFUL.
*/
package payment

import (
	"context"
	stderrors "errors"
	"time"

	"movieshop/domain/catalog"
	"movieshop/domain/order"
	"movieshop/domain/payment"
	"movieshop/domain/purchase"
	"movieshop/domain/shared"
	"movieshop/pkg/errors"
)

// ApplicationService Payment application service
type ApplicationService struct {
	paymentRepo payment.Repository
	orderRepo   order.Repository
	ledger      purchase.Ledger
	movies      catalog.Catalog
	gateway     payment.Gateway
	uowFactory  shared.UnitOfWorkFactory
}

// NewApplicationService Create payment application service
func NewApplicationService(
	paymentRepo payment.Repository,
	orderRepo order.Repository,
	ledger purchase.Ledger,
	movies catalog.Catalog,
	gateway payment.Gateway,
	uowFactory shared.UnitOfWorkFactory,
) *ApplicationService {
	return &ApplicationService{
		paymentRepo: paymentRepo,
		orderRepo:   orderRepo,
		ledger:      ledger,
		movies:      movies,
		gateway:     gateway,
		uowFactory:  uowFactory,
	}
}

// ============================================================================
// DTO Definitions
// ============================================================================

// PaymentItemResponse Payment line response DTO
type PaymentItemResponse struct {
	MovieID string        `json:"movie_id"`
	Title   string        `json:"title"`
	Price   MoneyResponse `json:"price"`
}

// PaymentResponse Payment response DTO
type PaymentResponse struct {
	ID                string                `json:"id"`
	OrderID           string                `json:"order_id"`
	UserID            string                `json:"user_id"`
	Status            string                `json:"status"`
	Amount            MoneyResponse         `json:"amount"`
	ExternalPaymentID string                `json:"external_payment_id,omitempty"`
	Items             []PaymentItemResponse `json:"items"`
	CreatedAt         time.Time             `json:"created_at"`
}

// MoneyResponse Money response DTO
type MoneyResponse struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// ============================================================================
// Application Service Methods
// ============================================================================

// Pay Settle a PENDING order through the gateway.
// Three outcomes:
//   - transport failure or timeout: nothing is written, the caller may retry;
//   - user declined in the hosted checkout: a CANCELLED payment row is
//     recorded, the order stays PENDING and payable;
//   - success: order moves to PAID, the SUCCESSFUL payment and the purchase
//     ledger entries commit in the same transaction.
func (s *ApplicationService) Pay(ctx context.Context, userID, orderID string) (*PaymentResponse, error) {
	o, err := s.orderRepo.FindByUserAndID(ctx, userID, orderID)
	if err != nil {
		if stderrors.Is(err, order.ErrOrderNotFound) {
			return nil, errors.OrderNotFound()
		}
		return nil, errors.Persistence(err)
	}
	if !o.IsPayable() {
		return nil, errors.OrderNotPayable()
	}

	inputs, lines, err := s.settlementLines(ctx, o)
	if err != nil {
		return nil, err
	}

	// Gateway call outside any transaction: it can block for the whole
	// hosted checkout and must not hold row locks meanwhile.
	session, err := s.gateway.CreateCheckoutSession(ctx, o.TotalAmount(), lines)
	if err != nil {
		return nil, errors.Gateway(err, "payment gateway unavailable")
	}

	if session.Outcome == payment.OutcomeCanceled {
		return s.recordCancelled(ctx, o, session.ExternalID, inputs)
	}

	return s.recordSuccessful(ctx, o, session.ExternalID, inputs)
}

// settlementLines builds the payment inputs and the gateway display lines
// from the order's price snapshots. The snapshots must still add up to the
// order total; a divergence aborts before the gateway is ever contacted.
func (s *ApplicationService) settlementLines(ctx context.Context, o *order.Order) ([]payment.ItemInput, []payment.LineItem, error) {
	items := o.Items()
	inputs := make([]payment.ItemInput, len(items))
	lines := make([]payment.LineItem, len(items))

	var sum int64
	for i, item := range items {
		title := item.MovieID()
		if m, err := s.movies.GetMovie(ctx, item.MovieID()); err == nil {
			title = m.Title
		}

		inputs[i] = payment.ItemInput{
			OrderItemID: item.ID(),
			MovieID:     item.MovieID(),
			Price:       item.PriceAtOrder(),
		}
		lines[i] = payment.LineItem{
			Name:   title,
			Amount: item.PriceAtOrder(),
		}
		sum += item.PriceAtOrder().Amount()
	}

	if sum != o.TotalAmount().Amount() {
		return nil, nil, errors.Wrap(payment.ErrPriceMismatch, errors.CodeInternal, "order snapshot is inconsistent")
	}
	return inputs, lines, nil
}

// recordCancelled persists the declined attempt with the gateway's session
// id. The order is untouched and remains payable.
func (s *ApplicationService) recordCancelled(ctx context.Context, o *order.Order, externalID string, inputs []payment.ItemInput) (*PaymentResponse, error) {
	p, err := payment.NewCancelled(o.ID(), o.UserID(), externalID, o.TotalAmount(), inputs)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "cannot build payment")
	}

	uow := s.uowFactory.New()
	err = uow.Execute(ctx, func(ctx context.Context) error {
		if err := s.paymentRepo.Save(ctx, p); err != nil {
			return errors.Persistence(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return nil, errors.PaymentCanceled()
}

// recordSuccessful commits the settlement. The conditional PENDING→PAID
// transition, the payment rows and the ledger entries share one
// transaction; losing the transition race rolls everything back.
func (s *ApplicationService) recordSuccessful(ctx context.Context, o *order.Order, externalID string, inputs []payment.ItemInput) (*PaymentResponse, error) {
	var p *payment.Payment

	uow := s.uowFactory.New()
	err := uow.Execute(ctx, func(ctx context.Context) error {
		// Built inside the transaction function: a retried attempt has
		// already had the previous aggregate's events drained, so each
		// attempt needs a fresh payment with its confirmation event.
		var err error
		p, err = payment.NewSuccessful(o.ID(), o.UserID(), externalID, o.TotalAmount(), inputs)
		if err != nil {
			return errors.Wrap(err, errors.CodeInternal, "cannot build payment")
		}

		if err := s.orderRepo.TransitionStatus(ctx, o.ID(), order.StatusPending, order.StatusPaid); err != nil {
			switch {
			case stderrors.Is(err, order.ErrStatusConflict):
				return errors.OrderNotPayable()
			case stderrors.Is(err, order.ErrOrderNotFound):
				return errors.OrderNotFound()
			default:
				return errors.Persistence(err)
			}
		}

		if err := s.paymentRepo.Save(ctx, p); err != nil {
			return errors.Persistence(err)
		}

		records := make([]purchase.Record, len(inputs))
		for i, input := range inputs {
			records[i] = purchase.Record{
				UserID:      o.UserID(),
				MovieID:     input.MovieID,
				PurchasedAt: p.CreatedAt,
			}
		}
		if err := s.ledger.Append(ctx, records); err != nil {
			if stderrors.Is(err, purchase.ErrDuplicateRecord) {
				return errors.AlreadyPurchased()
			}
			return errors.Persistence(err)
		}

		uow.RegisterNew(p)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.convertToResponse(ctx, p), nil
}

// GetPayment Return one of the user's payments with resolved movie titles.
func (s *ApplicationService) GetPayment(ctx context.Context, userID, paymentID string) (*PaymentResponse, error) {
	p, err := s.paymentRepo.FindByID(ctx, paymentID)
	if err != nil {
		if stderrors.Is(err, payment.ErrPaymentNotFound) {
			return nil, errors.PaymentNotFound()
		}
		return nil, errors.Persistence(err)
	}
	if p.UserID != userID {
		return nil, errors.PaymentNotFound()
	}

	return s.convertToResponse(ctx, p), nil
}

// ListPayments Return the user's payments, most recent first. A user who
// never paid gets a not-found, matching the single-payment lookup.
func (s *ApplicationService) ListPayments(ctx context.Context, userID string) ([]*PaymentResponse, error) {
	payments, err := s.paymentRepo.FindByUserID(ctx, userID)
	if err != nil {
		if stderrors.Is(err, payment.ErrPaymentNotFound) {
			return nil, errors.PaymentNotFound()
		}
		return nil, errors.Persistence(err)
	}

	responses := make([]*PaymentResponse, len(payments))
	for i, p := range payments {
		responses[i] = s.convertToResponse(ctx, p)
	}
	return responses, nil
}

// convertToResponse Convert payment to response DTO, resolving titles
// best-effort against the catalog.
func (s *ApplicationService) convertToResponse(ctx context.Context, p *payment.Payment) *PaymentResponse {
	items := make([]PaymentItemResponse, len(p.Items))
	for i, item := range p.Items {
		title := item.MovieID
		if m, err := s.movies.GetMovie(ctx, item.MovieID); err == nil {
			title = m.Title
		}
		items[i] = PaymentItemResponse{
			MovieID: item.MovieID,
			Title:   title,
			Price: MoneyResponse{
				Amount:   item.PriceAtPayment.Amount(),
				Currency: item.PriceAtPayment.Currency(),
			},
		}
	}

	return &PaymentResponse{
		ID:                p.ID,
		OrderID:           p.OrderID,
		UserID:            p.UserID,
		Status:            string(p.Status),
		Amount:            MoneyResponse{Amount: p.Amount.Amount(), Currency: p.Amount.Currency()},
		ExternalPaymentID: p.ExternalPaymentID,
		Items:             items,
		CreatedAt:         p.CreatedAt,
	}
}
