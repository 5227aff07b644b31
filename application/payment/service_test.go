package payment

import (
	"context"
	stderrors "errors"
	"sync"
	"sync/atomic"
	"testing"

	"movieshop/domain/catalog"
	"movieshop/domain/order"
	"movieshop/domain/payment"
	"movieshop/domain/purchase"
	"movieshop/domain/shared"
	"movieshop/infrastructure/persistence/mocks"
	"movieshop/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubGateway answers every session with a fixed outcome or error and
// counts how often it was reached.
type stubGateway struct {
	outcome payment.SessionOutcome
	err     error
	calls   atomic.Int64
}

func (g *stubGateway) CreateCheckoutSession(ctx context.Context, amount shared.Money, lines []payment.LineItem) (*payment.CheckoutSession, error) {
	g.calls.Add(1)
	if g.err != nil {
		return nil, g.err
	}
	return &payment.CheckoutSession{
		Outcome:    g.outcome,
		ExternalID: "ext-session-1",
	}, nil
}

type fixture struct {
	svc         *ApplicationService
	paymentRepo *mocks.MockPaymentRepository
	orderRepo   *mocks.MockOrderRepository
	ledger      *mocks.MockPurchaseLedger
	gateway     *stubGateway
	uowFactory  *mocks.MockUnitOfWorkFactory
}

func newFixture(t *testing.T, gw *stubGateway) *fixture {
	t.Helper()

	paymentRepo := mocks.NewMockPaymentRepository()
	orderRepo := mocks.NewMockOrderRepository()
	ledger := mocks.NewMockPurchaseLedger()
	movies := mocks.NewMockMovieCatalog()
	movies.AddMovie(&catalog.Movie{ID: "movie-1", Title: "Heat", Price: *shared.NewMoney(999, "USD")})
	movies.AddMovie(&catalog.Movie{ID: "movie-2", Title: "Ronin", Price: *shared.NewMoney(1450, "USD")})
	uowFactory := mocks.NewMockUnitOfWorkFactory()

	return &fixture{
		svc:         NewApplicationService(paymentRepo, orderRepo, ledger, movies, gw, uowFactory),
		paymentRepo: paymentRepo,
		orderRepo:   orderRepo,
		ledger:      ledger,
		gateway:     gw,
		uowFactory:  uowFactory,
	}
}

func (f *fixture) placeOrder(t *testing.T, userID string, movieIDs ...string) *order.Order {
	t.Helper()

	lines := make([]order.Line, len(movieIDs))
	prices := map[string]int64{"movie-1": 999, "movie-2": 1450}
	for i, movieID := range movieIDs {
		lines[i] = order.Line{MovieID: movieID, Price: *shared.NewMoney(prices[movieID], "USD")}
	}
	o, err := order.NewOrder(userID, lines)
	require.NoError(t, err)
	o.PullEvents()
	require.NoError(t, f.orderRepo.Save(context.Background(), o))
	return o
}

func TestPaySettlesOrder(t *testing.T) {
	f := newFixture(t, &stubGateway{outcome: payment.OutcomeSuccess})
	ctx := context.Background()
	o := f.placeOrder(t, "user-1", "movie-1", "movie-2")

	resp, err := f.svc.Pay(ctx, "user-1", o.ID())
	require.NoError(t, err)
	assert.Equal(t, string(payment.StatusSuccessful), resp.Status)
	assert.Equal(t, "ext-session-1", resp.ExternalPaymentID)
	assert.Equal(t, int64(2449), resp.Amount.Amount)
	require.Len(t, resp.Items, 2)
	assert.ElementsMatch(t, []string{"Heat", "Ronin"}, []string{resp.Items[0].Title, resp.Items[1].Title})

	// Order is PAID and both movies are in the ledger.
	stored, err := f.orderRepo.FindByID(ctx, o.ID())
	require.NoError(t, err)
	assert.Equal(t, order.StatusPaid, stored.Status())

	for _, movieID := range []string{"movie-1", "movie-2"} {
		owned, err := f.ledger.IsPurchased(ctx, "user-1", movieID)
		require.NoError(t, err)
		assert.True(t, owned)
	}

	// The confirmation event reached the outbox path.
	events := f.uowFactory.Sink.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "payment.succeeded", events[0].EventName())
}

func TestPayUserCancelKeepsOrderPayable(t *testing.T) {
	f := newFixture(t, &stubGateway{outcome: payment.OutcomeCanceled})
	ctx := context.Background()
	o := f.placeOrder(t, "user-1", "movie-1")

	_, err := f.svc.Pay(ctx, "user-1", o.ID())
	assert.True(t, errors.Is(err, errors.CodePaymentCanceled))

	// The decline is on record, with the gateway session kept for
	// reconciliation, but the order stays PENDING.
	assert.Equal(t, 1, f.paymentRepo.CountByOrderAndStatus(o.ID(), payment.StatusCancelled))
	declined, err := f.paymentRepo.FindByUserID(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, declined, 1)
	assert.Equal(t, "ext-session-1", declined[0].ExternalPaymentID)
	stored, err := f.orderRepo.FindByID(ctx, o.ID())
	require.NoError(t, err)
	assert.Equal(t, order.StatusPending, stored.Status())

	// A later attempt can still settle it.
	f.gateway.outcome = payment.OutcomeSuccess
	f.gateway.err = nil
	resp, err := f.svc.Pay(ctx, "user-1", o.ID())
	require.NoError(t, err)
	assert.Equal(t, string(payment.StatusSuccessful), resp.Status)
}

func TestPayGatewayFailureWritesNothing(t *testing.T) {
	f := newFixture(t, &stubGateway{err: stderrors.New("connection refused")})
	ctx := context.Background()
	o := f.placeOrder(t, "user-1", "movie-1")

	_, err := f.svc.Pay(ctx, "user-1", o.ID())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeGateway))
	assert.True(t, errors.AsAppError(err).Retryable())

	assert.Equal(t, 0, f.paymentRepo.CountByOrderAndStatus(o.ID(), payment.StatusSuccessful))
	assert.Equal(t, 0, f.paymentRepo.CountByOrderAndStatus(o.ID(), payment.StatusCancelled))

	stored, err := f.orderRepo.FindByID(ctx, o.ID())
	require.NoError(t, err)
	assert.Equal(t, order.StatusPending, stored.Status())
}

func TestPayPaidOrderSkipsGateway(t *testing.T) {
	f := newFixture(t, &stubGateway{outcome: payment.OutcomeSuccess})
	ctx := context.Background()
	o := f.placeOrder(t, "user-1", "movie-1")

	_, err := f.svc.Pay(ctx, "user-1", o.ID())
	require.NoError(t, err)
	callsAfterFirst := f.gateway.calls.Load()

	_, err = f.svc.Pay(ctx, "user-1", o.ID())
	assert.True(t, errors.Is(err, errors.CodeOrderNotPayable))
	assert.Equal(t, callsAfterFirst, f.gateway.calls.Load(), "payability gate fires before the gateway")
}

func TestPayCanceledOrder(t *testing.T) {
	f := newFixture(t, &stubGateway{outcome: payment.OutcomeSuccess})
	ctx := context.Background()
	o := f.placeOrder(t, "user-1", "movie-1")
	require.NoError(t, f.orderRepo.TransitionStatus(ctx, o.ID(), order.StatusPending, order.StatusCanceled))

	_, err := f.svc.Pay(ctx, "user-1", o.ID())
	assert.True(t, errors.Is(err, errors.CodeOrderNotPayable))
}

func TestPayForeignOrder(t *testing.T) {
	f := newFixture(t, &stubGateway{outcome: payment.OutcomeSuccess})
	o := f.placeOrder(t, "user-1", "movie-1")

	_, err := f.svc.Pay(context.Background(), "user-2", o.ID())
	assert.True(t, errors.Is(err, errors.CodeOrderNotFound))
}

func TestConcurrentPaysAdmitOneSuccess(t *testing.T) {
	f := newFixture(t, &stubGateway{outcome: payment.OutcomeSuccess})
	ctx := context.Background()
	o := f.placeOrder(t, "user-1", "movie-1")

	const attempts = 16
	var wg sync.WaitGroup
	results := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = f.svc.Pay(ctx, "user-1", o.ID())
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range results {
		if err == nil {
			winners++
		} else {
			assert.True(t, errors.Is(err, errors.CodeOrderNotPayable))
		}
	}
	assert.Equal(t, 1, winners)
	assert.Equal(t, 1, f.paymentRepo.CountByOrderAndStatus(o.ID(), payment.StatusSuccessful))

	stored, err := f.orderRepo.FindByID(ctx, o.ID())
	require.NoError(t, err)
	assert.Equal(t, order.StatusPaid, stored.Status())
}

// retryingUnitOfWork runs the transaction function twice, draining and
// discarding the first attempt's events the way a rolled-back transient
// failure does, then collects events from the second attempt only.
type retryingUnitOfWork struct {
	aggregates []shared.AggregateRoot
	collected  []shared.DomainEvent
}

func (u *retryingUnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	u.aggregates = nil
	if err := fn(ctx); err != nil {
		return err
	}
	for _, agg := range u.aggregates {
		agg.PullEvents()
	}

	u.aggregates = nil
	if err := fn(ctx); err != nil {
		return err
	}
	for _, agg := range u.aggregates {
		u.collected = append(u.collected, agg.PullEvents()...)
	}
	return nil
}

func (u *retryingUnitOfWork) RegisterNew(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

func (u *retryingUnitOfWork) RegisterDirty(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

type retryingUnitOfWorkFactory struct{ uow *retryingUnitOfWork }

func (f *retryingUnitOfWorkFactory) New() shared.UnitOfWork { return f.uow }

// replayOrderRepo serves the same PENDING order on every load and admits any
// status transition, so both attempts of a retried settlement go through.
type replayOrderRepo struct{ o *order.Order }

func (r *replayOrderRepo) clone() *order.Order {
	return order.RebuildFromDTO(order.ReconstructionDTO{
		ID:          r.o.ID(),
		UserID:      r.o.UserID(),
		Items:       r.o.Items(),
		TotalAmount: r.o.TotalAmount(),
		Status:      order.StatusPending,
		CreatedAt:   r.o.CreatedAt(),
	})
}

func (r *replayOrderRepo) Save(ctx context.Context, o *order.Order) error { return nil }

func (r *replayOrderRepo) FindByID(ctx context.Context, id string) (*order.Order, error) {
	return r.clone(), nil
}

func (r *replayOrderRepo) FindByUserAndID(ctx context.Context, userID, id string) (*order.Order, error) {
	return r.clone(), nil
}

func (r *replayOrderRepo) FindByUserID(ctx context.Context, userID string) ([]*order.Order, error) {
	return []*order.Order{r.clone()}, nil
}

func (r *replayOrderRepo) Search(ctx context.Context, criteria order.SearchCriteria) ([]*order.Order, int64, error) {
	return nil, 0, nil
}

func (r *replayOrderRepo) TransitionStatus(ctx context.Context, orderID string, from, to order.Status) error {
	return nil
}

// nopLedger accepts every append so a settlement can be replayed.
type nopLedger struct{}

func (nopLedger) IsPurchased(ctx context.Context, userID, movieID string) (bool, error) {
	return false, nil
}

func (nopLedger) Append(ctx context.Context, records []purchase.Record) error { return nil }

func TestPayRetriedTransactionKeepsConfirmationEvent(t *testing.T) {
	o, err := order.NewOrder("user-1", []order.Line{{MovieID: "movie-1", Price: *shared.NewMoney(999, "USD")}})
	require.NoError(t, err)
	o.PullEvents()

	movies := mocks.NewMockMovieCatalog()
	movies.AddMovie(&catalog.Movie{ID: "movie-1", Title: "Heat", Price: *shared.NewMoney(999, "USD")})

	uow := &retryingUnitOfWork{}
	svc := NewApplicationService(
		mocks.NewMockPaymentRepository(),
		&replayOrderRepo{o: o},
		nopLedger{},
		movies,
		&stubGateway{outcome: payment.OutcomeSuccess},
		&retryingUnitOfWorkFactory{uow: uow},
	)

	resp, err := svc.Pay(context.Background(), "user-1", o.ID())
	require.NoError(t, err)
	assert.Equal(t, string(payment.StatusSuccessful), resp.Status)

	// The retried attempt records its own confirmation event; the drained
	// first attempt must not leave the settlement silent.
	require.Len(t, uow.collected, 1)
	assert.Equal(t, "payment.succeeded", uow.collected[0].EventName())
}

func TestGetPaymentIsOwnerScoped(t *testing.T) {
	f := newFixture(t, &stubGateway{outcome: payment.OutcomeSuccess})
	ctx := context.Background()
	o := f.placeOrder(t, "user-1", "movie-1")

	resp, err := f.svc.Pay(ctx, "user-1", o.ID())
	require.NoError(t, err)

	got, err := f.svc.GetPayment(ctx, "user-1", resp.ID)
	require.NoError(t, err)
	assert.Equal(t, resp.ID, got.ID)

	_, err = f.svc.GetPayment(ctx, "user-2", resp.ID)
	assert.True(t, errors.Is(err, errors.CodePaymentNotFound))
}

func TestListPaymentsEmpty(t *testing.T) {
	f := newFixture(t, &stubGateway{outcome: payment.OutcomeSuccess})

	_, err := f.svc.ListPayments(context.Background(), "user-1")
	assert.True(t, errors.Is(err, errors.CodePaymentNotFound))
}

func TestListPaymentsIncludesDeclines(t *testing.T) {
	f := newFixture(t, &stubGateway{outcome: payment.OutcomeCanceled})
	ctx := context.Background()
	o := f.placeOrder(t, "user-1", "movie-1")

	_, err := f.svc.Pay(ctx, "user-1", o.ID())
	assert.True(t, errors.Is(err, errors.CodePaymentCanceled))

	f.gateway.outcome = payment.OutcomeSuccess
	_, err = f.svc.Pay(ctx, "user-1", o.ID())
	require.NoError(t, err)

	payments, err := f.svc.ListPayments(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, payments, 2)

	statuses := []string{payments[0].Status, payments[1].Status}
	assert.ElementsMatch(t, []string{string(payment.StatusSuccessful), string(payment.StatusCancelled)}, statuses)
}
