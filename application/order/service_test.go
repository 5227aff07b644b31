package order

import (
	"context"
	"sync"
	"testing"

	"movieshop/domain/catalog"
	"movieshop/domain/order"
	"movieshop/domain/purchase"
	"movieshop/domain/shared"
	"movieshop/infrastructure/persistence/mocks"
	"movieshop/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc        *ApplicationService
	orderRepo  *mocks.MockOrderRepository
	cartRepo   *mocks.MockCartRepository
	ledger     *mocks.MockPurchaseLedger
	uowFactory *mocks.MockUnitOfWorkFactory
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	orderRepo := mocks.NewMockOrderRepository()
	cartRepo := mocks.NewMockCartRepository()
	movies := mocks.NewMockMovieCatalog()
	movies.AddMovie(&catalog.Movie{ID: "movie-1", Title: "Heat", Price: *shared.NewMoney(999, "USD")})
	movies.AddMovie(&catalog.Movie{ID: "movie-2", Title: "Ronin", Price: *shared.NewMoney(1450, "USD")})
	ledger := mocks.NewMockPurchaseLedger()
	uowFactory := mocks.NewMockUnitOfWorkFactory()

	return &fixture{
		svc:        NewApplicationService(orderRepo, cartRepo, movies, ledger, uowFactory),
		orderRepo:  orderRepo,
		cartRepo:   cartRepo,
		ledger:     ledger,
		uowFactory: uowFactory,
	}
}

func (f *fixture) fillCart(t *testing.T, userID string, movieIDs ...string) {
	t.Helper()
	ctx := context.Background()
	c, err := f.cartRepo.CreateIfAbsent(ctx, userID)
	require.NoError(t, err)
	for _, movieID := range movieIDs {
		_, err := f.cartRepo.AddItem(ctx, c.ID, movieID)
		require.NoError(t, err)
	}
}

func TestCheckoutCreatesPendingOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fillCart(t, "user-1", "movie-1", "movie-2")

	resp, err := f.svc.Checkout(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, string(order.StatusPending), resp.Status)
	assert.Equal(t, int64(2449), resp.TotalAmount.Amount)
	assert.Len(t, resp.Items, 2)

	// The placed event reached the outbox path.
	events := f.uowFactory.Sink.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "order.placed", events[0].EventName())

	// The cart is working state and survives checkout untouched.
	c, err := f.cartRepo.FindByUserID(ctx, "user-1")
	require.NoError(t, err)
	items, err := f.cartRepo.ListItems(ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestCheckoutEmptyCart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.cartRepo.CreateIfAbsent(ctx, "user-1")
	require.NoError(t, err)

	_, err = f.svc.Checkout(ctx, "user-1")
	assert.True(t, errors.Is(err, errors.CodeCartEmpty))
}

func TestCheckoutWithoutCart(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Checkout(context.Background(), "user-1")
	assert.True(t, errors.Is(err, errors.CodeCartNotFound))
}

func TestCheckoutAbortsWhollyOnOwnedMovie(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fillCart(t, "user-1", "movie-1", "movie-2")
	require.NoError(t, f.ledger.Append(ctx, []purchase.Record{{UserID: "user-1", MovieID: "movie-2"}}))

	_, err := f.svc.Checkout(ctx, "user-1")
	assert.True(t, errors.Is(err, errors.CodeAlreadyPurchased))

	// No partial order exists for any of the cart's movies.
	orders, err := f.orderRepo.FindByUserID(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestCancelPendingOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fillCart(t, "user-1", "movie-1")

	resp, err := f.svc.Checkout(ctx, "user-1")
	require.NoError(t, err)

	require.NoError(t, f.svc.Cancel(ctx, "user-1", resp.ID))

	got, err := f.svc.GetOrder(ctx, "user-1", resp.ID)
	require.NoError(t, err)
	assert.Equal(t, string(order.StatusCanceled), got.Status)
}

func TestCancelIsOwnerScoped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fillCart(t, "user-1", "movie-1")

	resp, err := f.svc.Checkout(ctx, "user-1")
	require.NoError(t, err)

	err = f.svc.Cancel(ctx, "user-2", resp.ID)
	assert.True(t, errors.Is(err, errors.CodeOrderNotFound))
}

func TestCancelCanceledOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fillCart(t, "user-1", "movie-1")

	resp, err := f.svc.Checkout(ctx, "user-1")
	require.NoError(t, err)
	require.NoError(t, f.svc.Cancel(ctx, "user-1", resp.ID))

	err = f.svc.Cancel(ctx, "user-1", resp.ID)
	assert.True(t, errors.Is(err, errors.CodeOrderNotCancelable))
}

func TestConcurrentCancelsAdmitOneWinner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fillCart(t, "user-1", "movie-1")

	resp, err := f.svc.Checkout(ctx, "user-1")
	require.NoError(t, err)

	const attempts = 10
	results := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = f.svc.Cancel(ctx, "user-1", resp.ID)
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range results {
		if err == nil {
			winners++
		} else {
			assert.True(t, errors.Is(err, errors.CodeOrderNotCancelable))
		}
	}
	assert.Equal(t, 1, winners)
}

func TestListAllValidatesSortField(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ListAll(context.Background(), ListRequest{SortBy: "password"})
	assert.True(t, errors.Is(err, errors.CodeValidation))
}

func TestListAllValidatesStatus(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ListAll(context.Background(), ListRequest{Status: "SHIPPED"})
	assert.True(t, errors.Is(err, errors.CodeValidation))
}

func TestListAllFiltersAndPaginates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, user := range []string{"user-1", "user-2", "user-3"} {
		f.fillCart(t, user, "movie-1")
		_, err := f.svc.Checkout(ctx, user)
		require.NoError(t, err)
	}

	resp, err := f.svc.ListAll(ctx, ListRequest{Status: "PENDING", SortBy: "created_at", Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), resp.Total)
	assert.Len(t, resp.Orders, 2)
}

func TestListForUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fillCart(t, "user-1", "movie-1")
	_, err := f.svc.Checkout(ctx, "user-1")
	require.NoError(t, err)

	orders, err := f.svc.ListForUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, orders, 1)

	others, err := f.svc.ListForUser(ctx, "user-2")
	require.NoError(t, err)
	assert.Empty(t, others)
}
