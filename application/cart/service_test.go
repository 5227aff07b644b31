package cart

import (
	"context"
	"testing"

	"movieshop/domain/cart"
	"movieshop/domain/catalog"
	"movieshop/domain/purchase"
	"movieshop/domain/shared"
	"movieshop/infrastructure/persistence/mocks"
	"movieshop/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*ApplicationService, *mocks.MockCartRepository, *mocks.MockPurchaseLedger, *mocks.MockUnitOfWorkFactory) {
	t.Helper()

	cartRepo := mocks.NewMockCartRepository()
	movies := mocks.NewMockMovieCatalog()
	movies.AddMovie(&catalog.Movie{ID: "movie-1", Title: "Heat", Price: *shared.NewMoney(999, "USD")})
	movies.AddMovie(&catalog.Movie{ID: "movie-2", Title: "Ronin", Price: *shared.NewMoney(1450, "USD")})
	ledger := mocks.NewMockPurchaseLedger()
	uowFactory := mocks.NewMockUnitOfWorkFactory()

	svc := NewApplicationService(cartRepo, movies, ledger, uowFactory, nil, "USD")
	return svc, cartRepo, ledger, uowFactory
}

func TestAddItemCreatesCartLazily(t *testing.T) {
	svc, cartRepo, _, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.AddItem(ctx, "user-1", "movie-1"))

	c, err := cartRepo.FindByUserID(ctx, "user-1")
	require.NoError(t, err)
	items, err := cartRepo.ListItems(ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, "movie-1", items[0].MovieID)
}

func TestAddItemUnknownMovie(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	err := svc.AddItem(context.Background(), "user-1", "movie-missing")
	assert.True(t, errors.Is(err, errors.CodeMovieNotFound))
}

func TestAddItemAlreadyPurchasedLeavesCartUntouched(t *testing.T) {
	svc, cartRepo, ledger, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, ledger.Append(ctx, []purchase.Record{{UserID: "user-1", MovieID: "movie-1"}}))

	err := svc.AddItem(ctx, "user-1", "movie-1")
	assert.True(t, errors.Is(err, errors.CodeAlreadyPurchased))

	// The rejection happened before the cart was even created.
	_, err = cartRepo.FindByUserID(ctx, "user-1")
	assert.ErrorIs(t, err, cart.ErrCartNotFound)
}

func TestAddItemDuplicate(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.AddItem(ctx, "user-1", "movie-1"))
	err := svc.AddItem(ctx, "user-1", "movie-1")
	assert.True(t, errors.Is(err, errors.CodeCartItemExists))
}

func TestRemoveItemEmitsModerationEvent(t *testing.T) {
	svc, _, _, uowFactory := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.AddItem(ctx, "user-1", "movie-1"))
	require.NoError(t, svc.RemoveItem(ctx, "user-1", "movie-1"))

	events := uowFactory.Sink.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "cart.item_removed", events[0].EventName())
	assert.Equal(t, "Heat", events[0].Payload()["movie_title"])

	view, err := svc.View(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, view.Items)
}

func TestRemoveItemNotInCart(t *testing.T) {
	svc, _, _, uowFactory := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.AddItem(ctx, "user-1", "movie-1"))
	err := svc.RemoveItem(ctx, "user-1", "movie-2")
	assert.True(t, errors.Is(err, errors.CodeNotFound))
	assert.Empty(t, uowFactory.Sink.Events(), "failed removal emits nothing")
}

func TestRemoveItemWithoutCart(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	err := svc.RemoveItem(context.Background(), "user-1", "movie-1")
	assert.True(t, errors.Is(err, errors.CodeCartNotFound))
}

func TestClearEmptyCartIsConflict(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.AddItem(ctx, "user-1", "movie-1"))
	require.NoError(t, svc.RemoveItem(ctx, "user-1", "movie-1"))

	err := svc.Clear(ctx, "user-1")
	assert.True(t, errors.Is(err, errors.CodeCartEmpty))
}

func TestClearRemovesAllItems(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.AddItem(ctx, "user-1", "movie-1"))
	require.NoError(t, svc.AddItem(ctx, "user-1", "movie-2"))
	require.NoError(t, svc.Clear(ctx, "user-1"))

	view, err := svc.View(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, view.Items)
}

func TestViewResolvesTitlesAndTotal(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.AddItem(ctx, "user-1", "movie-1"))
	require.NoError(t, svc.AddItem(ctx, "user-1", "movie-2"))

	view, err := svc.View(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, view.Items, 2)
	assert.Equal(t, int64(2449), view.Total.Amount)
	assert.Equal(t, "USD", view.Total.Currency)

	titles := []string{view.Items[0].Title, view.Items[1].Title}
	assert.ElementsMatch(t, []string{"Heat", "Ronin"}, titles)
}

func TestViewAllMoviesWithdrawnKeepsCurrency(t *testing.T) {
	svc, cartRepo, _, _ := newTestService(t)
	ctx := context.Background()

	// The carted movie is gone from the catalog entirely.
	c, err := cartRepo.CreateIfAbsent(ctx, "user-1")
	require.NoError(t, err)
	_, err = cartRepo.AddItem(ctx, c.ID, "movie-withdrawn")
	require.NoError(t, err)

	view, err := svc.View(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.Equal(t, int64(0), view.Total.Amount)
	assert.Equal(t, "USD", view.Total.Currency)
}

func TestViewWithoutCart(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.View(context.Background(), "user-1")
	assert.True(t, errors.Is(err, errors.CodeCartNotFound))
}
