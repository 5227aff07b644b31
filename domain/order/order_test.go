package order

import (
	"testing"

	"movieshop/domain/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(movieID string, cents int64) Line {
	return Line{MovieID: movieID, Price: *shared.NewMoney(cents, "USD")}
}

func TestNewOrderSnapshotsTotal(t *testing.T) {
	o, err := NewOrder("user-1", []Line{line("movie-1", 999), line("movie-2", 1450)})
	require.NoError(t, err)

	assert.Equal(t, StatusPending, o.Status())
	assert.Equal(t, int64(2449), o.TotalAmount().Amount())
	assert.Len(t, o.Items(), 2)

	// Total always equals the sum of the item snapshots.
	var sum int64
	for _, item := range o.Items() {
		sum += item.PriceAtOrder().Amount()
	}
	assert.Equal(t, o.TotalAmount().Amount(), sum)

	events := o.PullEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "order.placed", events[0].EventName())
	assert.Empty(t, o.PullEvents(), "events drain on pull")
}

func TestNewOrderRejectsEmptyLines(t *testing.T) {
	_, err := NewOrder("user-1", nil)
	assert.ErrorIs(t, err, ErrEmptyOrder)

	_, err = NewOrder("", []Line{line("movie-1", 999)})
	assert.ErrorIs(t, err, ErrInvalidOrder)
}

func TestCancelOnlyFromPending(t *testing.T) {
	o, err := NewOrder("user-1", []Line{line("movie-1", 999)})
	require.NoError(t, err)
	o.PullEvents()

	require.NoError(t, o.Cancel())
	assert.Equal(t, StatusCanceled, o.Status())

	// CANCELED is terminal.
	assert.ErrorIs(t, o.Cancel(), ErrNotCancelable)
	assert.Equal(t, StatusCanceled, o.Status())

	paid := RebuildFromDTO(ReconstructionDTO{
		ID:          "order-1",
		UserID:      "user-1",
		Status:      StatusPaid,
		TotalAmount: *shared.NewMoney(999, "USD"),
	})
	assert.ErrorIs(t, paid.Cancel(), ErrNotCancelable)
	assert.Equal(t, StatusPaid, paid.Status())
}

func TestRebuildRecordsNoEvents(t *testing.T) {
	o := RebuildFromDTO(ReconstructionDTO{
		ID:          "order-1",
		UserID:      "user-1",
		Status:      StatusPending,
		TotalAmount: *shared.NewMoney(999, "USD"),
		Items: []Item{RebuildItemFromDTO(ItemReconstructionDTO{
			ID:           "item-1",
			MovieID:      "movie-1",
			PriceAtOrder: *shared.NewMoney(999, "USD"),
		})},
	})

	assert.Empty(t, o.PullEvents())
	assert.True(t, o.IsPayable())
}
