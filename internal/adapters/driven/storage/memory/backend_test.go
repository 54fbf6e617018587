package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/bistro-cli/internal/core/domain"
)

var testNow = time.Date(2024, 1, 1, 20, 0, 0, 0, time.UTC)

func newTestBackend() *Backend {
	return NewDemoBackend(WithClock(func() time.Time { return testNow }))
}

func TestNewDemoBackend_Seeded(t *testing.T) {
	b := newTestBackend()
	ctx := context.Background()

	tables, err := b.ListTables(ctx)
	require.NoError(t, err)
	require.Len(t, tables, 10)
	for i, tbl := range tables {
		assert.Equal(t, i+1, tbl.Number, "sorted by number")
	}

	menu, err := b.ListMenu(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Desserts", menu[0].Category)

	stock, err := b.ListStock(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, stock)

	orders, err := b.ListOrders(ctx, domain.OrderFilter{OpenOnly: true})
	require.NoError(t, err)
	assert.Len(t, orders, 3)
	assert.Equal(t, "o-1001", orders[0].ID, "oldest first")
}

func TestBackend_GetTable_NotFound(t *testing.T) {
	b := newTestBackend()

	_, err := b.GetTable(context.Background(), "t99")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBackend_TableLifecycle(t *testing.T) {
	b := newTestBackend()
	ctx := context.Background()

	tbl, err := b.OpenTable(ctx, domain.OpenTable{TableID: "t1", Guests: 2, Server: "Ana"})
	require.NoError(t, err)
	assert.Equal(t, domain.TableOccupied, tbl.Status)
	assert.Equal(t, 2, tbl.Guests)
	assert.Equal(t, testNow, tbl.OpenedAt)

	_, err = b.OpenTable(ctx, domain.OpenTable{TableID: "t1", Guests: 2})
	assert.ErrorIs(t, err, domain.ErrConflict)

	tbl, err = b.SetTableStatus(ctx, "t1", domain.TableCleaning)
	require.NoError(t, err)
	assert.Zero(t, tbl.Guests)
	assert.True(t, tbl.OpenedAt.IsZero())

	_, err = b.SetTableStatus(ctx, "t1", domain.TableReserved)
	assert.ErrorIs(t, err, domain.ErrConflict)

	tbl, err = b.SetTableStatus(ctx, "t1", domain.TableFree)
	require.NoError(t, err)
	assert.Equal(t, domain.TableFree, tbl.Status)
}

func TestBackend_SetTableStatus_Invalid(t *testing.T) {
	b := newTestBackend()
	ctx := context.Background()

	_, err := b.SetTableStatus(ctx, "t1", domain.TableOccupied)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = b.SetTableStatus(ctx, "t1", "dirty")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = b.SetTableStatus(ctx, "t99", domain.TableFree)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBackend_PlaceOrder(t *testing.T) {
	b := newTestBackend()
	ctx := context.Background()

	order, err := b.PlaceOrder(ctx, domain.NewOrder{
		TableID: "t6",
		Items:   []domain.NewOrderItem{{MenuItemID: "m-steak", Quantity: 2, Note: "rare"}},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, order.ID)
	assert.Equal(t, domain.OrderPending, order.Status)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Steak Frites", order.Items[0].Name)
	assert.Equal(t, int64(5200), order.TotalCents())

	got, err := b.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)
}

func TestBackend_PlaceOrder_Errors(t *testing.T) {
	b := newTestBackend()
	ctx := context.Background()
	item := []domain.NewOrderItem{{MenuItemID: "m-soup", Quantity: 1}}

	tests := []struct {
		name    string
		req     domain.NewOrder
		wantErr error
	}{
		{"free table", domain.NewOrder{TableID: "t1", Items: item}, domain.ErrConflict},
		{"unknown table", domain.NewOrder{TableID: "t99", Items: item}, domain.ErrNotFound},
		{"sold out", domain.NewOrder{TableID: "t3",
			Items: []domain.NewOrderItem{{MenuItemID: "m-bourg", Quantity: 1}}}, domain.ErrConflict},
		{"unknown dish", domain.NewOrder{TableID: "t3",
			Items: []domain.NewOrderItem{{MenuItemID: "m-pizza", Quantity: 1}}}, domain.ErrNotFound},
		{"empty", domain.NewOrder{TableID: "t3"}, domain.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.PlaceOrder(ctx, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestBackend_SetOrderStatus(t *testing.T) {
	b := newTestBackend()
	ctx := context.Background()

	o, err := b.SetOrderStatus(ctx, "o-1003", domain.OrderPreparing)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderPreparing, o.Status)

	_, err = b.SetOrderStatus(ctx, "o-1003", domain.OrderPaid)
	assert.ErrorIs(t, err, domain.ErrConflict, "cannot skip steps")

	o, err = b.SetOrderStatus(ctx, "o-1003", domain.OrderCancelled)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderCancelled, o.Status)

	_, err = b.SetOrderStatus(ctx, "o-1001", domain.OrderCancelled)
	assert.ErrorIs(t, err, domain.ErrConflict, "served orders cannot be cancelled")

	_, err = b.SetOrderStatus(ctx, "o-404", domain.OrderReady)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBackend_ReturnedOrdersAreCopies(t *testing.T) {
	b := newTestBackend()
	ctx := context.Background()

	o, err := b.GetOrder(ctx, "o-1002")
	require.NoError(t, err)
	o.Items[0].Quantity = 99

	again, err := b.GetOrder(ctx, "o-1002")
	require.NoError(t, err)
	assert.Equal(t, 2, again.Items[0].Quantity)
}

func TestBackend_MenuAvailability(t *testing.T) {
	b := newTestBackend()
	ctx := context.Background()

	m, err := b.SetMenuAvailability(ctx, "m-bourg", true)
	require.NoError(t, err)
	assert.True(t, m.Available)

	_, err = b.SetMenuAvailability(ctx, "m-pizza", true)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBackend_AdjustStock(t *testing.T) {
	b := newTestBackend()
	ctx := context.Background()

	s, err := b.AdjustStock(ctx, domain.StockAdjustment{ItemID: "s-potato", Delta: 20, Reason: "delivery"})
	require.NoError(t, err)
	assert.InDelta(t, 22.5, s.Quantity, 0.001)
	assert.False(t, s.IsLow())

	_, err = b.AdjustStock(ctx, domain.StockAdjustment{ItemID: "s-cream", Delta: -10})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = b.AdjustStock(ctx, domain.StockAdjustment{ItemID: "s-caviar", Delta: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = b.AdjustStock(ctx, domain.StockAdjustment{ItemID: "s-cream"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBackend_LatencyHonoursContext(t *testing.T) {
	b := NewBackend(WithLatency(time.Hour))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := b.ListTables(ctx)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestBackend_ConcurrentAccess(t *testing.T) {
	b := newTestBackend()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = b.AdjustStock(ctx, domain.StockAdjustment{ItemID: "s-eggs", Delta: 1})
		}()
		go func() {
			defer wg.Done()
			_, _ = b.ListStock(ctx)
		}()
	}
	wg.Wait()

	stock, err := b.ListStock(ctx)
	require.NoError(t, err)
	for _, s := range stock {
		if s.ID == "s-eggs" {
			assert.InDelta(t, 68, s.Quantity, 0.001)
		}
	}
}
