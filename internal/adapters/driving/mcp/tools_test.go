package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/bistro-cli/internal/core/domain"
)

func demoTables() []domain.Table {
	return []domain.Table{
		{ID: "t1", Number: 1, Seats: 2, Status: domain.TableFree},
		{ID: "t3", Number: 3, Seats: 4, Status: domain.TableOccupied, Guests: 3, Server: "Ana"},
		{ID: "t8", Number: 8, Seats: 8, Status: domain.TableReserved},
	}
}

func TestServer_handleListTables(t *testing.T) {
	ctx := context.Background()

	t.Run("returns every table", func(t *testing.T) {
		server, err := NewServer(&Ports{Floor: &mockFloorService{tables: demoTables()}})
		require.NoError(t, err)

		_, output, err := server.handleListTables(ctx, nil, ListTablesInput{})

		require.NoError(t, err)
		assert.Equal(t, 3, output.Count)
		assert.Equal(t, "T3", output.Tables[1].Label)
		assert.Equal(t, "Ana", output.Tables[1].Server)
	})

	t.Run("filters by status", func(t *testing.T) {
		server, err := NewServer(&Ports{Floor: &mockFloorService{tables: demoTables()}})
		require.NoError(t, err)

		_, output, err := server.handleListTables(ctx, nil, ListTablesInput{Status: "occupied"})

		require.NoError(t, err)
		require.Equal(t, 1, output.Count)
		assert.Equal(t, "t3", output.Tables[0].ID)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		server, err := NewServer(&Ports{Floor: &mockFloorService{tables: demoTables()}})
		require.NoError(t, err)

		_, _, err = server.handleListTables(ctx, nil, ListTablesInput{Status: "on fire"})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("returns error on backend failure", func(t *testing.T) {
		server, err := NewServer(&Ports{Floor: &mockFloorService{err: errors.New("backend down")}})
		require.NoError(t, err)

		_, _, err = server.handleListTables(ctx, nil, ListTablesInput{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "backend down")
	})
}

func TestServer_handleListOrders(t *testing.T) {
	ctx := context.Background()

	t.Run("formats orders and passes the filter", func(t *testing.T) {
		orders := &mockOrderService{orders: []domain.Order{{
			ID: "o-1", TableID: "t3", Status: domain.OrderPreparing,
			Items: []domain.OrderItem{{Name: "Steak Frites", Quantity: 2, UnitPriceCents: 2600}},
		}}}
		server, err := NewServer(&Ports{Floor: &mockFloorService{}, Orders: orders})
		require.NoError(t, err)

		_, output, err := server.handleListOrders(ctx, nil, ListOrdersInput{TableID: "t3", OpenOnly: true})

		require.NoError(t, err)
		require.Equal(t, 1, output.Count)
		assert.Equal(t, []string{"2x Steak Frites"}, output.Orders[0].Items)
		assert.Equal(t, "52.00", output.Orders[0].Total)
		assert.Equal(t, domain.OrderFilter{TableID: "t3", OpenOnly: true}, orders.lastFilter)
	})

	t.Run("nil order service returns empty list", func(t *testing.T) {
		server, err := NewServer(&Ports{Floor: &mockFloorService{}})
		require.NoError(t, err)

		_, output, err := server.handleListOrders(ctx, nil, ListOrdersInput{})

		require.NoError(t, err)
		assert.Equal(t, 0, output.Count)
		assert.NotNil(t, output.Orders)
	})
}

func TestServer_handleLowStock(t *testing.T) {
	ctx := context.Background()

	t.Run("returns low items", func(t *testing.T) {
		stock := &mockStockService{low: []domain.StockItem{
			{ID: "s-duck", Name: "Duck legs", Unit: "pcs", Quantity: 4, ReorderLevel: 6},
		}}
		server, err := NewServer(&Ports{Floor: &mockFloorService{}, Stock: stock})
		require.NoError(t, err)

		_, output, err := server.handleLowStock(ctx, nil, LowStockInput{})

		require.NoError(t, err)
		require.Equal(t, 1, output.Count)
		assert.Equal(t, "Duck legs", output.Items[0].Name)
	})

	t.Run("returns error on failure", func(t *testing.T) {
		server, err := NewServer(&Ports{
			Floor: &mockFloorService{},
			Stock: &mockStockService{err: errors.New("timeout")},
		})
		require.NoError(t, err)

		_, _, err = server.handleLowStock(ctx, nil, LowStockInput{})

		assert.Error(t, err)
	})
}
