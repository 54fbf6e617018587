package mcp

import (
	"context"

	"github.com/custodia-labs/bistro-cli/internal/core/domain"
)

// mockFloorService is a mock implementation of driving.FloorService.
type mockFloorService struct {
	tables []domain.Table
	err    error
}

func (m *mockFloorService) Tables(_ context.Context) ([]domain.Table, error) {
	return m.tables, m.err
}

func (m *mockFloorService) Overview(_ context.Context) (*domain.FloorOverview, error) {
	return nil, m.err
}

func (m *mockFloorService) Open(_ context.Context, _ domain.OpenTable) (*domain.Table, error) {
	return nil, m.err
}

func (m *mockFloorService) Reserve(_ context.Context, _ string) (*domain.Table, error) {
	return nil, m.err
}

func (m *mockFloorService) Close(_ context.Context, _ string) (*domain.Table, error) {
	return nil, m.err
}

func (m *mockFloorService) MarkClean(_ context.Context, _ string) (*domain.Table, error) {
	return nil, m.err
}

// mockOrderService is a mock implementation of driving.OrderService.
type mockOrderService struct {
	orders     []domain.Order
	err        error
	lastFilter domain.OrderFilter
}

func (m *mockOrderService) List(_ context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	m.lastFilter = filter
	return m.orders, m.err
}

func (m *mockOrderService) Get(_ context.Context, _ string) (*domain.Order, error) {
	return nil, m.err
}

func (m *mockOrderService) Place(_ context.Context, _ domain.NewOrder) (*domain.Order, error) {
	return nil, m.err
}

func (m *mockOrderService) Advance(_ context.Context, _ string) (*domain.Order, error) {
	return nil, m.err
}

func (m *mockOrderService) Cancel(_ context.Context, _ string) (*domain.Order, error) {
	return nil, m.err
}

// mockMenuService is a mock implementation of driving.MenuService.
type mockMenuService struct {
	items []domain.MenuItem
	err   error
}

func (m *mockMenuService) List(_ context.Context) ([]domain.MenuItem, error) {
	return m.items, m.err
}

func (m *mockMenuService) SetAvailability(_ context.Context, _ string, _ bool) (*domain.MenuItem, error) {
	return nil, m.err
}

// mockStockService is a mock implementation of driving.StockService.
type mockStockService struct {
	low []domain.StockItem
	err error
}

func (m *mockStockService) List(_ context.Context) ([]domain.StockItem, error) {
	return m.low, m.err
}

func (m *mockStockService) Low(_ context.Context) ([]domain.StockItem, error) {
	return m.low, m.err
}

func (m *mockStockService) Adjust(_ context.Context, _ domain.StockAdjustment) (*domain.StockItem, error) {
	return nil, m.err
}
