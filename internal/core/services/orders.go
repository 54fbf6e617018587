package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/bistro-cli/internal/core/domain"
	"github.com/custodia-labs/bistro-cli/internal/core/ports/driven"
	"github.com/custodia-labs/bistro-cli/internal/core/ports/driving"
)

// Ensure OrderService implements the interface.
var _ driving.OrderService = (*OrderService)(nil)

// OrderService manages orders and their kitchen progress.
type OrderService struct {
	backend driven.RestaurantBackend
}

// NewOrderService creates a new order service.
func NewOrderService(backend driven.RestaurantBackend) *OrderService {
	return &OrderService{backend: backend}
}

// List returns orders matching filter, oldest first.
func (s *OrderService) List(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	orders, err := s.backend.ListOrders(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// Get retrieves an order by ID.
func (s *OrderService) Get(ctx context.Context, id string) (*domain.Order, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: order is required", domain.ErrInvalidInput)
	}
	return s.backend.GetOrder(ctx, id)
}

// Place validates and creates an order. The table must be occupied and
// every dish available.
func (s *OrderService) Place(ctx context.Context, req domain.NewOrder) (*domain.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	t, err := s.backend.GetTable(ctx, req.TableID)
	if err != nil {
		return nil, err
	}
	if t.Status != domain.TableOccupied {
		return nil, fmt.Errorf("%w: %s is %s", domain.ErrConflict, t.Label(), t.Status)
	}

	menu, err := s.backend.ListMenu(ctx)
	if err != nil {
		return nil, fmt.Errorf("list menu: %w", err)
	}
	byID := make(map[string]domain.MenuItem, len(menu))
	for _, m := range menu {
		byID[m.ID] = m
	}
	for _, it := range req.Items {
		m, ok := byID[it.MenuItemID]
		if !ok {
			return nil, fmt.Errorf("menu item %s: %w", it.MenuItemID, domain.ErrNotFound)
		}
		if !m.Available {
			return nil, fmt.Errorf("%w: %s is sold out", domain.ErrConflict, m.Name)
		}
	}

	return s.backend.PlaceOrder(ctx, req)
}

// Advance moves an order to its next status.
func (s *OrderService) Advance(ctx context.Context, id string) (*domain.Order, error) {
	o, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	next, ok := o.Status.Next()
	if !ok {
		return nil, fmt.Errorf("%w: order is %s", domain.ErrConflict, o.Status)
	}
	return s.backend.SetOrderStatus(ctx, id, next)
}

// Cancel cancels an order the kitchen has not finished.
func (s *OrderService) Cancel(ctx context.Context, id string) (*domain.Order, error) {
	o, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !o.Status.IsCancellable() {
		return nil, fmt.Errorf("%w: order is %s", domain.ErrConflict, o.Status)
	}
	return s.backend.SetOrderStatus(ctx, id, domain.OrderCancelled)
}
