package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/bistro-cli/internal/core/domain"
	"github.com/custodia-labs/bistro-cli/internal/core/ports/driven"
	"github.com/custodia-labs/bistro-cli/internal/core/ports/driving"
)

// Ensure MenuService implements the interface.
var _ driving.MenuService = (*MenuService)(nil)

// MenuService manages the menu.
type MenuService struct {
	backend driven.RestaurantBackend
}

// NewMenuService creates a new menu service.
func NewMenuService(backend driven.RestaurantBackend) *MenuService {
	return &MenuService{backend: backend}
}

// List returns menu items sorted by category then name.
func (s *MenuService) List(ctx context.Context) ([]domain.MenuItem, error) {
	items, err := s.backend.ListMenu(ctx)
	if err != nil {
		return nil, fmt.Errorf("list menu: %w", err)
	}
	return items, nil
}

// SetAvailability marks an item as available or sold out.
func (s *MenuService) SetAvailability(ctx context.Context, id string, available bool) (*domain.MenuItem, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: menu item is required", domain.ErrInvalidInput)
	}
	return s.backend.SetMenuAvailability(ctx, id, available)
}
