package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/bistro-cli/internal/core/domain"
	"github.com/custodia-labs/bistro-cli/internal/core/ports/driven"
	"github.com/custodia-labs/bistro-cli/internal/core/ports/driving"
)

// Ensure StockService implements the interface.
var _ driving.StockService = (*StockService)(nil)

// StockService manages ingredient stock.
type StockService struct {
	backend driven.RestaurantBackend
}

// NewStockService creates a new stock service.
func NewStockService(backend driven.RestaurantBackend) *StockService {
	return &StockService{backend: backend}
}

// List returns stock items sorted by name.
func (s *StockService) List(ctx context.Context) ([]domain.StockItem, error) {
	items, err := s.backend.ListStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	return items, nil
}

// Low returns items at or below their reorder level.
func (s *StockService) Low(ctx context.Context) ([]domain.StockItem, error) {
	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	low := make([]domain.StockItem, 0, len(items))
	for _, it := range items {
		if it.IsLow() {
			low = append(low, it)
		}
	}
	return low, nil
}

// Adjust applies a quantity change.
func (s *StockService) Adjust(ctx context.Context, adj domain.StockAdjustment) (*domain.StockItem, error) {
	if err := adj.Validate(); err != nil {
		return nil, err
	}
	return s.backend.AdjustStock(ctx, adj)
}
