package driving

import (
	"context"

	"github.com/custodia-labs/bistro-cli/internal/core/domain"
)

// StockService manages ingredient stock.
type StockService interface {
	// List returns stock items sorted by name.
	List(ctx context.Context) ([]domain.StockItem, error)

	// Low returns items at or below their reorder level.
	Low(ctx context.Context) ([]domain.StockItem, error)

	// Adjust applies a quantity change.
	Adjust(ctx context.Context, adj domain.StockAdjustment) (*domain.StockItem, error)
}
