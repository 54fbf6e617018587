package driving

import (
	"context"

	"github.com/custodia-labs/bistro-cli/internal/core/domain"
)

// OrderService manages orders.
type OrderService interface {
	// List returns orders matching filter, oldest first.
	List(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)

	// Get retrieves an order by ID.
	Get(ctx context.Context, id string) (*domain.Order, error)

	// Place validates and creates an order at an occupied table.
	Place(ctx context.Context, req domain.NewOrder) (*domain.Order, error)

	// Advance moves an order to its next status.
	Advance(ctx context.Context, id string) (*domain.Order, error)

	// Cancel cancels an order the kitchen has not finished.
	Cancel(ctx context.Context, id string) (*domain.Order, error)
}
