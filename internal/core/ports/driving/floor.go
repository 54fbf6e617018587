package driving

import (
	"context"

	"github.com/custodia-labs/bistro-cli/internal/core/domain"
)

// FloorService manages tables on the restaurant floor.
type FloorService interface {
	// Tables returns every table sorted by number.
	Tables(ctx context.Context) ([]domain.Table, error)

	// Overview returns the floor with open orders joined onto tables.
	Overview(ctx context.Context) (*domain.FloorOverview, error)

	// Open seats a party.
	Open(ctx context.Context, req domain.OpenTable) (*domain.Table, error)

	// Reserve holds a free table.
	Reserve(ctx context.Context, tableID string) (*domain.Table, error)

	// Close marks an occupied table as needing cleaning. Fails with
	// ErrConflict while the table has unpaid orders.
	Close(ctx context.Context, tableID string) (*domain.Table, error)

	// MarkClean frees a table after cleaning or cancels a reservation.
	MarkClean(ctx context.Context, tableID string) (*domain.Table, error)
}
