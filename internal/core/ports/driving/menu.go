package driving

import (
	"context"

	"github.com/custodia-labs/bistro-cli/internal/core/domain"
)

// MenuService manages the menu.
type MenuService interface {
	// List returns menu items sorted by category then name.
	List(ctx context.Context) ([]domain.MenuItem, error)

	// SetAvailability marks an item as available or sold out.
	SetAvailability(ctx context.Context, id string, available bool) (*domain.MenuItem, error)
}
