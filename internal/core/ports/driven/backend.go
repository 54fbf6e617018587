package driven

import (
	"context"

	"github.com/custodia-labs/bistro-cli/internal/core/domain"
)

// RestaurantBackend is the point-of-sale system of record.
//
// Implementations return domain errors: ErrNotFound for unknown IDs,
// ErrConflict for a status change the entity does not allow, and
// ErrBackendUnavailable, ErrRateLimited or ErrUnauthorized for transport
// failures. Every call may block on the network and honours ctx.
type RestaurantBackend interface {
	// Ping checks that the backend is reachable and the token is accepted.
	Ping(ctx context.Context) error

	// ListTables returns every table on the floor.
	ListTables(ctx context.Context) ([]domain.Table, error)

	// GetTable retrieves a table by ID.
	GetTable(ctx context.Context, id string) (*domain.Table, error)

	// OpenTable seats a party at a free or reserved table.
	OpenTable(ctx context.Context, req domain.OpenTable) (*domain.Table, error)

	// SetTableStatus moves a table to a new status.
	SetTableStatus(ctx context.Context, id string, status domain.TableStatus) (*domain.Table, error)

	// ListOrders returns orders matching filter.
	ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)

	// GetOrder retrieves an order by ID.
	GetOrder(ctx context.Context, id string) (*domain.Order, error)

	// PlaceOrder creates an order. Prices are taken from the menu.
	PlaceOrder(ctx context.Context, req domain.NewOrder) (*domain.Order, error)

	// SetOrderStatus moves an order to a new status.
	SetOrderStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)

	// ListMenu returns every menu item.
	ListMenu(ctx context.Context) ([]domain.MenuItem, error)

	// SetMenuAvailability marks a menu item as available or sold out.
	SetMenuAvailability(ctx context.Context, id string, available bool) (*domain.MenuItem, error)

	// ListStock returns every stock item.
	ListStock(ctx context.Context) ([]domain.StockItem, error)

	// AdjustStock applies a quantity change and returns the updated item.
	AdjustStock(ctx context.Context, adj domain.StockAdjustment) (*domain.StockItem, error)
}
