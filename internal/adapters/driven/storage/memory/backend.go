package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/bistro-cli/internal/core/domain"
	"github.com/custodia-labs/bistro-cli/internal/core/ports/driven"
)

// Ensure Backend implements the interface.
var _ driven.RestaurantBackend = (*Backend)(nil)

// Backend is an in-memory implementation of driven.RestaurantBackend. It
// enforces the same status rules as a real point-of-sale system so that the
// demo and the tests exercise realistic conflicts.
type Backend struct {
	mu      sync.RWMutex
	tables  map[string]domain.Table
	orders  map[string]domain.Order
	menu    map[string]domain.MenuItem
	stock   map[string]domain.StockItem
	now     func() time.Time
	latency time.Duration
}

// BackendOption configures a Backend.
type BackendOption func(*Backend)

// WithClock overrides time.Now for timestamps.
func WithClock(now func() time.Time) BackendOption {
	return func(b *Backend) {
		b.now = now
	}
}

// WithLatency delays every call by d, which makes the demo behave like a
// backend across a network.
func WithLatency(d time.Duration) BackendOption {
	return func(b *Backend) {
		b.latency = d
	}
}

// NewBackend creates an empty in-memory backend.
func NewBackend(opts ...BackendOption) *Backend {
	b := &Backend{
		tables: make(map[string]domain.Table),
		orders: make(map[string]domain.Order),
		menu:   make(map[string]domain.MenuItem),
		stock:  make(map[string]domain.StockItem),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// PutTable stores or replaces a table.
func (b *Backend) PutTable(t domain.Table) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tables[t.ID] = t
}

// PutOrder stores or replaces an order.
func (b *Backend) PutOrder(o domain.Order) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.orders[o.ID] = cloneOrder(o)
}

// PutMenuItem stores or replaces a menu item.
func (b *Backend) PutMenuItem(m domain.MenuItem) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.menu[m.ID] = m
}

// PutStockItem stores or replaces a stock item.
func (b *Backend) PutStockItem(s domain.StockItem) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stock[s.ID] = s
}

// Ping always succeeds unless ctx is done.
func (b *Backend) Ping(ctx context.Context) error {
	return b.wait(ctx)
}

// ListTables returns every table sorted by number.
func (b *Backend) ListTables(ctx context.Context) ([]domain.Table, error) {
	if err := b.wait(ctx); err != nil {
		return nil, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()

	result := make([]domain.Table, 0, len(b.tables))
	for _, t := range b.tables {
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Number < result[j].Number })
	return result, nil
}

// GetTable retrieves a table by ID.
func (b *Backend) GetTable(ctx context.Context, id string) (*domain.Table, error) {
	if err := b.wait(ctx); err != nil {
		return nil, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()

	t, ok := b.tables[id]
	if !ok {
		return nil, fmt.Errorf("table %s: %w", id, domain.ErrNotFound)
	}
	return &t, nil
}

// OpenTable seats a party.
func (b *Backend) OpenTable(ctx context.Context, req domain.OpenTable) (*domain.Table, error) {
	if err := b.wait(ctx); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	t, ok := b.tables[req.TableID]
	if !ok {
		return nil, fmt.Errorf("table %s: %w", req.TableID, domain.ErrNotFound)
	}
	if err := req.Validate(t); err != nil {
		return nil, err
	}
	t.Status = domain.TableOccupied
	t.Guests = req.Guests
	t.Server = req.Server
	t.OpenedAt = b.now()
	b.tables[t.ID] = t
	return &t, nil
}

// SetTableStatus moves a table to a new status. Use OpenTable to seat a
// party.
func (b *Backend) SetTableStatus(ctx context.Context, id string, status domain.TableStatus) (*domain.Table, error) {
	if err := b.wait(ctx); err != nil {
		return nil, err
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: table status %q", domain.ErrInvalidInput, status)
	}
	if status == domain.TableOccupied {
		return nil, fmt.Errorf("%w: use open to seat a party", domain.ErrInvalidInput)
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	t, ok := b.tables[id]
	if !ok {
		return nil, fmt.Errorf("table %s: %w", id, domain.ErrNotFound)
	}
	if !t.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: %s cannot go from %s to %s", domain.ErrConflict, t.Label(), t.Status, status)
	}
	t.Status = status
	t.Guests = 0
	t.Server = ""
	t.OpenedAt = time.Time{}
	b.tables[id] = t
	return &t, nil
}

// ListOrders returns orders matching filter, oldest first.
func (b *Backend) ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	if err := b.wait(ctx); err != nil {
		return nil, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()

	result := make([]domain.Order, 0, len(b.orders))
	for _, o := range b.orders {
		if filter.Matches(o) {
			result = append(result, cloneOrder(o))
		}
	}
	sortOrders(result)
	return result, nil
}

// GetOrder retrieves an order by ID.
func (b *Backend) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	if err := b.wait(ctx); err != nil {
		return nil, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()

	o, ok := b.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %s: %w", id, domain.ErrNotFound)
	}
	o = cloneOrder(o)
	return &o, nil
}

// PlaceOrder creates a pending order at an occupied table, pricing each line
// from the menu.
func (b *Backend) PlaceOrder(ctx context.Context, req domain.NewOrder) (*domain.Order, error) {
	if err := b.wait(ctx); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	t, ok := b.tables[req.TableID]
	if !ok {
		return nil, fmt.Errorf("table %s: %w", req.TableID, domain.ErrNotFound)
	}
	if t.Status != domain.TableOccupied {
		return nil, fmt.Errorf("%w: %s is %s", domain.ErrConflict, t.Label(), t.Status)
	}

	items := make([]domain.OrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		m, ok := b.menu[it.MenuItemID]
		if !ok {
			return nil, fmt.Errorf("menu item %s: %w", it.MenuItemID, domain.ErrNotFound)
		}
		if !m.Available {
			return nil, fmt.Errorf("%w: %s is sold out", domain.ErrConflict, m.Name)
		}
		items = append(items, domain.OrderItem{
			MenuItemID:     m.ID,
			Name:           m.Name,
			Quantity:       it.Quantity,
			UnitPriceCents: m.PriceCents,
			Note:           it.Note,
		})
	}

	now := b.now()
	o := domain.Order{
		ID:        uuid.NewString(),
		TableID:   t.ID,
		Items:     items,
		Status:    domain.OrderPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	b.orders[o.ID] = o
	o = cloneOrder(o)
	return &o, nil
}

// SetOrderStatus advances or cancels an order.
func (b *Backend) SetOrderStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	if err := b.wait(ctx); err != nil {
		return nil, err
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: order status %q", domain.ErrInvalidInput, status)
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	o, ok := b.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %s: %w", id, domain.ErrNotFound)
	}
	next, canAdvance := o.Status.Next()
	allowed := (canAdvance && status == next) ||
		(status == domain.OrderCancelled && o.Status.IsCancellable())
	if !allowed {
		return nil, fmt.Errorf("%w: order cannot go from %s to %s", domain.ErrConflict, o.Status, status)
	}
	o.Status = status
	o.UpdatedAt = b.now()
	b.orders[id] = o
	o = cloneOrder(o)
	return &o, nil
}

// ListMenu returns menu items sorted by category then name.
func (b *Backend) ListMenu(ctx context.Context) ([]domain.MenuItem, error) {
	if err := b.wait(ctx); err != nil {
		return nil, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()

	result := make([]domain.MenuItem, 0, len(b.menu))
	for _, m := range b.menu {
		result = append(result, m)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Category != result[j].Category {
			return result[i].Category < result[j].Category
		}
		return result[i].Name < result[j].Name
	})
	return result, nil
}

// SetMenuAvailability marks a menu item as available or sold out.
func (b *Backend) SetMenuAvailability(ctx context.Context, id string, available bool) (*domain.MenuItem, error) {
	if err := b.wait(ctx); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	m, ok := b.menu[id]
	if !ok {
		return nil, fmt.Errorf("menu item %s: %w", id, domain.ErrNotFound)
	}
	m.Available = available
	b.menu[id] = m
	return &m, nil
}

// ListStock returns stock items sorted by name.
func (b *Backend) ListStock(ctx context.Context) ([]domain.StockItem, error) {
	if err := b.wait(ctx); err != nil {
		return nil, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()

	result := make([]domain.StockItem, 0, len(b.stock))
	for _, s := range b.stock {
		result = append(result, s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// AdjustStock applies a quantity change. The quantity never goes negative.
func (b *Backend) AdjustStock(ctx context.Context, adj domain.StockAdjustment) (*domain.StockItem, error) {
	if err := b.wait(ctx); err != nil {
		return nil, err
	}
	if err := adj.Validate(); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	s, ok := b.stock[adj.ItemID]
	if !ok {
		return nil, fmt.Errorf("stock item %s: %w", adj.ItemID, domain.ErrNotFound)
	}
	if s.Quantity+adj.Delta < 0 {
		return nil, fmt.Errorf("%w: only %.2f %s of %s left", domain.ErrConflict, s.Quantity, s.Unit, s.Name)
	}
	s.Quantity += adj.Delta
	s.UpdatedAt = b.now()
	b.stock[s.ID] = s
	return &s, nil
}

func (b *Backend) wait(ctx context.Context) error {
	if b.latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(b.latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func cloneOrder(o domain.Order) domain.Order {
	items := make([]domain.OrderItem, len(o.Items))
	copy(items, o.Items)
	o.Items = items
	return o
}

func sortOrders(orders []domain.Order) {
	sort.Slice(orders, func(i, j int) bool {
		if !orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].CreatedAt.Before(orders[j].CreatedAt)
		}
		return orders[i].ID < orders[j].ID
	})
}
