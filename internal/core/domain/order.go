package domain

import (
	"fmt"
	"time"
)

// OrderStatus is the kitchen progress of an order.
type OrderStatus string

// Order statuses. Orders advance pending → preparing → ready → served → paid
// and may be cancelled until they are ready.
const (
	OrderPending   OrderStatus = "pending"
	OrderPreparing OrderStatus = "preparing"
	OrderReady     OrderStatus = "ready"
	OrderServed    OrderStatus = "served"
	OrderPaid      OrderStatus = "paid"
	OrderCancelled OrderStatus = "cancelled"
)

// IsValid returns true if the status is recognised.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderPending, OrderPreparing, OrderReady, OrderServed, OrderPaid, OrderCancelled:
		return true
	default:
		return false
	}
}

// Next returns the status an order advances to. It returns false for
// terminal statuses.
func (s OrderStatus) Next() (OrderStatus, bool) {
	switch s {
	case OrderPending:
		return OrderPreparing, true
	case OrderPreparing:
		return OrderReady, true
	case OrderReady:
		return OrderServed, true
	case OrderServed:
		return OrderPaid, true
	default:
		return s, false
	}
}

// IsOpen returns true until the order is paid or cancelled.
func (s OrderStatus) IsOpen() bool {
	return s != OrderPaid && s != OrderCancelled
}

// IsCancellable returns true while the kitchen has not finished the order.
func (s OrderStatus) IsCancellable() bool {
	return s == OrderPending || s == OrderPreparing
}

// String returns the string representation.
func (s OrderStatus) String() string {
	return string(s)
}

// OrderItem is one line of an order.
type OrderItem struct {
	MenuItemID     string
	Name           string
	Quantity       int
	UnitPriceCents int64
	Note           string
}

// TotalCents returns quantity times unit price.
func (i OrderItem) TotalCents() int64 {
	return int64(i.Quantity) * i.UnitPriceCents
}

// Order is a set of items ordered at a table.
type Order struct {
	ID        string
	TableID   string
	Items     []OrderItem
	Status    OrderStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TotalCents returns the sum of all item totals.
func (o Order) TotalCents() int64 {
	var total int64
	for _, it := range o.Items {
		total += it.TotalCents()
	}
	return total
}

// ItemCount returns the number of portions ordered.
func (o Order) ItemCount() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}

// Age returns how long ago the order was placed.
func (o Order) Age(now time.Time) time.Duration {
	if o.CreatedAt.IsZero() {
		return 0
	}
	return now.Sub(o.CreatedAt)
}

// NewOrder is the input for placing an order.
type NewOrder struct {
	TableID string
	Items   []NewOrderItem
}

// NewOrderItem is one requested line of a NewOrder. Prices are resolved
// from the menu by the backend.
type NewOrderItem struct {
	MenuItemID string
	Quantity   int
	Note       string
}

// Validate checks that the order names a table and has at least one
// positive line.
func (n NewOrder) Validate() error {
	if n.TableID == "" {
		return fmt.Errorf("%w: table is required", ErrInvalidInput)
	}
	if len(n.Items) == 0 {
		return fmt.Errorf("%w: order has no items", ErrInvalidInput)
	}
	for i, it := range n.Items {
		if it.MenuItemID == "" {
			return fmt.Errorf("%w: item %d has no menu item", ErrInvalidInput, i+1)
		}
		if it.Quantity <= 0 {
			return fmt.Errorf("%w: item %d quantity must be positive", ErrInvalidInput, i+1)
		}
	}
	return nil
}

// OrderFilter narrows an order listing. The zero value matches every order.
type OrderFilter struct {
	// TableID limits results to one table.
	TableID string

	// OpenOnly excludes paid and cancelled orders.
	OpenOnly bool
}

// Matches reports whether o passes the filter.
func (f OrderFilter) Matches(o Order) bool {
	if f.TableID != "" && o.TableID != f.TableID {
		return false
	}
	if f.OpenOnly && !o.Status.IsOpen() {
		return false
	}
	return true
}
