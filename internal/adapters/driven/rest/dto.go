package rest

import (
	"time"

	"github.com/custodia-labs/bistro-cli/internal/core/domain"
)

// Error codes carried in ErrorResponse.Code.
const (
	CodeNotFound     = "not_found"
	CodeInvalidInput = "invalid_input"
	CodeConflict     = "conflict"
	CodeUnauthorized = "unauthorized"
	CodeRateLimited  = "rate_limited"
	CodeInternal     = "internal"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// TableDTO is the wire form of a table.
type TableDTO struct {
	ID       string     `json:"id" validate:"required"`
	Number   int        `json:"number" validate:"gte=1"`
	Seats    int        `json:"seats" validate:"gte=1"`
	Status   string     `json:"status" validate:"oneof=free occupied reserved cleaning"`
	Guests   int        `json:"guests" validate:"gte=0"`
	Server   string     `json:"server,omitempty"`
	OpenedAt *time.Time `json:"opened_at,omitempty"`
}

// TableList wraps a list of tables.
type TableList struct {
	Tables []TableDTO `json:"tables" validate:"dive"`
}

// OrderItemDTO is the wire form of an order line.
type OrderItemDTO struct {
	MenuItemID     string `json:"menu_item_id" validate:"required"`
	Name           string `json:"name"`
	Quantity       int    `json:"quantity" validate:"gte=1"`
	UnitPriceCents int64  `json:"unit_price_cents" validate:"gte=0"`
	Note           string `json:"note,omitempty"`
}

// OrderDTO is the wire form of an order.
type OrderDTO struct {
	ID        string         `json:"id" validate:"required"`
	TableID   string         `json:"table_id" validate:"required"`
	Items     []OrderItemDTO `json:"items" validate:"dive"`
	Status    string         `json:"status" validate:"oneof=pending preparing ready served paid cancelled"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// OrderList wraps a list of orders.
type OrderList struct {
	Orders []OrderDTO `json:"orders" validate:"dive"`
}

// MenuItemDTO is the wire form of a menu item.
type MenuItemDTO struct {
	ID         string `json:"id" validate:"required"`
	Name       string `json:"name" validate:"required"`
	Category   string `json:"category"`
	PriceCents int64  `json:"price_cents" validate:"gte=0"`
	Available  bool   `json:"available"`
}

// MenuList wraps the menu.
type MenuList struct {
	Items []MenuItemDTO `json:"items" validate:"dive"`
}

// StockItemDTO is the wire form of a stock item.
type StockItemDTO struct {
	ID           string    `json:"id" validate:"required"`
	Name         string    `json:"name" validate:"required"`
	Unit         string    `json:"unit"`
	Quantity     float64   `json:"quantity" validate:"gte=0"`
	ReorderLevel float64   `json:"reorder_level" validate:"gte=0"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// StockList wraps a list of stock items.
type StockList struct {
	Items []StockItemDTO `json:"items" validate:"dive"`
}

// OpenTableRequest seats a party.
type OpenTableRequest struct {
	Guests int    `json:"guests" validate:"gte=1"`
	Server string `json:"server,omitempty"`
}

// StatusRequest moves a table or order to a new status.
type StatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// NewOrderItemDTO is one requested line of a new order.
type NewOrderItemDTO struct {
	MenuItemID string `json:"menu_item_id" validate:"required"`
	Quantity   int    `json:"quantity" validate:"gte=1"`
	Note       string `json:"note,omitempty"`
}

// PlaceOrderRequest creates an order.
type PlaceOrderRequest struct {
	TableID string            `json:"table_id" validate:"required"`
	Items   []NewOrderItemDTO `json:"items" validate:"required,min=1,dive"`
}

// AvailabilityRequest marks a menu item available or sold out.
type AvailabilityRequest struct {
	Available *bool `json:"available" validate:"required"`
}

// AdjustStockRequest changes a stock quantity.
type AdjustStockRequest struct {
	Delta  float64 `json:"delta" validate:"required"`
	Reason string  `json:"reason,omitempty"`
}

// FromTable converts a domain table.
func FromTable(t domain.Table) TableDTO {
	d := TableDTO{
		ID:     t.ID,
		Number: t.Number,
		Seats:  t.Seats,
		Status: string(t.Status),
		Guests: t.Guests,
		Server: t.Server,
	}
	if !t.OpenedAt.IsZero() {
		opened := t.OpenedAt
		d.OpenedAt = &opened
	}
	return d
}

// Domain converts the DTO to a domain table.
func (d TableDTO) Domain() domain.Table {
	t := domain.Table{
		ID:     d.ID,
		Number: d.Number,
		Seats:  d.Seats,
		Status: domain.TableStatus(d.Status),
		Guests: d.Guests,
		Server: d.Server,
	}
	if d.OpenedAt != nil {
		t.OpenedAt = *d.OpenedAt
	}
	return t
}

// FromOrder converts a domain order.
func FromOrder(o domain.Order) OrderDTO {
	items := make([]OrderItemDTO, len(o.Items))
	for i, it := range o.Items {
		items[i] = OrderItemDTO{
			MenuItemID:     it.MenuItemID,
			Name:           it.Name,
			Quantity:       it.Quantity,
			UnitPriceCents: it.UnitPriceCents,
			Note:           it.Note,
		}
	}
	return OrderDTO{
		ID:        o.ID,
		TableID:   o.TableID,
		Items:     items,
		Status:    string(o.Status),
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

// Domain converts the DTO to a domain order.
func (d OrderDTO) Domain() domain.Order {
	items := make([]domain.OrderItem, len(d.Items))
	for i, it := range d.Items {
		items[i] = domain.OrderItem{
			MenuItemID:     it.MenuItemID,
			Name:           it.Name,
			Quantity:       it.Quantity,
			UnitPriceCents: it.UnitPriceCents,
			Note:           it.Note,
		}
	}
	return domain.Order{
		ID:        d.ID,
		TableID:   d.TableID,
		Items:     items,
		Status:    domain.OrderStatus(d.Status),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// FromMenuItem converts a domain menu item.
func FromMenuItem(m domain.MenuItem) MenuItemDTO {
	return MenuItemDTO{
		ID:         m.ID,
		Name:       m.Name,
		Category:   m.Category,
		PriceCents: m.PriceCents,
		Available:  m.Available,
	}
}

// Domain converts the DTO to a domain menu item.
func (d MenuItemDTO) Domain() domain.MenuItem {
	return domain.MenuItem{
		ID:         d.ID,
		Name:       d.Name,
		Category:   d.Category,
		PriceCents: d.PriceCents,
		Available:  d.Available,
	}
}

// FromStockItem converts a domain stock item.
func FromStockItem(s domain.StockItem) StockItemDTO {
	return StockItemDTO{
		ID:           s.ID,
		Name:         s.Name,
		Unit:         s.Unit,
		Quantity:     s.Quantity,
		ReorderLevel: s.ReorderLevel,
		UpdatedAt:    s.UpdatedAt,
	}
}

// Domain converts the DTO to a domain stock item.
func (d StockItemDTO) Domain() domain.StockItem {
	return domain.StockItem{
		ID:           d.ID,
		Name:         d.Name,
		Unit:         d.Unit,
		Quantity:     d.Quantity,
		ReorderLevel: d.ReorderLevel,
		UpdatedAt:    d.UpdatedAt,
	}
}

// FromNewOrder converts a domain order request.
func FromNewOrder(req domain.NewOrder) PlaceOrderRequest {
	items := make([]NewOrderItemDTO, len(req.Items))
	for i, it := range req.Items {
		items[i] = NewOrderItemDTO{MenuItemID: it.MenuItemID, Quantity: it.Quantity, Note: it.Note}
	}
	return PlaceOrderRequest{TableID: req.TableID, Items: items}
}

// Domain converts the request to a domain order request.
func (r PlaceOrderRequest) Domain() domain.NewOrder {
	items := make([]domain.NewOrderItem, len(r.Items))
	for i, it := range r.Items {
		items[i] = domain.NewOrderItem{MenuItemID: it.MenuItemID, Quantity: it.Quantity, Note: it.Note}
	}
	return domain.NewOrder{TableID: r.TableID, Items: items}
}
