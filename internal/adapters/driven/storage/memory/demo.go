package memory

import (
	"fmt"
	"time"

	"github.com/custodia-labs/bistro-cli/internal/core/domain"
)

// NewDemoBackend creates a backend seeded with a small dinner service: ten
// tables, a short menu, a pantry and a few orders in flight.
func NewDemoBackend(opts ...BackendOption) *Backend {
	b := NewBackend(opts...)
	SeedDemo(b)
	return b
}

// SeedDemo fills b with demo data. Existing entries with the same IDs are
// replaced.
func SeedDemo(b *Backend) {
	now := b.now()

	seats := []int{2, 2, 4, 4, 4, 6, 6, 8, 2, 4}
	for i, n := range seats {
		b.PutTable(domain.Table{
			ID:     fmt.Sprintf("t%d", i+1),
			Number: i + 1,
			Seats:  n,
			Status: domain.TableFree,
		})
	}
	b.PutTable(domain.Table{ID: "t3", Number: 3, Seats: 4, Status: domain.TableOccupied,
		Guests: 3, Server: "Ana", OpenedAt: now.Add(-40 * time.Minute)})
	b.PutTable(domain.Table{ID: "t6", Number: 6, Seats: 6, Status: domain.TableOccupied,
		Guests: 5, Server: "Luc", OpenedAt: now.Add(-15 * time.Minute)})
	b.PutTable(domain.Table{ID: "t8", Number: 8, Seats: 8, Status: domain.TableReserved})
	b.PutTable(domain.Table{ID: "t9", Number: 9, Seats: 2, Status: domain.TableCleaning})

	menu := []domain.MenuItem{
		{ID: "m-soup", Name: "French Onion Soup", Category: "Starters", PriceCents: 850, Available: true},
		{ID: "m-tartare", Name: "Beef Tartare", Category: "Starters", PriceCents: 1400, Available: true},
		{ID: "m-salad", Name: "Salade Niçoise", Category: "Starters", PriceCents: 1100, Available: true},
		{ID: "m-steak", Name: "Steak Frites", Category: "Mains", PriceCents: 2600, Available: true},
		{ID: "m-duck", Name: "Duck Confit", Category: "Mains", PriceCents: 2400, Available: true},
		{ID: "m-bourg", Name: "Boeuf Bourguignon", Category: "Mains", PriceCents: 2300, Available: false},
		{ID: "m-sole", Name: "Sole Meunière", Category: "Mains", PriceCents: 2900, Available: true},
		{ID: "m-brulee", Name: "Crème Brûlée", Category: "Desserts", PriceCents: 900, Available: true},
		{ID: "m-tatin", Name: "Tarte Tatin", Category: "Desserts", PriceCents: 950, Available: true},
		{ID: "m-wine", Name: "House Red (glass)", Category: "Drinks", PriceCents: 800, Available: true},
		{ID: "m-water", Name: "Sparkling Water", Category: "Drinks", PriceCents: 400, Available: true},
	}
	for _, m := range menu {
		b.PutMenuItem(m)
	}

	stock := []domain.StockItem{
		{ID: "s-beef", Name: "Beef", Unit: "kg", Quantity: 6.5, ReorderLevel: 3},
		{ID: "s-duck", Name: "Duck legs", Unit: "pcs", Quantity: 4, ReorderLevel: 6},
		{ID: "s-sole", Name: "Sole", Unit: "pcs", Quantity: 9, ReorderLevel: 4},
		{ID: "s-onion", Name: "Onions", Unit: "kg", Quantity: 12, ReorderLevel: 5},
		{ID: "s-potato", Name: "Potatoes", Unit: "kg", Quantity: 2.5, ReorderLevel: 10},
		{ID: "s-cream", Name: "Cream", Unit: "l", Quantity: 3, ReorderLevel: 2},
		{ID: "s-eggs", Name: "Eggs", Unit: "pcs", Quantity: 48, ReorderLevel: 24},
		{ID: "s-wine", Name: "House red", Unit: "bottles", Quantity: 5, ReorderLevel: 6},
	}
	for _, s := range stock {
		s.UpdatedAt = now
		b.PutStockItem(s)
	}

	b.PutOrder(domain.Order{
		ID: "o-1001", TableID: "t3", Status: domain.OrderServed,
		CreatedAt: now.Add(-35 * time.Minute), UpdatedAt: now.Add(-20 * time.Minute),
		Items: []domain.OrderItem{
			{MenuItemID: "m-soup", Name: "French Onion Soup", Quantity: 2, UnitPriceCents: 850},
			{MenuItemID: "m-wine", Name: "House Red (glass)", Quantity: 3, UnitPriceCents: 800},
		},
	})
	b.PutOrder(domain.Order{
		ID: "o-1002", TableID: "t3", Status: domain.OrderPreparing,
		CreatedAt: now.Add(-18 * time.Minute), UpdatedAt: now.Add(-10 * time.Minute),
		Items: []domain.OrderItem{
			{MenuItemID: "m-steak", Name: "Steak Frites", Quantity: 2, UnitPriceCents: 2600, Note: "medium rare"},
			{MenuItemID: "m-duck", Name: "Duck Confit", Quantity: 1, UnitPriceCents: 2400},
		},
	})
	b.PutOrder(domain.Order{
		ID: "o-1003", TableID: "t6", Status: domain.OrderPending,
		CreatedAt: now.Add(-5 * time.Minute), UpdatedAt: now.Add(-5 * time.Minute),
		Items: []domain.OrderItem{
			{MenuItemID: "m-water", Name: "Sparkling Water", Quantity: 2, UnitPriceCents: 400},
			{MenuItemID: "m-tartare", Name: "Beef Tartare", Quantity: 1, UnitPriceCents: 1400},
		},
	})
}
