// Package tui provides the interactive terminal interface for bistro.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/bistro-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Floor manages tables.
	Floor driving.FloorService

	// Orders manages orders.
	Orders driving.OrderService

	// Menu manages menu availability.
	Menu driving.MenuService

	// Stock manages ingredient levels.
	Stock driving.StockService

	// Settings supplies the polling interval. Optional.
	Settings driving.SettingsService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(
	floor driving.FloorService,
	orders driving.OrderService,
	menu driving.MenuService,
	stock driving.StockService,
) *Ports {
	return &Ports{
		Floor:  floor,
		Orders: orders,
		Menu:   menu,
		Stock:  stock,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Floor == nil {
		return ErrMissingFloorService
	}
	if p.Orders == nil {
		return ErrMissingOrderService
	}
	if p.Menu == nil {
		return ErrMissingMenuService
	}
	if p.Stock == nil {
		return ErrMissingStockService
	}
	return nil
}
