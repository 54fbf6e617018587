package mcp

import (
	"github.com/custodia-labs/bistro-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Floor lists tables.
	Floor driving.FloorService

	// Orders lists orders.
	Orders driving.OrderService

	// Menu lists menu items.
	Menu driving.MenuService

	// Stock lists stock levels.
	Stock driving.StockService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Floor == nil {
		return ErrMissingFloorService
	}
	// Orders, Menu and Stock are optional; their tools report an empty result.
	return nil
}
