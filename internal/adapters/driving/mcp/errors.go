// Package mcp provides an MCP (Model Context Protocol) server adapter for Bistro.
// It lets AI assistants read the floor, open orders, the menu and low stock.
package mcp

import "errors"

// ErrMissingFloorService is returned when the floor service is not provided.
var ErrMissingFloorService = errors.New("mcp: floor service is required")
