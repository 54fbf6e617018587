// Package domain defines the core business entities for Bistro.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Table: A seating position on the floor and its service status
//   - Order: Items ordered at a table and their kitchen progress
//   - MenuItem: A dish or drink that can be ordered
//   - StockItem: An ingredient tracked against a reorder level
//   - FloorOverview: Tables joined with their open orders
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
