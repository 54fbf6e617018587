// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Interfaces
//
//   - RestaurantBackend: The point-of-sale system that owns tables, orders,
//     menu and stock. Implemented by the REST client and by the in-memory
//     demo backend.
//   - ConfigStore: Application configuration (TOML file).
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
