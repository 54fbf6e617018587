// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Services validate input and check status transitions before calling the
// backend, so that the user gets a precise error without a round trip. The
// backend remains the authority and may still reject a change that raced
// with another terminal.
package services
