// Package httpapi serves a RestaurantBackend over the REST contract that
// the rest client speaks.
//
// It backs the serve-demo command, which exposes the in-memory demo floor
// so the TUI can be pointed at a real HTTP endpoint, and it is the server
// side of the rest client's tests.
package httpapi
