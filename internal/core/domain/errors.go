package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict indicates the entity is not in a state that allows the
	// requested change, e.g. closing a table that is already free.
	ErrConflict = errors.New("conflict")

	// Backend Errors.

	// ErrBackendUnavailable indicates the restaurant backend could not be
	// reached or answered with a server error.
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrRateLimited indicates the backend rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrUnauthorized indicates the API token is missing or was rejected.
	ErrUnauthorized = errors.New("unauthorized")
)
