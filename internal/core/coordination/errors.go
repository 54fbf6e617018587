package coordination

import (
	"errors"
	"fmt"
)

var (
	// ErrBusy is returned synchronously when an operation key is already held.
	// Callers such as a refresh key binding should treat it as "nothing to do".
	ErrBusy = errors.New("operation already in progress")

	// ErrInactive is returned by Controller.Refresh when the view is not shown.
	ErrInactive = errors.New("view is not active")

	// errStale marks a completion whose generation was invalidated while the
	// fetch was in flight. It never reaches callers.
	errStale = errors.New("stale result")
)

// PanicError carries a panic recovered from a guarded operation.
type PanicError struct {
	Key   string
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("operation %q panicked: %v", e.Key, e.Value)
}
