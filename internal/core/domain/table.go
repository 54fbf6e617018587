package domain

import (
	"fmt"
	"time"
)

// TableStatus is the service state of a table.
type TableStatus string

// Table statuses. A table cycles free → occupied → cleaning → free, and may
// be reserved while free.
const (
	TableFree     TableStatus = "free"
	TableOccupied TableStatus = "occupied"
	TableReserved TableStatus = "reserved"
	TableCleaning TableStatus = "cleaning"
)

// IsValid returns true if the status is recognised.
func (s TableStatus) IsValid() bool {
	switch s {
	case TableFree, TableOccupied, TableReserved, TableCleaning:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether a table in status s may move to next.
func (s TableStatus) CanTransitionTo(next TableStatus) bool {
	switch s {
	case TableFree:
		return next == TableOccupied || next == TableReserved
	case TableReserved:
		return next == TableOccupied || next == TableFree
	case TableOccupied:
		return next == TableCleaning
	case TableCleaning:
		return next == TableFree
	default:
		return false
	}
}

// String returns the string representation.
func (s TableStatus) String() string {
	return string(s)
}

// AllTableStatuses returns every table status in floor display order.
func AllTableStatuses() []TableStatus {
	return []TableStatus{TableFree, TableReserved, TableOccupied, TableCleaning}
}

// Table is a seating position on the floor.
type Table struct {
	// ID is the backend identifier.
	ID string

	// Number is the number printed on the table.
	Number int

	// Seats is the table capacity.
	Seats int

	// Status is the current service state.
	Status TableStatus

	// Guests is the party size while occupied.
	Guests int

	// Server is the name of the assigned server, if any.
	Server string

	// OpenedAt is when the current party was seated. Zero unless occupied.
	OpenedAt time.Time
}

// Label returns the short display name, e.g. "T12".
func (t Table) Label() string {
	return fmt.Sprintf("T%d", t.Number)
}

// SeatedFor returns how long the current party has been seated.
func (t Table) SeatedFor(now time.Time) time.Duration {
	if t.Status != TableOccupied || t.OpenedAt.IsZero() {
		return 0
	}
	return now.Sub(t.OpenedAt)
}

// OpenTable is the input for seating a party.
type OpenTable struct {
	TableID string
	Guests  int
	Server  string
}

// Validate checks the input against the table it targets.
func (o OpenTable) Validate(t Table) error {
	if o.Guests <= 0 {
		return fmt.Errorf("%w: guests must be positive", ErrInvalidInput)
	}
	if t.Seats > 0 && o.Guests > t.Seats {
		return fmt.Errorf("%w: %d guests exceed %d seats at %s", ErrInvalidInput, o.Guests, t.Seats, t.Label())
	}
	if !t.Status.CanTransitionTo(TableOccupied) {
		return fmt.Errorf("%w: %s is %s", ErrConflict, t.Label(), t.Status)
	}
	return nil
}
