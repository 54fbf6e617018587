package domain

import (
	"fmt"
	"math"
	"time"
)

// StockItem is an ingredient tracked against a reorder level.
type StockItem struct {
	ID           string
	Name         string
	Unit         string
	Quantity     float64
	ReorderLevel float64
	UpdatedAt    time.Time
}

// IsLow returns true when the quantity is at or below the reorder level.
func (s StockItem) IsLow() bool {
	return s.Quantity <= s.ReorderLevel
}

// StockAdjustment changes the quantity of a stock item by Delta.
type StockAdjustment struct {
	ItemID string
	Delta  float64
	Reason string
}

// Validate checks the adjustment. A zero delta is rejected because it would
// be a no-op write.
func (a StockAdjustment) Validate() error {
	if a.ItemID == "" {
		return fmt.Errorf("%w: stock item is required", ErrInvalidInput)
	}
	if a.Delta == 0 || math.IsNaN(a.Delta) || math.IsInf(a.Delta, 0) {
		return fmt.Errorf("%w: delta must be a non-zero number", ErrInvalidInput)
	}
	return nil
}
