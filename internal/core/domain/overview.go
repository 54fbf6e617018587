package domain

import (
	"sort"
	"time"
)

// TableSummary is a table together with its open orders.
type TableSummary struct {
	Table  Table
	Orders []Order
}

// OpenTotalCents returns the value of the table's open orders.
func (s TableSummary) OpenTotalCents() int64 {
	var total int64
	for _, o := range s.Orders {
		total += o.TotalCents()
	}
	return total
}

// ReadyCount returns how many orders are waiting to be served.
func (s TableSummary) ReadyCount() int {
	n := 0
	for _, o := range s.Orders {
		if o.Status == OrderReady {
			n++
		}
	}
	return n
}

// FloorOverview is a snapshot of the whole floor.
type FloorOverview struct {
	Tables      []TableSummary
	GeneratedAt time.Time
}

// NewFloorOverview joins open orders onto their tables. Tables are sorted by
// number and orders by creation time. Orders for unknown tables are ignored.
func NewFloorOverview(tables []Table, orders []Order, now time.Time) FloorOverview {
	sorted := make([]Table, len(tables))
	copy(sorted, tables)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Number < sorted[j].Number })

	byTable := make(map[string][]Order, len(sorted))
	for _, o := range orders {
		if !o.Status.IsOpen() {
			continue
		}
		byTable[o.TableID] = append(byTable[o.TableID], o)
	}

	ov := FloorOverview{GeneratedAt: now, Tables: make([]TableSummary, 0, len(sorted))}
	for _, t := range sorted {
		open := byTable[t.ID]
		sort.Slice(open, func(i, j int) bool { return open[i].CreatedAt.Before(open[j].CreatedAt) })
		ov.Tables = append(ov.Tables, TableSummary{Table: t, Orders: open})
	}
	return ov
}

// CountByStatus returns the number of tables in the given status.
func (f FloorOverview) CountByStatus(status TableStatus) int {
	n := 0
	for _, s := range f.Tables {
		if s.Table.Status == status {
			n++
		}
	}
	return n
}

// Covers returns the number of seated guests.
func (f FloorOverview) Covers() int {
	n := 0
	for _, s := range f.Tables {
		if s.Table.Status == TableOccupied {
			n += s.Table.Guests
		}
	}
	return n
}

// OpenTotalCents returns the value of every open order on the floor.
func (f FloorOverview) OpenTotalCents() int64 {
	var total int64
	for _, s := range f.Tables {
		total += s.OpenTotalCents()
	}
	return total
}
