package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/bistro-cli/internal/core/domain"
	"github.com/custodia-labs/bistro-cli/internal/core/ports/driven"
	"github.com/custodia-labs/bistro-cli/internal/core/ports/driving"
)

// Ensure FloorService implements the interface.
var _ driving.FloorService = (*FloorService)(nil)

// FloorService manages tables on the floor.
type FloorService struct {
	backend driven.RestaurantBackend
	now     func() time.Time
}

// NewFloorService creates a new floor service.
func NewFloorService(backend driven.RestaurantBackend) *FloorService {
	return &FloorService{backend: backend, now: time.Now}
}

// Tables returns every table sorted by number.
func (s *FloorService) Tables(ctx context.Context) ([]domain.Table, error) {
	tables, err := s.backend.ListTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	return tables, nil
}

// Overview fetches tables and open orders concurrently and joins them.
func (s *FloorService) Overview(ctx context.Context) (*domain.FloorOverview, error) {
	var tables []domain.Table
	var orders []domain.Order

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tables, err = s.backend.ListTables(gCtx)
		if err != nil {
			return fmt.Errorf("list tables: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		orders, err = s.backend.ListOrders(gCtx, domain.OrderFilter{OpenOnly: true})
		if err != nil {
			return fmt.Errorf("list orders: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ov := domain.NewFloorOverview(tables, orders, s.now())
	return &ov, nil
}

// Open seats a party.
func (s *FloorService) Open(ctx context.Context, req domain.OpenTable) (*domain.Table, error) {
	t, err := s.table(ctx, req.TableID)
	if err != nil {
		return nil, err
	}
	if err := req.Validate(*t); err != nil {
		return nil, err
	}
	return s.backend.OpenTable(ctx, req)
}

// Reserve holds a free table.
func (s *FloorService) Reserve(ctx context.Context, tableID string) (*domain.Table, error) {
	return s.transition(ctx, tableID, domain.TableReserved)
}

// Close marks an occupied table as needing cleaning. A table with open
// orders cannot be closed.
func (s *FloorService) Close(ctx context.Context, tableID string) (*domain.Table, error) {
	open, err := s.backend.ListOrders(ctx, domain.OrderFilter{TableID: tableID, OpenOnly: true})
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	if len(open) > 0 {
		return nil, fmt.Errorf("%w: table has %d open order(s)", domain.ErrConflict, len(open))
	}
	return s.transition(ctx, tableID, domain.TableCleaning)
}

// MarkClean frees a table after cleaning or cancels a reservation.
func (s *FloorService) MarkClean(ctx context.Context, tableID string) (*domain.Table, error) {
	return s.transition(ctx, tableID, domain.TableFree)
}

func (s *FloorService) table(ctx context.Context, id string) (*domain.Table, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: table is required", domain.ErrInvalidInput)
	}
	return s.backend.GetTable(ctx, id)
}

func (s *FloorService) transition(ctx context.Context, id string, to domain.TableStatus) (*domain.Table, error) {
	t, err := s.table(ctx, id)
	if err != nil {
		return nil, err
	}
	if !t.Status.CanTransitionTo(to) {
		return nil, fmt.Errorf("%w: %s is %s", domain.ErrConflict, t.Label(), t.Status)
	}
	return s.backend.SetTableStatus(ctx, id, to)
}
