package floor

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/bistro-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/bistro-cli/internal/adapters/driving/tui/views/viewkit"
	"github.com/custodia-labs/bistro-cli/internal/core/coordination"
	"github.com/custodia-labs/bistro-cli/internal/core/coordination/coordtest"
	"github.com/custodia-labs/bistro-cli/internal/core/domain"
	"github.com/custodia-labs/bistro-cli/internal/core/ports/driving"
	"github.com/custodia-labs/bistro-cli/internal/core/services"
)

type fixture struct {
	clock   *coordtest.FakeClock
	exec    *coordtest.ManualExecutor
	ui      *coordtest.Queue
	env     viewkit.Env
	backend *memory.Backend
}

func newFixture() *fixture {
	exec := &coordtest.ManualExecutor{}
	ui := &coordtest.Queue{}
	clock := coordtest.NewFakeClock()
	return &fixture{
		clock: clock,
		exec:  exec,
		ui:    ui,
		env: viewkit.Env{
			Guard:    coordination.NewGuard(exec, ui),
			UI:       ui,
			Clock:    clock,
			Interval: 15 * time.Second,
		},
		backend: memory.NewDemoBackend(),
	}
}

func (f *fixture) settle() {
	for f.exec.RunAll()+f.ui.Drain() > 0 {
	}
}

func (f *fixture) view() *View {
	return NewView(f.env, services.NewFloorService(f.backend))
}

func (f *fixture) status(t *testing.T, id string) domain.TableStatus {
	t.Helper()
	tbl, err := f.backend.GetTable(context.Background(), id)
	require.NoError(t, err)
	return tbl.Status
}

func press(v *View, r rune) tea.Cmd {
	return v.HandleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

// selectTable moves the cursor to the table at index.
func selectTable(v *View, index int) {
	for i := 0; i < index; i++ {
		v.HandleKey(tea.KeyMsg{Type: tea.KeyDown})
	}
}

type mockFloorService struct {
	driving.FloorService
	overviewFunc func(ctx context.Context) (*domain.FloorOverview, error)
}

func (m *mockFloorService) Overview(ctx context.Context) (*domain.FloorOverview, error) {
	return m.overviewFunc(ctx)
}

func TestView_ShowLoadsFloor(t *testing.T) {
	f := newFixture()
	v := f.view()

	v.Show()
	f.ui.Drain()
	assert.True(t, v.Loading())

	f.settle()

	assert.False(t, v.Loading())
	require.NotNil(t, v.overview)
	assert.Len(t, v.overview.Tables, 10)
	out := v.View()
	assert.Contains(t, out, "Floor")
	assert.Contains(t, out, "8 covers")
	assert.Contains(t, out, "T3")
	assert.Contains(t, out, "occupied")
	assert.Equal(t, 1, f.clock.Pending())
}

func TestView_ViewBeforeLoad(t *testing.T) {
	f := newFixture()
	v := f.view()

	assert.Contains(t, v.View(), "Loading tables...")
	_, ok := v.Selected()
	assert.False(t, ok)
	assert.Nil(t, press(v, 'c'))
}

func TestView_SelectionSurvivesBackgroundRender(t *testing.T) {
	f := newFixture()
	v := f.view()
	v.Show()
	f.settle()

	selectTable(v, 5)
	sel, ok := v.Selected()
	require.True(t, ok)
	require.Equal(t, "t6", sel.Table.ID)

	f.clock.AdvanceTo(15 * time.Second)
	f.settle()

	sel, _ = v.Selected()
	assert.Equal(t, "t6", sel.Table.ID)
	assert.Equal(t, int64(1), v.Controller().Stats().Renders)
}

func TestView_CloseWithOpenOrdersFails(t *testing.T) {
	f := newFixture()
	v := f.view()
	v.Show()
	f.settle()

	selectTable(v, 2)
	press(v, 'c')
	f.settle()

	require.Error(t, v.Err())
	assert.ErrorIs(t, v.Err(), domain.ErrConflict)
	assert.Contains(t, v.Err().Error(), "T3")
	assert.Equal(t, domain.TableOccupied, f.status(t, "t3"))
	assert.True(t, v.actions.Enabled())
}

func TestView_MutationDisablesActionsUntilDone(t *testing.T) {
	f := newFixture()
	v := f.view()
	v.Show()
	f.settle()

	selectTable(v, 8)
	press(v, 'x')
	f.ui.Drain()

	assert.False(t, v.actions.Enabled())
	assert.True(t, f.env.Guard.Held(MutationKey("t9")))

	// A second press is refused while the first is in flight.
	press(v, 'x')
	assert.Equal(t, "Waiting for the previous action", v.Notice())

	f.settle()

	assert.True(t, v.actions.Enabled())
	assert.Equal(t, "T9 is free", v.Notice())
	assert.Equal(t, domain.TableFree, f.status(t, "t9"))
	assert.NoError(t, v.Err())
}

func TestView_SameTableBusyInAnotherView(t *testing.T) {
	f := newFixture()
	v := f.view()
	v.Show()
	f.settle()

	require.True(t, f.env.Guard.Acquire(MutationKey("t1")))
	press(v, 'v')

	assert.Equal(t, "T1 is already being updated", v.Notice())
	assert.True(t, v.actions.Enabled())
	f.settle()
	assert.Equal(t, domain.TableFree, f.status(t, "t1"))
}

func TestView_SeatPartyThroughPrompt(t *testing.T) {
	f := newFixture()
	v := f.view()
	v.Show()
	f.settle()

	press(v, 'o')
	require.True(t, v.Capturing())
	assert.Contains(t, v.View(), "Guests for T1:")

	v.HandleKey(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, v.Capturing())
	f.settle()

	assert.Equal(t, "T1 seated", v.Notice())
	tbl, err := f.backend.GetTable(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, domain.TableOccupied, tbl.Status)
	assert.Equal(t, 2, tbl.Guests)
}

func TestView_SeatPromptRejectsBadInput(t *testing.T) {
	f := newFixture()
	v := f.view()
	v.Show()
	f.settle()

	press(v, 'o')
	v.HandleKey(tea.KeyMsg{Type: tea.KeyBackspace})
	press(v, 'z')
	v.HandleKey(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Error(t, v.Err())
	assert.True(t, v.Capturing(), "prompt stays open")

	v.HandleKey(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, v.Capturing())
	assert.Equal(t, domain.TableFree, f.status(t, "t1"))
}

func TestView_SeatOccupiedTableRefused(t *testing.T) {
	f := newFixture()
	v := f.view()
	v.Show()
	f.settle()

	selectTable(v, 2)
	press(v, 'o')

	assert.False(t, v.Capturing())
	assert.Error(t, v.Err())
}

func TestView_Refresh(t *testing.T) {
	f := newFixture()
	svc := services.NewFloorService(f.backend)
	loads := 0
	v := NewView(f.env, &mockFloorService{
		overviewFunc: func(ctx context.Context) (*domain.FloorOverview, error) {
			loads++
			return svc.Overview(ctx)
		},
	})
	v.Show()
	f.ui.Drain()

	press(v, 'r')
	assert.Equal(t, "Already loading", v.Notice())

	f.settle()
	press(v, 'r')
	f.settle()

	assert.Equal(t, 2, loads)
	assert.False(t, v.Loading())
}

func TestView_DisposeStopsPolling(t *testing.T) {
	f := newFixture()
	v := f.view()
	v.Show()
	f.settle()
	press(v, 'o')

	v.Dispose()
	f.settle()

	assert.Equal(t, 0, f.clock.Pending())
	assert.False(t, v.Controller().Active())
	assert.False(t, v.Capturing())
}

func TestView_LoadFailureAlerts(t *testing.T) {
	f := newFixture()
	boom := errors.New("list tables: backend unavailable")
	v := NewView(f.env, &mockFloorService{
		overviewFunc: func(context.Context) (*domain.FloorOverview, error) { return nil, boom },
	})

	v.Show()
	f.settle()

	assert.ErrorIs(t, v.Err(), boom)
	assert.Contains(t, v.View(), "Loading tables...")

	// Showing again clears the previous alert.
	v.Show()
	assert.NoError(t, v.Err())
}

func TestView_SetInterval(t *testing.T) {
	f := newFixture()
	v := f.view()

	v.SetInterval(5 * time.Second)
	v.Show()
	f.settle()
	f.clock.AdvanceTo(5 * time.Second)
	f.settle()

	assert.Equal(t, int64(1), v.Controller().Stats().Ticks)
}
