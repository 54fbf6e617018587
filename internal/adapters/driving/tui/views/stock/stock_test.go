package stock

import (
	"context"
	"strings"
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

func (f *fixture) shown() *View {
	v := NewView(f.env, services.NewStockService(f.backend))
	v.Show()
	f.settle()
	return v
}

func (f *fixture) quantity(t *testing.T, id string) float64 {
	t.Helper()
	items, err := f.backend.ListStock(context.Background())
	require.NoError(t, err)
	for _, it := range items {
		if it.ID == id {
			return it.Quantity
		}
	}
	t.Fatalf("stock item %s not found", id)
	return 0
}

func press(v *View, r rune) tea.Cmd {
	return v.HandleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

func typeText(v *View, s string) {
	for _, r := range s {
		press(v, r)
	}
}

func TestView_ListsStockWithLowMarkers(t *testing.T) {
	f := newFixture()
	v := f.shown()

	require.Len(t, v.items, 8)
	out := v.View()
	assert.Contains(t, out, "3 low")
	assert.Equal(t, 3, strings.Count(out, "LOW"))
	assert.Contains(t, out, "6.5")
}

func TestView_IncreaseAndDecrease(t *testing.T) {
	f := newFixture()
	v := f.shown()

	press(v, '+')
	f.settle()
	assert.InDelta(t, 7.5, f.quantity(t, "s-beef"), 0.0001)
	assert.Equal(t, "Beef now 7.5 kg", v.Notice())

	press(v, '-')
	f.settle()
	assert.InDelta(t, 6.5, f.quantity(t, "s-beef"), 0.0001)
}

func TestView_ActionsDisabledWhileAdjusting(t *testing.T) {
	f := newFixture()
	v := f.shown()

	press(v, '+')
	f.ui.Drain()
	require.False(t, v.actions.Enabled())

	press(v, '+')
	assert.Equal(t, "Waiting for the previous adjustment", v.Notice())

	f.settle()
	assert.InDelta(t, 7.5, f.quantity(t, "s-beef"), 0.0001, "applied once")
	assert.True(t, v.actions.Enabled())
}

func TestView_AdjustThroughPrompt(t *testing.T) {
	f := newFixture()
	v := f.shown()
	v.HandleKey(tea.KeyMsg{Type: tea.KeyDown}) // Cream

	press(v, 'e')
	require.True(t, v.Capturing())
	assert.Contains(t, v.View(), "Change Cream (l) by:")

	typeText(v, "-2.5")
	v.HandleKey(tea.KeyMsg{Type: tea.KeyEnter})
	f.settle()

	assert.False(t, v.Capturing())
	assert.InDelta(t, 0.5, f.quantity(t, "s-cream"), 0.0001)
}

func TestView_OverdrawIsRejected(t *testing.T) {
	f := newFixture()
	v := f.shown()

	press(v, 'e')
	typeText(v, "-100")
	v.HandleKey(tea.KeyMsg{Type: tea.KeyEnter})
	f.settle()

	require.Error(t, v.Err())
	assert.ErrorIs(t, v.Err(), domain.ErrConflict)
	assert.InDelta(t, 6.5, f.quantity(t, "s-beef"), 0.0001)
}

func TestView_ZeroDeltaRejectedLocally(t *testing.T) {
	f := newFixture()
	v := f.shown()

	press(v, 'e')
	typeText(v, "0")
	v.HandleKey(tea.KeyMsg{Type: tea.KeyEnter})

	assert.ErrorIs(t, v.Err(), domain.ErrInvalidInput)
	assert.Empty(t, f.env.Guard.InFlight())
}

func TestView_PromptEscape(t *testing.T) {
	f := newFixture()
	v := f.shown()

	press(v, 'e')
	typeText(v, "3")
	v.HandleKey(tea.KeyMsg{Type: tea.KeyEsc})
	f.settle()

	assert.False(t, v.Capturing())
	assert.InDelta(t, 6.5, f.quantity(t, "s-beef"), 0.0001)
}

func TestView_BackgroundRefreshKeepsSelection(t *testing.T) {
	f := newFixture()
	v := f.shown()
	for i := 0; i < 6; i++ {
		v.HandleKey(tea.KeyMsg{Type: tea.KeyDown})
	}
	sel, _ := v.Selected()
	require.Equal(t, "s-potato", sel.ID)

	_, err := f.backend.AdjustStock(context.Background(), domain.StockAdjustment{ItemID: "s-potato", Delta: 20})
	require.NoError(t, err)
	f.clock.AdvanceTo(15 * time.Second)
	f.settle()

	sel, _ = v.Selected()
	assert.Equal(t, "s-potato", sel.ID)
	assert.InDelta(t, 22.5, sel.Quantity, 0.0001)
	assert.Contains(t, v.View(), "2 low")
}

func TestView_DisposeClosesPrompt(t *testing.T) {
	f := newFixture()
	v := f.shown()
	press(v, 'e')

	v.Dispose()

	assert.False(t, v.Capturing())
	assert.Equal(t, 0, f.clock.Pending())
}
