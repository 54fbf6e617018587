// Package floor provides the floor plan view: every table with its status
// and the orders open on it.
package floor

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/bistro-cli/internal/adapters/driving/tui/components/button"
	"github.com/custodia-labs/bistro-cli/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/bistro-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/bistro-cli/internal/adapters/driving/tui/views/viewkit"
	"github.com/custodia-labs/bistro-cli/internal/core/coordination"
	"github.com/custodia-labs/bistro-cli/internal/core/domain"
	"github.com/custodia-labs/bistro-cli/internal/core/ports/driving"
)

// LoadKey is the operation key of the floor's foreground load.
const LoadKey = "load-floor"

// MutationKey returns the guard key for changes to a table.
func MutationKey(tableID string) string {
	return "table:" + tableID
}

// View is the floor view.
type View struct {
	env   viewkit.Env
	floor driving.FloorService
	ctrl  *coordination.Controller[*domain.FloorOverview]

	refresh *button.Button
	actions *button.Button
	prompt  *input.Prompt

	overview *domain.FloorOverview
	cursor   viewkit.Cursor
	seating  string

	loading bool
	err     error
	notice  string
	width   int
	height  int
}

// NewView creates a floor view. Nothing is fetched until Show.
func NewView(env viewkit.Env, floor driving.FloorService) *View {
	env = env.WithDefaults()
	v := &View{
		env:     env,
		floor:   floor,
		refresh: button.New(env.Keys.Refresh),
		actions: button.New(env.Keys.Open, env.Keys.Reserve, env.Keys.Close, env.Keys.Clean),
		prompt:  input.NewPrompt(env.Styles),
		width:   80,
		height:  24,
	}
	v.ctrl = coordination.NewController(coordination.ControllerConfig[*domain.FloorOverview]{
		Name:     LoadKey,
		Interval: env.Interval,
		Fetch:    floor.Overview,
		Render:   v.render,
		View:     v,
		Controls: []coordination.Control{v.refresh},
		Progress: func(loading bool) { v.loading = loading },
		Alert:    func(err error) { v.err = err },
		Guard:    env.Guard,
		UI:       env.UI,
		Clock:    env.Clock,
		Context:  env.Context,
	})
	return v
}

// Show starts loading and polling.
func (v *View) Show() {
	v.err = nil
	v.notice = ""
	v.ctrl.Show()
}

// Dispose stops polling and closes any open prompt.
func (v *View) Dispose() {
	v.prompt.Dismiss()
	v.seating = ""
	v.ctrl.Dispose()
}

// SetInterval changes the polling interval from the next Show.
func (v *View) SetInterval(d time.Duration) {
	v.ctrl.SetInterval(d)
}

// Controller exposes the view's data lifecycle.
func (v *View) Controller() *coordination.Controller[*domain.FloorOverview] {
	return v.ctrl
}

func (v *View) render(ov *domain.FloorOverview) {
	v.overview = ov
	v.cursor.Sync(v.ids())
}

// CaptureViewState implements coordination.StateKeeper.
func (v *View) CaptureViewState() any {
	return v.cursor.Capture()
}

// RestoreViewState implements coordination.StateKeeper.
func (v *View) RestoreViewState(state any) {
	v.cursor.Restore(state, v.ids())
}

func (v *View) ids() []string {
	if v.overview == nil {
		return nil
	}
	ids := make([]string, len(v.overview.Tables))
	for i, s := range v.overview.Tables {
		ids[i] = s.Table.ID
	}
	return ids
}

// Selected returns the table under the cursor.
func (v *View) Selected() (domain.TableSummary, bool) {
	if v.overview == nil || len(v.overview.Tables) == 0 {
		return domain.TableSummary{}, false
	}
	return v.overview.Tables[v.cursor.Index()], true
}

// Capturing reports whether the view wants every key, e.g. while a prompt
// is open.
func (v *View) Capturing() bool {
	return v.prompt.Active()
}

// HandleKey handles a key press.
func (v *View) HandleKey(msg tea.KeyMsg) tea.Cmd {
	if v.prompt.Active() {
		return v.handlePrompt(msg)
	}

	keys := v.env.Keys
	k := msg.String()
	switch {
	case keymap.Matches(k, keys.Up):
		v.cursor.Move(-1, v.ids())
	case keymap.Matches(k, keys.Down):
		v.cursor.Move(1, v.ids())
	case v.refresh.Matches(k):
		v.reload()
	case v.actions.Matches(k):
		return v.act(k)
	}
	return nil
}

func (v *View) reload() {
	if !v.refresh.Enabled() {
		v.notice = "Already loading"
		return
	}
	v.err = nil
	if err := v.ctrl.Refresh(); errors.Is(err, coordination.ErrBusy) {
		v.notice = "Already loading"
	}
}

func (v *View) act(k string) tea.Cmd {
	sel, ok := v.Selected()
	if !ok {
		return nil
	}
	if !v.actions.Enabled() {
		v.notice = "Waiting for the previous action"
		return nil
	}

	t := sel.Table
	keys := v.env.Keys
	switch {
	case keymap.Matches(k, keys.Open):
		if !t.Status.CanTransitionTo(domain.TableOccupied) {
			v.err = fmt.Errorf("%s is %s", t.Label(), t.Status)
			return nil
		}
		v.seating = t.ID
		guests := 2
		if t.Seats > 0 && t.Seats < guests {
			guests = t.Seats
		}
		return v.prompt.Ask(fmt.Sprintf("Guests for %s:", t.Label()), strconv.Itoa(guests))
	case keymap.Matches(k, keys.Reserve):
		v.mutate(t, "reserved", v.floor.Reserve)
	case keymap.Matches(k, keys.Close):
		v.mutate(t, "closed", v.floor.Close)
	case keymap.Matches(k, keys.Clean):
		v.mutate(t, "is free", v.floor.MarkClean)
	}
	return nil
}

func (v *View) handlePrompt(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		v.prompt.Dismiss()
		v.seating = ""
		return nil
	case tea.KeyEnter:
		guests, err := v.prompt.Int()
		if err != nil {
			v.err = err
			return nil
		}
		v.prompt.Dismiss()
		sel, ok := v.Selected()
		if !ok || sel.Table.ID != v.seating {
			// The row under the cursor moved while the prompt was open.
			sel, ok = v.find(v.seating)
		}
		v.seating = ""
		if !ok {
			return nil
		}
		req := domain.OpenTable{TableID: sel.Table.ID, Guests: guests}
		v.mutate(sel.Table, "seated", func(ctx context.Context, _ string) (*domain.Table, error) {
			return v.floor.Open(ctx, req)
		})
		return nil
	}
	return v.prompt.Update(msg)
}

func (v *View) find(id string) (domain.TableSummary, bool) {
	if v.overview == nil {
		return domain.TableSummary{}, false
	}
	for _, s := range v.overview.Tables {
		if s.Table.ID == id {
			return s, true
		}
	}
	return domain.TableSummary{}, false
}

func (v *View) mutate(t domain.Table, verb string, op func(context.Context, string) (*domain.Table, error)) {
	v.err = nil
	v.notice = fmt.Sprintf("Updating %s...", t.Label())
	err := viewkit.Mutate(v.env, v.ctrl.Tracker(), MutationKey(t.ID), v.actions,
		func(ctx context.Context) (*domain.Table, error) {
			return op(ctx, t.ID)
		},
		func(_ *domain.Table, err error) {
			if err != nil {
				v.notice = ""
				v.err = fmt.Errorf("%s: %w", t.Label(), err)
				return
			}
			v.notice = fmt.Sprintf("%s %s", t.Label(), verb)
			_ = v.ctrl.Refresh()
		})
	if errors.Is(err, coordination.ErrBusy) {
		v.notice = fmt.Sprintf("%s is already being updated", t.Label())
	}
}

// Loading reports whether a foreground load is running.
func (v *View) Loading() bool {
	return v.loading
}

// Err returns the last error to show, if any.
func (v *View) Err() error {
	return v.err
}

// Notice returns the last status message.
func (v *View) Notice() string {
	return v.notice
}

// View renders the floor.
func (v *View) View() string {
	s := v.env.Styles
	var b strings.Builder

	b.WriteString(s.Title.Render("Floor"))
	b.WriteString("\n")

	if v.overview == nil {
		b.WriteString("\n")
		b.WriteString(s.Muted.Render("Loading tables..."))
		b.WriteString("\n")
		return b.String()
	}

	ov := v.overview
	b.WriteString(s.Muted.Render(fmt.Sprintf(
		"%d covers  %d free  %d occupied  %d reserved  open %s",
		ov.Covers(),
		ov.CountByStatus(domain.TableFree),
		ov.CountByStatus(domain.TableOccupied),
		ov.CountByStatus(domain.TableReserved),
		domain.FormatCents(ov.OpenTotalCents()),
	)))
	b.WriteString("\n\n")

	if len(ov.Tables) == 0 {
		b.WriteString(s.Muted.Render("No tables."))
		b.WriteString("\n")
	}

	now := v.env.Clock.Now()
	for i, sum := range ov.Tables {
		t := sum.Table
		cursor := "  "
		label := s.Normal.Render(fmt.Sprintf("%-4s", t.Label()))
		if i == v.cursor.Index() {
			cursor = "> "
			label = s.Selected.Render(fmt.Sprintf("%-4s", t.Label()))
		}

		line := fmt.Sprintf("%s%s %s %s",
			cursor, label,
			s.TableStatus(t.Status).Render(fmt.Sprintf("%-9s", t.Status)),
			occupancy(t),
		)
		if t.Status == domain.TableOccupied {
			line += s.Muted.Render(fmt.Sprintf("  %3dm", int(t.SeatedFor(now).Minutes())))
			if t.Server != "" {
				line += s.Muted.Render("  " + t.Server)
			}
		}
		if n := len(sum.Orders); n > 0 {
			line += s.Normal.Render(fmt.Sprintf("  %d open  %s", n, domain.FormatCents(sum.OpenTotalCents())))
		}
		if r := sum.ReadyCount(); r > 0 {
			line += s.Success.Render(fmt.Sprintf("  %d ready", r))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if p := v.prompt.View(); p != "" {
		b.WriteString("\n")
		b.WriteString(p)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.actions.View(s))
	b.WriteString("  ")
	b.WriteString(v.refresh.View(s))
	return b.String()
}

func occupancy(t domain.Table) string {
	if t.Status == domain.TableOccupied {
		return fmt.Sprintf("%d/%d", t.Guests, t.Seats)
	}
	return fmt.Sprintf("-/%d", t.Seats)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}
