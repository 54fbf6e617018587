// Package stock provides the pantry view: ingredient levels against their
// reorder points.
package stock

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

// LoadKey is the operation key of the stock view's foreground load.
const LoadKey = "load-stock"

// MutationKey returns the guard key for changes to a stock item.
func MutationKey(itemID string) string {
	return "stock:" + itemID
}

// View is the stock view.
type View struct {
	env   viewkit.Env
	stock driving.StockService
	ctrl  *coordination.Controller[[]domain.StockItem]

	refresh *button.Button
	actions *button.Button
	prompt  *input.Prompt

	items     []domain.StockItem
	cursor    viewkit.Cursor
	adjusting string

	loading bool
	err     error
	notice  string
	width   int
	height  int
}

// NewView creates a stock view. Nothing is fetched until Show.
func NewView(env viewkit.Env, stock driving.StockService) *View {
	env = env.WithDefaults()
	v := &View{
		env:     env,
		stock:   stock,
		refresh: button.New(env.Keys.Refresh),
		actions: button.New(env.Keys.Increase, env.Keys.Decrease, env.Keys.Adjust),
		prompt:  input.NewPrompt(env.Styles),
		width:   80,
		height:  24,
	}
	v.ctrl = coordination.NewController(coordination.ControllerConfig[[]domain.StockItem]{
		Name:     LoadKey,
		Interval: env.Interval,
		Fetch:    stock.List,
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

func (v *View) render(items []domain.StockItem) {
	v.items = items
	v.cursor.Sync(v.ids())
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
	v.adjusting = ""
	v.ctrl.Dispose()
}

// SetInterval changes the polling interval from the next Show.
func (v *View) SetInterval(d time.Duration) {
	v.ctrl.SetInterval(d)
}

// Controller exposes the view's data lifecycle.
func (v *View) Controller() *coordination.Controller[[]domain.StockItem] {
	return v.ctrl
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
	ids := make([]string, len(v.items))
	for i, it := range v.items {
		ids[i] = it.ID
	}
	return ids
}

// Selected returns the item under the cursor.
func (v *View) Selected() (domain.StockItem, bool) {
	if len(v.items) == 0 {
		return domain.StockItem{}, false
	}
	return v.items[v.cursor.Index()], true
}

// Capturing reports whether the adjustment prompt is open.
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
		v.err = nil
		if err := v.ctrl.Refresh(); errors.Is(err, coordination.ErrBusy) {
			v.notice = "Already loading"
		}
	case v.actions.Matches(k):
		return v.act(k)
	}
	return nil
}

func (v *View) act(k string) tea.Cmd {
	item, ok := v.Selected()
	if !ok {
		return nil
	}
	if !v.actions.Enabled() {
		v.notice = "Waiting for the previous adjustment"
		return nil
	}

	keys := v.env.Keys
	switch {
	case keymap.Matches(k, keys.Increase):
		v.adjust(item, 1)
	case keymap.Matches(k, keys.Decrease):
		v.adjust(item, -1)
	case keymap.Matches(k, keys.Adjust):
		v.adjusting = item.ID
		return v.prompt.Ask(fmt.Sprintf("Change %s (%s) by:", item.Name, item.Unit), "")
	}
	return nil
}

func (v *View) handlePrompt(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		v.prompt.Dismiss()
		v.adjusting = ""
		return nil
	case tea.KeyEnter:
		delta, err := v.prompt.Float()
		if err != nil {
			v.err = err
			return nil
		}
		v.prompt.Dismiss()
		id := v.adjusting
		v.adjusting = ""
		for _, it := range v.items {
			if it.ID == id {
				v.adjust(it, delta)
				break
			}
		}
		return nil
	}
	return v.prompt.Update(msg)
}

func (v *View) adjust(item domain.StockItem, delta float64) {
	adj := domain.StockAdjustment{ItemID: item.ID, Delta: delta, Reason: "count"}
	if err := adj.Validate(); err != nil {
		v.err = err
		return
	}

	v.err = nil
	err := viewkit.Mutate(v.env, v.ctrl.Tracker(), MutationKey(item.ID), v.actions,
		func(ctx context.Context) (*domain.StockItem, error) {
			return v.stock.Adjust(ctx, adj)
		},
		func(updated *domain.StockItem, err error) {
			if err != nil {
				v.err = fmt.Errorf("%s: %w", item.Name, err)
				return
			}
			v.notice = fmt.Sprintf("%s now %s %s", updated.Name, quantity(updated.Quantity), updated.Unit)
			_ = v.ctrl.Refresh()
		})
	if errors.Is(err, coordination.ErrBusy) {
		v.notice = fmt.Sprintf("%s is already being adjusted", item.Name)
	}
}

func quantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
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

// View renders the pantry.
func (v *View) View() string {
	s := v.env.Styles
	var b strings.Builder

	low := 0
	for _, it := range v.items {
		if it.IsLow() {
			low++
		}
	}
	b.WriteString(s.Title.Render("Stock"))
	if low > 0 {
		b.WriteString("  ")
		b.WriteString(s.Warning.Render(fmt.Sprintf("%d low", low)))
	}
	b.WriteString("\n\n")

	if len(v.items) == 0 {
		if v.loading {
			b.WriteString(s.Muted.Render("Loading stock..."))
		} else {
			b.WriteString(s.Muted.Render("No stock items."))
		}
		b.WriteString("\n")
	}

	for i, it := range v.items {
		cursor := "  "
		name := s.Normal.Render(fmt.Sprintf("%-12s", it.Name))
		if i == v.cursor.Index() {
			cursor = "> "
			name = s.Selected.Render(fmt.Sprintf("%-12s", it.Name))
		}
		line := fmt.Sprintf("%s%s %8s %-8s reorder at %s",
			cursor, name, quantity(it.Quantity), it.Unit, quantity(it.ReorderLevel))
		if it.IsLow() {
			line += "  " + s.Warning.Render("LOW")
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

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}
