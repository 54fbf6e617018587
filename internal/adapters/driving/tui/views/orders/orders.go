// Package orders provides the order board: open orders oldest first, with
// actions to move them through the kitchen.
package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/bistro-cli/internal/adapters/driving/tui/components/button"
	"github.com/custodia-labs/bistro-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/bistro-cli/internal/adapters/driving/tui/views/viewkit"
	"github.com/custodia-labs/bistro-cli/internal/core/coordination"
	"github.com/custodia-labs/bistro-cli/internal/core/domain"
	"github.com/custodia-labs/bistro-cli/internal/core/ports/driving"
)

// LoadKey is the operation key of the order board's foreground load.
const LoadKey = "load-orders"

// MutationKey returns the guard key for changes to an order.
func MutationKey(orderID string) string {
	return "order:" + orderID
}

// View is the order board.
type View struct {
	env    viewkit.Env
	orders driving.OrderService
	ctrl   *coordination.Controller[[]domain.Order]

	refresh *button.Button
	actions *button.Button

	// showClosed is read by fetches running off the UI goroutine.
	showClosed atomic.Bool

	list    []domain.Order
	cursor  viewkit.Cursor
	loading bool
	err     error
	notice  string
	width   int
	height  int
}

// NewView creates an order board. Nothing is fetched until Show.
func NewView(env viewkit.Env, orders driving.OrderService) *View {
	env = env.WithDefaults()
	v := &View{
		env:     env,
		orders:  orders,
		refresh: button.New(env.Keys.Refresh, env.Keys.ShowClosed),
		actions: button.New(env.Keys.Advance, env.Keys.CancelItem),
		width:   80,
		height:  24,
	}
	v.ctrl = coordination.NewController(coordination.ControllerConfig[[]domain.Order]{
		Name:     LoadKey,
		Interval: env.Interval,
		Fetch:    v.fetch,
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

func (v *View) fetch(ctx context.Context) ([]domain.Order, error) {
	return v.orders.List(ctx, domain.OrderFilter{OpenOnly: !v.showClosed.Load()})
}

func (v *View) render(list []domain.Order) {
	v.list = list
	v.cursor.Sync(v.ids())
}

// Show starts loading and polling.
func (v *View) Show() {
	v.err = nil
	v.notice = ""
	v.ctrl.Show()
}

// Dispose stops polling.
func (v *View) Dispose() {
	v.ctrl.Dispose()
}

// SetInterval changes the polling interval from the next Show.
func (v *View) SetInterval(d time.Duration) {
	v.ctrl.SetInterval(d)
}

// Controller exposes the view's data lifecycle.
func (v *View) Controller() *coordination.Controller[[]domain.Order] {
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
	ids := make([]string, len(v.list))
	for i, o := range v.list {
		ids[i] = o.ID
	}
	return ids
}

// Selected returns the order under the cursor.
func (v *View) Selected() (domain.Order, bool) {
	if len(v.list) == 0 {
		return domain.Order{}, false
	}
	return v.list[v.cursor.Index()], true
}

// Capturing always returns false; the board has no prompt.
func (v *View) Capturing() bool {
	return false
}

// HandleKey handles a key press.
func (v *View) HandleKey(msg tea.KeyMsg) tea.Cmd {
	keys := v.env.Keys
	k := msg.String()
	switch {
	case keymap.Matches(k, keys.Up):
		v.cursor.Move(-1, v.ids())
	case keymap.Matches(k, keys.Down):
		v.cursor.Move(1, v.ids())
	case keymap.Matches(k, keys.ShowClosed):
		v.showClosed.Store(!v.showClosed.Load())
		v.reload()
	case keymap.Matches(k, keys.Refresh):
		v.reload()
	case keymap.Matches(k, keys.Advance):
		v.act("advanced", canAdvance, v.orders.Advance)
	case keymap.Matches(k, keys.CancelItem):
		v.act("cancelled", canCancel, v.orders.Cancel)
	}
	return nil
}

func (v *View) reload() {
	v.err = nil
	if err := v.ctrl.Refresh(); errors.Is(err, coordination.ErrBusy) {
		// The running load may use the old filter; catch up on the next tick.
		v.notice = "Already loading"
	}
}

func canAdvance(o domain.Order) bool {
	_, ok := o.Status.Next()
	return ok
}

func canCancel(o domain.Order) bool {
	return o.Status.IsCancellable()
}

func (v *View) act(verb string, allowed func(domain.Order) bool, op func(context.Context, string) (*domain.Order, error)) {
	o, ok := v.Selected()
	if !ok {
		return
	}
	if !v.actions.Enabled() {
		v.notice = "Waiting for the previous action"
		return
	}
	if !allowed(o) {
		v.err = fmt.Errorf("%s is %s", o.ID, o.Status)
		return
	}

	v.err = nil
	v.notice = fmt.Sprintf("Updating %s...", o.ID)
	err := viewkit.Mutate(v.env, v.ctrl.Tracker(), MutationKey(o.ID), v.actions,
		func(ctx context.Context) (*domain.Order, error) {
			return op(ctx, o.ID)
		},
		func(updated *domain.Order, err error) {
			if err != nil {
				v.notice = ""
				v.err = fmt.Errorf("%s: %w", o.ID, err)
				return
			}
			v.notice = fmt.Sprintf("%s %s to %s", o.ID, verb, updated.Status)
			_ = v.ctrl.Refresh()
		})
	if errors.Is(err, coordination.ErrBusy) {
		v.notice = fmt.Sprintf("%s is already being updated", o.ID)
	}
}

// ShowingClosed reports whether paid and cancelled orders are listed.
func (v *View) ShowingClosed() bool {
	return v.showClosed.Load()
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

// View renders the board.
func (v *View) View() string {
	s := v.env.Styles
	var b strings.Builder

	title := "Open orders"
	if v.showClosed.Load() {
		title = "All orders"
	}
	b.WriteString(s.Title.Render(title))
	b.WriteString("\n\n")

	switch {
	case v.list == nil && v.loading:
		b.WriteString(s.Muted.Render("Loading orders..."))
		b.WriteString("\n")
	case len(v.list) == 0:
		b.WriteString(s.Muted.Render("No orders."))
		b.WriteString("\n")
	}

	now := v.env.Clock.Now()
	for i, o := range v.list {
		cursor := "  "
		id := s.Normal.Render(fmt.Sprintf("%-8s", o.ID))
		if i == v.cursor.Index() {
			cursor = "> "
			id = s.Selected.Render(fmt.Sprintf("%-8s", o.ID))
		}
		line := fmt.Sprintf("%s%s %-4s %s %8s",
			cursor, id, strings.ToUpper(o.TableID),
			s.OrderStatus(o.Status).Render(fmt.Sprintf("%-10s", o.Status)),
			domain.FormatCents(o.TotalCents()),
		)
		if o.Status.IsOpen() {
			line += s.Muted.Render(fmt.Sprintf("  %3dm", int(o.Age(now).Minutes())))
		}
		line += "  " + s.Muted.Render(summary(o))
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.actions.View(s))
	b.WriteString("  ")
	b.WriteString(v.refresh.View(s))
	return b.String()
}

// summary renders items as "2x Steak Frites, 1x Duck Confit".
func summary(o domain.Order) string {
	parts := make([]string, 0, len(o.Items))
	for _, it := range o.Items {
		parts = append(parts, fmt.Sprintf("%dx %s", it.Quantity, it.Name))
	}
	return strings.Join(parts, ", ")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}
