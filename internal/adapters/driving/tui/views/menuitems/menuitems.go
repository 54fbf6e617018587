// Package menuitems provides the menu view, grouped by category, where
// dishes can be marked sold out.
package menuitems

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/bistro-cli/internal/adapters/driving/tui/components/button"
	"github.com/custodia-labs/bistro-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/bistro-cli/internal/adapters/driving/tui/views/viewkit"
	"github.com/custodia-labs/bistro-cli/internal/core/coordination"
	"github.com/custodia-labs/bistro-cli/internal/core/domain"
	"github.com/custodia-labs/bistro-cli/internal/core/ports/driving"
)

// LoadKey is the operation key of the menu's foreground load.
const LoadKey = "load-menu"

// MutationKey returns the guard key for changes to a menu item.
func MutationKey(itemID string) string {
	return "menu:" + itemID
}

// View is the menu items view.
type View struct {
	env  viewkit.Env
	menu driving.MenuService
	ctrl *coordination.Controller[[]domain.MenuItem]

	refresh *button.Button
	toggle  *button.Button

	items   []domain.MenuItem
	cursor  viewkit.Cursor
	loading bool
	err     error
	notice  string
	width   int
	height  int
}

// NewView creates a menu items view. Nothing is fetched until Show.
func NewView(env viewkit.Env, menu driving.MenuService) *View {
	env = env.WithDefaults()
	v := &View{
		env:     env,
		menu:    menu,
		refresh: button.New(env.Keys.Refresh),
		toggle:  button.New(env.Keys.Toggle),
		width:   80,
		height:  24,
	}
	v.ctrl = coordination.NewController(coordination.ControllerConfig[[]domain.MenuItem]{
		Name:     LoadKey,
		Interval: env.Interval,
		Fetch:    menu.List,
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

func (v *View) render(items []domain.MenuItem) {
	v.items = items
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
func (v *View) Controller() *coordination.Controller[[]domain.MenuItem] {
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
func (v *View) Selected() (domain.MenuItem, bool) {
	if len(v.items) == 0 {
		return domain.MenuItem{}, false
	}
	return v.items[v.cursor.Index()], true
}

// Capturing always returns false.
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
	case v.refresh.Matches(k):
		v.err = nil
		if err := v.ctrl.Refresh(); errors.Is(err, coordination.ErrBusy) {
			v.notice = "Already loading"
		}
	case v.toggle.Matches(k):
		v.toggleSelected()
	}
	return nil
}

func (v *View) toggleSelected() {
	item, ok := v.Selected()
	if !ok {
		return
	}
	if !v.toggle.Enabled() {
		v.notice = "Waiting for the previous change"
		return
	}

	want := !item.Available
	v.err = nil
	err := viewkit.Mutate(v.env, v.ctrl.Tracker(), MutationKey(item.ID), v.toggle,
		func(ctx context.Context) (*domain.MenuItem, error) {
			return v.menu.SetAvailability(ctx, item.ID, want)
		},
		func(updated *domain.MenuItem, err error) {
			if err != nil {
				v.err = fmt.Errorf("%s: %w", item.Name, err)
				return
			}
			v.notice = fmt.Sprintf("%s is %s", updated.Name, availability(updated.Available))
			_ = v.ctrl.Refresh()
		})
	if errors.Is(err, coordination.ErrBusy) {
		v.notice = fmt.Sprintf("%s is already being updated", item.Name)
	}
}

func availability(available bool) string {
	if available {
		return "available"
	}
	return "sold out"
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

// View renders the menu grouped by category. Items arrive sorted by
// category so a header is written whenever the category changes.
func (v *View) View() string {
	s := v.env.Styles
	var b strings.Builder

	b.WriteString(s.Title.Render("Menu"))
	b.WriteString("\n")

	if len(v.items) == 0 {
		b.WriteString("\n")
		if v.loading {
			b.WriteString(s.Muted.Render("Loading menu..."))
		} else {
			b.WriteString(s.Muted.Render("The menu is empty."))
		}
		b.WriteString("\n")
	}

	category := ""
	for i, it := range v.items {
		if it.Category != category {
			category = it.Category
			b.WriteString("\n")
			b.WriteString(s.Subtitle.Render(category))
			b.WriteString("\n")
		}

		cursor := "  "
		name := s.Normal.Render(fmt.Sprintf("%-24s", it.Name))
		if i == v.cursor.Index() {
			cursor = "> "
			name = s.Selected.Render(fmt.Sprintf("%-24s", it.Name))
		}
		state := s.Success.Render("available")
		if !it.Available {
			state = s.Error.Render("sold out")
		}
		b.WriteString(fmt.Sprintf("%s%s %7s  %s\n", cursor, name, domain.FormatCents(it.PriceCents), state))
	}

	b.WriteString("\n")
	b.WriteString(v.toggle.View(s))
	b.WriteString("  ")
	b.WriteString(v.refresh.View(s))
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}
