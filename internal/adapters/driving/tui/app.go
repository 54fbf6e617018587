package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/bistro-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/bistro-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/bistro-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/bistro-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/bistro-cli/internal/adapters/driving/tui/views/floor"
	"github.com/custodia-labs/bistro-cli/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/bistro-cli/internal/adapters/driving/tui/views/menuitems"
	"github.com/custodia-labs/bistro-cli/internal/adapters/driving/tui/views/orders"
	"github.com/custodia-labs/bistro-cli/internal/adapters/driving/tui/views/settings"
	"github.com/custodia-labs/bistro-cli/internal/adapters/driving/tui/views/stock"
	"github.com/custodia-labs/bistro-cli/internal/adapters/driving/tui/views/viewkit"
	"github.com/custodia-labs/bistro-cli/internal/core/coordination"
	"github.com/custodia-labs/bistro-cli/internal/logger"
)

// dataView is a view backed by a coordination.Controller. The App shows it
// on entry and disposes it on exit.
type dataView interface {
	Show()
	Dispose()
	SetInterval(d time.Duration)
	HandleKey(msg tea.KeyMsg) tea.Cmd
	Capturing() bool
	Loading() bool
	Err() error
	Notice() string
	View() string
	SetDimensions(width, height int)
}

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles *styles.Styles
	keys   *keymap.KeyMap

	// queue runs background callbacks on the Bubbletea goroutine.
	queue *UIQueue
	exec  coordination.Executor
	clock coordination.Clock
	guard *coordination.Guard

	// interval is the polling interval handed to data views.
	interval time.Duration

	// changes signals a rewritten config file. Nil disables reloading.
	changes <-chan struct{}

	menuView      *menu.View
	floorView     *floor.View
	ordersView    *orders.View
	menuItemsView *menuitems.View
	stockView     *stock.View
	settingsView  *settings.View

	statusBar *status.Bar
	spinner   spinner.Model
	spinning  bool
	help      help.Model

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error reported outside a data view.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// Option configures an App.
type Option func(*App)

// WithContext sets the context background work runs under.
func WithContext(ctx context.Context) Option {
	return func(a *App) {
		a.ctx = ctx
	}
}

// WithExecutor sets where guarded operations run.
func WithExecutor(exec coordination.Executor) Option {
	return func(a *App) {
		a.exec = exec
	}
}

// WithClock sets the clock used for polling.
func WithClock(clock coordination.Clock) Option {
	return func(a *App) {
		a.clock = clock
	}
}

// WithConfigChanges makes the App reload settings whenever ch receives.
func WithConfigChanges(ch <-chan struct{}) Option {
	return func(a *App) {
		a.changes = ch
	}
}

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports, opts ...Option) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()
	a := &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		keys:        km,
		queue:       NewUIQueue(),
		interval:    coordination.DefaultInterval,
		menuView:    menu.NewView(s, km),
		statusBar:   status.NewBar(s, km),
		spinner:     spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(s.Warning)),
		help:        help.New(),
		currentView: messages.ViewMenu,
	}
	for _, opt := range opts {
		opt(a)
	}

	if ports.Settings != nil {
		if cfg, err := ports.Settings.Get(); err == nil {
			a.interval = cfg.Polling.Interval
		}
	}

	a.guard = coordination.NewGuard(a.exec, a.queue)
	env := viewkit.Env{
		Guard:    a.guard,
		UI:       a.queue,
		Clock:    a.clock,
		Interval: a.interval,
		Context:  a.ctx,
		Styles:   s,
		Keys:     km,
	}
	a.floorView = floor.NewView(env, ports.Floor)
	a.ordersView = orders.NewView(env, ports.Orders)
	a.menuItemsView = menuitems.NewView(env, ports.Menu)
	a.stockView = stock.NewView(env, ports.Stock)
	a.settingsView = settings.NewView(s, km, ports.Settings, a.applyInterval)

	return a, nil
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("Bistro"),
		a.waitForConfig(),
	)
}

// waitForConfig blocks on the change channel and reports one change.
func (a *App) waitForConfig() tea.Cmd {
	if a.changes == nil {
		return nil
	}
	ch := a.changes
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return messages.ConfigChanged{}
	}
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		cmd := a.handleKey(msg)
		a.syncStatus()
		if spin := a.startSpinner(); spin != nil {
			return a, tea.Batch(cmd, spin)
		}
		return a, cmd

	case messages.ViewChanged:
		a.switchTo(msg.View)
		a.syncStatus()
		return a, nil

	case messages.Drain:
		a.queue.Drain()
		a.syncStatus()
		return a, a.startSpinner()

	case spinner.TickMsg:
		if !a.spinning {
			return a, nil
		}
		if v := a.current(); v == nil || !v.Loading() {
			a.spinning = false
			a.syncStatus()
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		a.statusBar.SetSpinner(a.spinner.View())
		return a, cmd

	case messages.ConfigChanged:
		a.reloadSettings()
		a.syncStatus()
		return a, a.waitForConfig()

	case messages.ErrorOccurred:
		a.err = msg.Err
		a.syncStatus()
		return a, nil

	case messages.Quit:
		a.dispose()
		return a, tea.Quit
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	k := msg.String()
	if k == "ctrl+c" {
		a.dispose()
		return tea.Quit
	}

	switch a.currentView {
	case messages.ViewMenu:
		var cmd tea.Cmd
		a.menuView, cmd = a.menuView.Update(msg)
		return cmd

	case messages.ViewHelp:
		switch {
		case keymap.Matches(k, a.keys.Quit):
			return tea.Quit
		case keymap.Matches(k, a.keys.Back), keymap.Matches(k, a.keys.Help):
			a.switchTo(messages.ViewMenu)
		}
		return nil
	}

	v := a.current()
	if v == nil {
		return nil
	}
	if v.Capturing() {
		return v.HandleKey(msg)
	}
	switch {
	case keymap.Matches(k, a.keys.Back):
		a.switchTo(messages.ViewMenu)
		return nil
	case keymap.Matches(k, a.keys.Quit):
		a.dispose()
		return tea.Quit
	case keymap.Matches(k, a.keys.Help):
		a.switchTo(messages.ViewHelp)
		return nil
	}
	return v.HandleKey(msg)
}

// switchTo disposes the active data view and shows the next one.
func (a *App) switchTo(next messages.ViewType) {
	if next == a.currentView {
		return
	}
	if v := a.current(); v != nil {
		v.Dispose()
	}
	logger.Debug("tui: %s -> %s", a.currentView, next)
	a.currentView = next
	a.err = nil
	if v := a.current(); v != nil {
		v.SetDimensions(a.width, a.bodyHeight())
		v.Show()
	}
}

// current returns the active data view, or nil on the menu and help.
func (a *App) current() dataView {
	return a.dataView(a.currentView)
}

func (a *App) dataView(t messages.ViewType) dataView {
	switch t {
	case messages.ViewFloor:
		return a.floorView
	case messages.ViewOrders:
		return a.ordersView
	case messages.ViewMenuItems:
		return a.menuItemsView
	case messages.ViewStock:
		return a.stockView
	case messages.ViewSettings:
		return a.settingsView
	default:
		return nil
	}
}

func (a *App) dataViews() []dataView {
	return []dataView{a.floorView, a.ordersView, a.menuItemsView, a.stockView, a.settingsView}
}

func (a *App) dispose() {
	if v := a.current(); v != nil {
		v.Dispose()
	}
}

// reloadSettings applies a polling interval changed in the config file.
func (a *App) reloadSettings() {
	if a.ports.Settings == nil {
		return
	}
	cfg, err := a.ports.Settings.Get()
	if err != nil {
		a.err = fmt.Errorf("reloading settings: %w", err)
		return
	}
	a.applyInterval(cfg.Polling.Interval)
}

// applyInterval hands a new polling interval to every view. A polling view
// on screen is re-shown so its running session picks it up.
func (a *App) applyInterval(d time.Duration) {
	if d == a.interval {
		return
	}

	logger.Info("tui: polling every %s", d)
	a.interval = d
	for _, v := range a.dataViews() {
		v.SetInterval(d)
	}
	if v := a.current(); v != nil && a.currentView.IsData() {
		v.Dispose()
		v.Show()
	}
}

func (a *App) startSpinner() tea.Cmd {
	v := a.current()
	if a.spinning || v == nil || !v.Loading() {
		return nil
	}
	a.spinning = true
	return a.spinner.Tick
}

// syncStatus mirrors the active view into the status bar.
func (a *App) syncStatus() {
	bar := a.statusBar
	bar.SetSpinner(a.spinner.View())

	v := a.current()
	switch {
	case v == nil && a.err != nil:
		bar.SetState(status.StateError)
		bar.SetMessage(a.err.Error())
	case v == nil:
		bar.Clear()
	case v.Err() != nil:
		bar.SetState(status.StateError)
		bar.SetMessage(v.Err().Error())
	case v.Loading():
		bar.SetState(status.StateLoading)
		bar.SetMessage("")
	case v.Notice() != "":
		bar.SetState(status.StateNotice)
		bar.SetMessage(v.Notice())
	default:
		bar.SetState(status.StateReady)
		bar.SetMessage("")
	}
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewMenu:
		body = a.menuView.View()
	case messages.ViewHelp:
		body = a.viewHelp()
	default:
		if v := a.current(); v != nil {
			body = v.View()
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Height(a.bodyHeight()).Render(body),
		a.statusBar.View(),
	)
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	return a.styles.Title.Render("Help") + "\n\n" +
		a.help.FullHelpView(a.keys.FullHelp()) + "\n\n" +
		a.styles.Muted.Render("[esc] back to menu")
}

func (a *App) bodyHeight() int {
	if a.height <= 1 {
		return 0
	}
	return a.height - 1
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	a.queue.SetNotify(func() {
		go p.Send(messages.Drain{})
	})
	_, err := p.Run()
	a.dispose()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Guard returns the guard shared by every view.
func (a *App) Guard() *coordination.Guard {
	return a.guard
}

// Interval returns the polling interval views are using.
func (a *App) Interval() time.Duration {
	return a.interval
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.statusBar.SetWidth(width)
	a.help.Width = width
	for _, v := range a.dataViews() {
		v.SetDimensions(width, a.bodyHeight())
	}
}
