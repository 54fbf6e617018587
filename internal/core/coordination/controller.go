package coordination

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/custodia-labs/bistro-cli/internal/logger"
)

// ControllerConfig configures a Controller.
type ControllerConfig[T any] struct {
	// Name is the operation key of the foreground load, e.g. "load-tables".
	// Background ticks use Name + "/poll".
	Name string

	// Interval between background refreshes.
	Interval time.Duration

	Fetch  func(ctx context.Context) (T, error)
	Render func(T)
	View   StateKeeper

	// Controls are disabled while a foreground load runs.
	Controls []Control

	// Progress is told when a foreground load starts and ends.
	Progress func(loading bool)

	// Alert receives foreground failures. Background failures are only
	// logged.
	Alert func(err error)

	// Guard is shared across views so mutations and loads can be keyed
	// against each other. A private guard is created when nil.
	Guard *Guard

	// Tracker is created per controller when nil, and is then cleared on
	// Dispose.
	Tracker *Tracker

	UI      Dispatcher
	Clock   Clock
	Context context.Context
}

// Controller binds a view's data lifecycle to the navigation shell through
// Show and Dispose.
//
// The shell must call Show once per view entry and Dispose once per exit.
// Skipping Dispose leaves a timer running and is a leak, not a crash: every
// tick of an abandoned session still finds itself stale or is rendered into
// a view nobody looks at.
type Controller[T any] struct {
	cfg         ControllerConfig[T]
	ownsTracker bool
	gen         Generation
	order       RenderOrder

	mu       sync.Mutex
	active   bool
	session  *Session[T]
	deferred bool
}

// NewController creates a controller. Nothing runs until Show.
func NewController[T any](cfg ControllerConfig[T]) *Controller[T] {
	if cfg.UI == nil {
		cfg.UI = Inline{}
	}
	if cfg.Clock == nil {
		cfg.Clock = RealClock()
	}
	if cfg.Context == nil {
		cfg.Context = context.Background()
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Guard == nil {
		cfg.Guard = NewGuard(nil, cfg.UI)
	}
	c := &Controller[T]{cfg: cfg}
	if cfg.Tracker == nil {
		c.cfg.Tracker = NewTracker(cfg.UI)
		c.ownsTracker = true
	}
	return c
}

// Show activates the view: it starts a foreground load and a polling
// session. Showing an already shown view replaces its session, so there is
// never more than one timer per controller.
func (c *Controller[T]) Show() {
	c.mu.Lock()
	if c.session != nil {
		c.session.Dispose()
	}
	c.active = true
	c.deferred = false
	c.session = NewSession(&c.gen, SessionConfig[T]{
		Name:     c.cfg.Name,
		Interval: c.cfg.Interval,
		Fetch:    c.cfg.Fetch,
		Render:   c.cfg.Render,
		View:     c.cfg.View,
		Guard:    c.cfg.Guard,
		Order:    &c.order,
		UI:       c.cfg.UI,
		Clock:    c.cfg.Clock,
		Context:  c.cfg.Context,
	})
	token := c.session.Start()
	c.mu.Unlock()

	if err := c.foreground(token); errors.Is(err, ErrBusy) {
		// A load from a previous session still holds the key. It will be
		// dropped as stale; reload as soon as it completes.
		c.mu.Lock()
		if c.gen.Current() == token {
			c.deferred = true
		}
		c.mu.Unlock()
		logger.Debug("view %s: previous load still running, reload deferred", c.cfg.Name)
	}
}

// Refresh runs a foreground load now. It returns ErrBusy if one is already
// running and ErrInactive if the view is not shown.
func (c *Controller[T]) Refresh() error {
	c.mu.Lock()
	if !c.active || c.session == nil {
		c.mu.Unlock()
		return ErrInactive
	}
	token := c.session.Token()
	c.mu.Unlock()
	return c.foreground(token)
}

// Dispose deactivates the view and invalidates its session. It is
// idempotent and does nothing if Show was never called.
func (c *Controller[T]) Dispose() {
	c.mu.Lock()
	if !c.active && c.session == nil {
		c.mu.Unlock()
		return
	}
	c.active = false
	c.deferred = false
	if c.session != nil {
		c.session.Dispose()
		c.session = nil
	}
	c.mu.Unlock()

	if c.ownsTracker {
		c.cfg.Tracker.StopAll()
	}
	c.progress(false)
}

// Active reports whether the view is between Show and Dispose.
func (c *Controller[T]) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Generation returns the live generation token.
func (c *Controller[T]) Generation() uint64 {
	return c.gen.Current()
}

// Stats returns the counters of the current session, or zero values when
// the view is not shown.
func (c *Controller[T]) Stats() SessionStats {
	c.mu.Lock()
	s := c.session
	c.mu.Unlock()
	if s == nil {
		return SessionStats{}
	}
	return s.Stats()
}

// Tracker returns the tracker controlling this view's controls.
func (c *Controller[T]) Tracker() *Tracker {
	return c.cfg.Tracker
}

// SetInterval changes the polling interval. It takes effect on the next
// Show.
func (c *Controller[T]) SetInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	c.mu.Lock()
	c.cfg.Interval = d
	c.mu.Unlock()
}

// Interval returns the configured polling interval.
func (c *Controller[T]) Interval() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg.Interval
}

func (c *Controller[T]) current(token uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active && c.gen.Current() == token
}

func (c *Controller[T]) foreground(token uint64) error {
	name := c.cfg.Name
	stop, ok := c.cfg.Tracker.Begin(name, c.cfg.Controls...)
	if !ok {
		return ErrBusy
	}
	c.progress(true)

	// Only the completion that still owns the tracker registration may end
	// it; after Dispose and Show another load owns the op.
	finish := func() {
		if stop() {
			c.progress(false)
		}
	}

	var seq uint64
	fetch := func(ctx context.Context) (T, error) {
		seq = c.order.Issue()
		return c.cfg.Fetch(ctx)
	}

	err := Execute(c.cfg.Context, c.cfg.Guard, name, fetch,
		func(v T) {
			finish()
			if !c.current(token) {
				logger.Debug("view %s: dropped stale load gen=%d", name, token)
				c.resumeDeferred()
				return
			}
			if !renderPreserving(&c.order, seq, c.cfg.View, c.cfg.Render, v) {
				logger.Debug("view %s: dropped superseded load seq=%d", name, seq)
			}
		},
		func(err error) {
			finish()
			if !c.current(token) {
				c.resumeDeferred()
				return
			}
			logger.Warn("view %s: load failed: %v", name, err)
			if c.cfg.Alert != nil {
				c.cfg.Alert(err)
			}
		},
	)
	if err != nil {
		finish()
		return err
	}
	return nil
}

// resumeDeferred starts the load a Show had to skip because a stale load
// held the key.
func (c *Controller[T]) resumeDeferred() {
	c.mu.Lock()
	if !c.deferred || !c.active || c.session == nil {
		c.mu.Unlock()
		return
	}
	c.deferred = false
	token := c.session.Token()
	c.mu.Unlock()

	if err := c.foreground(token); err != nil {
		logger.Debug("view %s: deferred reload not started: %v", c.cfg.Name, err)
	}
}

func (c *Controller[T]) progress(loading bool) {
	if c.cfg.Progress == nil {
		return
	}
	c.cfg.UI.Dispatch(func() { c.cfg.Progress(loading) })
}
