package coordination

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/custodia-labs/bistro-cli/internal/logger"
)

// DefaultInterval is the polling interval used when none is configured.
const DefaultInterval = 15 * time.Second

// State is the lifecycle state of a Session.
type State int

const (
	// StateCreated is a session that has not been started.
	StateCreated State = iota
	// StateActive is a session whose timer is armed.
	StateActive
	// StateDisposed is terminal.
	StateDisposed
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateActive:
		return "active"
	case StateDisposed:
		return "disposed"
	default:
		return "unknown"
	}
}

// Generation is a monotonically increasing token shared by every session of
// one view. Starting a session advances it; disposing the current session
// advances it again. A completion is honoured only if the value it captured
// still equals Current.
type Generation struct {
	v atomic.Uint64
}

// Current returns the live generation.
func (g *Generation) Current() uint64 {
	return g.v.Load()
}

func (g *Generation) advance() uint64 {
	return g.v.Add(1)
}

// invalidate advances the generation only if token is still current, so a
// late Dispose of a replaced session cannot invalidate its successor.
func (g *Generation) invalidate(token uint64) {
	g.v.CompareAndSwap(token, token+1)
}

// RenderOrder numbers fetches in the order they start and admits a result
// only if no later-started fetch has rendered already. One view shares a
// RenderOrder between its polling ticks and foreground loads, which run
// under different guard keys and can overlap. The zero value is ready.
type RenderOrder struct {
	mu      sync.Mutex
	issued  uint64
	applied uint64
}

// Issue returns the sequence number of a fetch that is starting now.
func (o *RenderOrder) Issue() uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.issued++
	return o.issued
}

// Admit reports whether the result of fetch seq may be rendered, and if so
// records it as the newest rendered result.
func (o *RenderOrder) Admit(seq uint64) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if seq <= o.applied {
		return false
	}
	o.applied = seq
	return true
}

// StateKeeper is implemented by views that have user-visible state, such as
// a cursor or scroll offset, that must survive a re-render.
type StateKeeper interface {
	CaptureViewState() any
	RestoreViewState(state any)
}

// SessionConfig configures a Session.
type SessionConfig[T any] struct {
	// Name identifies the view in logs and guard keys.
	Name string

	// Interval between ticks. Defaults to DefaultInterval.
	Interval time.Duration

	// Fetch loads the view's data. It runs on the guard's executor.
	Fetch func(ctx context.Context) (T, error)

	// Render applies data to the view. It runs on UI.
	Render func(T)

	// View, if set, has its state captured before and restored after Render.
	View StateKeeper

	// Guard serialises tick fetches so a slow backend never stacks them.
	Guard *Guard

	// Order keeps an older result from replacing a newer one. A private
	// one is used when nil.
	Order *RenderOrder

	UI      Dispatcher
	Clock   Clock
	Context context.Context
}

// SessionStats counts what a session has done. Useful in tests and logs.
type SessionStats struct {
	Ticks    int64
	Fetches  int64
	Renders  int64
	Dropped  int64
	Failures int64
	Skipped  int64
}

// Session is a recurring fetch-and-render loop bound to a view's visible
// lifetime. A Session is single use: Created → Active → Disposed.
//
// The timer is not guaranteed to stop the instant Dispose returns, so every
// tick re-checks that the session is still active and current before doing
// any work, and every completion re-checks its generation before rendering.
type Session[T any] struct {
	cfg SessionConfig[T]
	gen *Generation

	mu     sync.Mutex
	state  State
	token  uint64
	active bool
	timer  Timer

	ticks, fetches, renders, dropped, failures, skipped atomic.Int64
}

// NewSession creates a session in the Created state. gen is owned by the
// view and outlives individual sessions.
func NewSession[T any](gen *Generation, cfg SessionConfig[T]) *Session[T] {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.UI == nil {
		cfg.UI = Inline{}
	}
	if cfg.Clock == nil {
		cfg.Clock = RealClock()
	}
	if cfg.Guard == nil {
		cfg.Guard = NewGuard(nil, cfg.UI)
	}
	if cfg.Context == nil {
		cfg.Context = context.Background()
	}
	if cfg.Order == nil {
		cfg.Order = &RenderOrder{}
	}
	return &Session[T]{cfg: cfg, gen: gen}
}

// Start advances the generation, marks the session active and arms the
// timer. It returns the session's generation token. Calling Start on a
// session that is not in the Created state returns its existing token and
// does nothing else.
func (s *Session[T]) Start() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateCreated {
		return s.token
	}
	s.token = s.gen.advance()
	s.active = true
	s.state = StateActive
	s.arm()
	logger.Debug("poll %s: started gen=%d interval=%s", s.cfg.Name, s.token, s.cfg.Interval)
	return s.token
}

// Dispose invalidates the session. It is idempotent and safe on a session
// that was never started.
func (s *Session[T]) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateDisposed {
		return
	}
	wasStarted := s.state == StateActive
	s.state = StateDisposed
	s.active = false
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if wasStarted {
		s.gen.invalidate(s.token)
		logger.Debug("poll %s: disposed gen=%d", s.cfg.Name, s.token)
	}
}

// Token returns the generation captured when the session started, or zero.
func (s *Session[T]) Token() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// State returns the lifecycle state.
func (s *Session[T]) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Interval returns the tick interval.
func (s *Session[T]) Interval() time.Duration {
	return s.cfg.Interval
}

// IsCurrent reports whether a completion captured under token may still be
// applied.
func (s *Session[T]) IsCurrent(token uint64) bool {
	s.mu.Lock()
	active := s.active
	s.mu.Unlock()
	return active && s.gen.Current() == token
}

// Stats returns a snapshot of the session counters.
func (s *Session[T]) Stats() SessionStats {
	return SessionStats{
		Ticks:    s.ticks.Load(),
		Fetches:  s.fetches.Load(),
		Renders:  s.renders.Load(),
		Dropped:  s.dropped.Load(),
		Failures: s.failures.Load(),
		Skipped:  s.skipped.Load(),
	}
}

// arm schedules the next tick. Caller holds s.mu.
func (s *Session[T]) arm() {
	s.timer = s.cfg.Clock.AfterFunc(s.cfg.Interval, s.tick)
}

func (s *Session[T]) tick() {
	s.mu.Lock()
	if !s.active || s.gen.Current() != s.token {
		// Missed cancellation; make sure the loop ends here.
		if s.timer != nil {
			s.timer.Stop()
			s.timer = nil
		}
		s.active = false
		s.mu.Unlock()
		logger.Debug("poll %s: tick after dispose ignored", s.cfg.Name)
		return
	}
	token := s.token
	s.arm()
	s.mu.Unlock()

	s.ticks.Add(1)
	s.fetch(token)
}

// fetch is the two-stage continuation: Fetch on the executor, then render
// on the UI dispatcher, with a generation check at the boundary and again
// just before rendering.
func (s *Session[T]) fetch(token uint64) {
	key := s.cfg.Name + "/poll"
	var seq uint64
	err := Execute(s.cfg.Context, s.cfg.Guard, key,
		func(ctx context.Context) (T, error) {
			s.fetches.Add(1)
			seq = s.cfg.Order.Issue()
			v, err := s.cfg.Fetch(ctx)
			if !s.IsCurrent(token) {
				var zero T
				return zero, errStale
			}
			return v, err
		},
		func(v T) {
			s.apply(token, seq, v)
		},
		func(err error) {
			if errors.Is(err, errStale) || !s.IsCurrent(token) {
				s.dropped.Add(1)
				logger.Debug("poll %s: dropped stale result gen=%d", s.cfg.Name, token)
				return
			}
			s.failures.Add(1)
			logger.Warn("poll %s: fetch failed, retrying next tick: %v", s.cfg.Name, err)
		},
	)
	if errors.Is(err, ErrBusy) {
		s.skipped.Add(1)
		logger.Debug("poll %s: previous fetch still running, tick skipped", s.cfg.Name)
	}
}

// apply renders v if token is still current. Runs on the UI context.
func (s *Session[T]) apply(token, seq uint64, v T) {
	if !s.IsCurrent(token) {
		s.dropped.Add(1)
		logger.Debug("poll %s: dropped stale result gen=%d", s.cfg.Name, token)
		return
	}
	if !renderPreserving(s.cfg.Order, seq, s.cfg.View, s.cfg.Render, v) {
		s.dropped.Add(1)
		logger.Debug("poll %s: dropped superseded result seq=%d", s.cfg.Name, seq)
		return
	}
	s.renders.Add(1)
}

// renderPreserving calls render between a capture and restore of the view's
// user-visible state. It returns false without rendering when a fetch that
// started after seq has already rendered.
func renderPreserving[T any](order *RenderOrder, seq uint64, view StateKeeper, render func(T), v T) bool {
	if !order.Admit(seq) {
		return false
	}
	if render == nil {
		return true
	}
	if view == nil {
		render(v)
		return true
	}
	state := view.CaptureViewState()
	render(v)
	view.RestoreViewState(state)
	return true
}
