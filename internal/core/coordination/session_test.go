package coordination_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/bistro-cli/internal/core/coordination"
	"github.com/custodia-labs/bistro-cli/internal/core/coordination/coordtest"
)

// fixture drives sessions and controllers with a fake clock, a manual
// executor and a queued UI context.
type fixture struct {
	clock *coordtest.FakeClock
	exec  *coordtest.ManualExecutor
	ui    *coordtest.Queue
	guard *coordination.Guard

	mu       sync.Mutex
	calls    int
	rendered []int
	fail     error
}

func newFixture() *fixture {
	exec := &coordtest.ManualExecutor{}
	ui := &coordtest.Queue{}
	return &fixture{
		clock: coordtest.NewFakeClock(),
		exec:  exec,
		ui:    ui,
		guard: coordination.NewGuard(exec, ui),
	}
}

func (f *fixture) fetch(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.fail != nil {
		return 0, f.fail
	}
	return f.calls, nil
}

func (f *fixture) render(v int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rendered = append(f.rendered, v)
}

func (f *fixture) setFail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail = err
}

func (f *fixture) fetchCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fixture) renders() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]int, len(f.rendered))
	copy(out, f.rendered)
	return out
}

// settle runs background work and UI callbacks until both are idle.
func (f *fixture) settle() {
	for f.exec.RunAll()+f.ui.Drain() > 0 {
	}
}

func (f *fixture) session(gen *coordination.Generation) *coordination.Session[int] {
	return coordination.NewSession(gen, coordination.SessionConfig[int]{
		Name:     "tables",
		Interval: 15 * time.Second,
		Fetch:    f.fetch,
		Render:   f.render,
		Guard:    f.guard,
		UI:       f.ui,
		Clock:    f.clock,
	})
}

func TestSession_Lifecycle(t *testing.T) {
	f := newFixture()
	var gen coordination.Generation
	s := f.session(&gen)

	assert.Equal(t, coordination.StateCreated, s.State())
	assert.Equal(t, uint64(0), s.Token())

	token := s.Start()
	assert.Equal(t, coordination.StateActive, s.State())
	assert.Equal(t, token, gen.Current())
	assert.True(t, s.IsCurrent(token))
	assert.Equal(t, 1, f.clock.Pending())

	s.Dispose()
	assert.Equal(t, coordination.StateDisposed, s.State())
	assert.False(t, s.IsCurrent(token))
	assert.NotEqual(t, token, gen.Current())
	assert.Equal(t, 0, f.clock.Pending())
}

func TestSession_StartTwiceReturnsSameToken(t *testing.T) {
	f := newFixture()
	var gen coordination.Generation
	s := f.session(&gen)

	first := s.Start()
	second := s.Start()

	assert.Equal(t, first, second)
	assert.Equal(t, 1, f.clock.Pending())
}

func TestSession_DisposeIsIdempotent(t *testing.T) {
	f := newFixture()
	var gen coordination.Generation
	s := f.session(&gen)
	s.Start()

	s.Dispose()
	after := gen.Current()
	s.Dispose()

	assert.Equal(t, after, gen.Current())
}

func TestSession_DisposeWithoutStart(t *testing.T) {
	f := newFixture()
	var gen coordination.Generation
	s := f.session(&gen)

	assert.NotPanics(t, s.Dispose)
	assert.Equal(t, uint64(0), gen.Current())
	assert.Equal(t, coordination.StateDisposed, s.State())

	// A disposed session cannot be restarted.
	s.Start()
	assert.Equal(t, coordination.StateDisposed, s.State())
	assert.Equal(t, 0, f.clock.Pending())
}

func TestSession_LateDisposeDoesNotInvalidateSuccessor(t *testing.T) {
	f := newFixture()
	var gen coordination.Generation
	old := f.session(&gen)
	old.Start()

	next := f.session(&gen)
	token := next.Start()
	old.Dispose()

	assert.True(t, next.IsCurrent(token))
}

func TestSession_TicksAtFixedCadence(t *testing.T) {
	f := newFixture()
	var gen coordination.Generation
	s := f.session(&gen)
	s.Start()

	for sec := 1; sec <= 45; sec++ {
		f.clock.AdvanceTo(time.Duration(sec) * time.Second)
		f.settle()
	}

	assert.Equal(t, []int{1, 2, 3}, f.renders())
	stats := s.Stats()
	assert.Equal(t, int64(3), stats.Ticks)
	assert.Equal(t, int64(3), stats.Fetches)
	assert.Equal(t, int64(3), stats.Renders)
	assert.Equal(t, 1, f.clock.Pending())
}

func TestSession_DisposeBetweenTickAndResolve(t *testing.T) {
	f := newFixture()
	var gen coordination.Generation
	s := f.session(&gen)
	s.Start()

	f.clock.AdvanceTo(15 * time.Second)
	require.Equal(t, 1, f.exec.Pending(), "tick queued its fetch")

	s.Dispose()
	f.settle()

	assert.Empty(t, f.renders())
	assert.Equal(t, int64(1), s.Stats().Dropped)
}

func TestSession_DisposeBetweenResolveAndRender(t *testing.T) {
	f := newFixture()
	var gen coordination.Generation
	s := f.session(&gen)
	s.Start()

	f.clock.AdvanceTo(15 * time.Second)
	f.exec.RunAll()
	require.Equal(t, 1, f.ui.Len(), "render is waiting on the UI context")

	s.Dispose()
	f.ui.Drain()

	assert.Empty(t, f.renders())
	assert.Equal(t, int64(1), s.Stats().Dropped)
}

func TestSession_FailureRetriesOnNextTick(t *testing.T) {
	f := newFixture()
	var gen coordination.Generation
	s := f.session(&gen)
	s.Start()

	f.setFail(errors.New("connection refused"))
	f.clock.AdvanceTo(15 * time.Second)
	f.settle()
	assert.Empty(t, f.renders())
	assert.Equal(t, int64(1), s.Stats().Failures)

	f.setFail(nil)
	f.clock.AdvanceTo(30 * time.Second)
	f.settle()
	assert.Equal(t, []int{2}, f.renders())
	assert.Equal(t, coordination.StateActive, s.State())
}

func TestSession_SlowFetchSkipsOverlappingTick(t *testing.T) {
	f := newFixture()
	var gen coordination.Generation
	s := f.session(&gen)
	s.Start()

	f.clock.AdvanceTo(15 * time.Second)
	f.clock.AdvanceTo(30 * time.Second)

	assert.Equal(t, 1, f.exec.Pending())
	assert.Equal(t, int64(2), s.Stats().Ticks)
	assert.Equal(t, int64(1), s.Stats().Skipped)

	f.settle()
	assert.Equal(t, []int{1}, f.renders())
}

// leakyClock hands out timers whose Stop never takes effect, which models a
// cancellation that arrives after the timer already fired.
type leakyClock struct {
	*coordtest.FakeClock
}

type leakyTimer struct{}

func (leakyTimer) Stop() bool { return false }

func (c leakyClock) AfterFunc(d time.Duration, fn func()) coordination.Timer {
	c.FakeClock.AfterFunc(d, fn)
	return leakyTimer{}
}

func TestSession_TickAfterMissedCancellationIsIgnored(t *testing.T) {
	f := newFixture()
	clock := leakyClock{f.clock}
	var gen coordination.Generation
	s := coordination.NewSession(&gen, coordination.SessionConfig[int]{
		Name:     "tables",
		Interval: 15 * time.Second,
		Fetch:    f.fetch,
		Render:   f.render,
		Guard:    f.guard,
		UI:       f.ui,
		Clock:    clock,
	})
	s.Start()
	s.Dispose()

	f.clock.AdvanceTo(60 * time.Second)
	f.settle()

	assert.Equal(t, 0, f.fetchCalls())
	assert.Equal(t, 0, f.clock.Pending(), "a stray tick does not re-arm")
}

type cursorView struct {
	cursor   int
	restored []any
}

func (v *cursorView) CaptureViewState() any { return v.cursor }

func (v *cursorView) RestoreViewState(state any) {
	v.restored = append(v.restored, state)
	if c, ok := state.(int); ok {
		v.cursor = c
	}
}

func TestSession_RenderPreservesViewState(t *testing.T) {
	f := newFixture()
	view := &cursorView{cursor: 3}
	var gen coordination.Generation
	s := coordination.NewSession(&gen, coordination.SessionConfig[int]{
		Name:     "tables",
		Interval: 15 * time.Second,
		Fetch:    f.fetch,
		Render: func(int) {
			view.cursor = 0
		},
		View:  view,
		Guard: f.guard,
		UI:    f.ui,
		Clock: f.clock,
	})
	s.Start()

	f.clock.AdvanceTo(15 * time.Second)
	f.settle()

	assert.Equal(t, 3, view.cursor)
	assert.Equal(t, []any{3}, view.restored)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "created", coordination.StateCreated.String())
	assert.Equal(t, "active", coordination.StateActive.String())
	assert.Equal(t, "disposed", coordination.StateDisposed.String())
	assert.Equal(t, "unknown", coordination.State(42).String())
}
