// Package coordtest provides deterministic stand-ins for the execution
// contexts used by package coordination: a manual clock, a manual executor
// for background work and a queue that plays the UI-owning context.
package coordtest

import (
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/bistro-cli/internal/core/coordination"
)

// Epoch is the default start time of a FakeClock.
var Epoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// FakeClock is a coordination.Clock that only moves when told to.
type FakeClock struct {
	mu     sync.Mutex
	now    time.Time
	seq    int
	timers []*fakeTimer
}

var _ coordination.Clock = (*FakeClock)(nil)

// NewFakeClock creates a clock set to Epoch.
func NewFakeClock() *FakeClock {
	return &FakeClock{now: Epoch}
}

// Now returns the clock's current time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Elapsed returns the time since Epoch.
func (c *FakeClock) Elapsed() time.Duration {
	return c.Now().Sub(Epoch)
}

// AfterFunc schedules fn to run when the clock reaches now+d.
func (c *FakeClock) AfterFunc(d time.Duration, fn func()) coordination.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	t := &fakeTimer{clock: c, at: c.now.Add(d), fn: fn, seq: c.seq}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves the clock forward by d, firing due timers in deadline
// order. Timers run on the calling goroutine with the clock unlocked, and a
// timer armed by a firing timer fires too if it falls within the window.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		next := c.nextDue(target)
		if next == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		c.now = next.at
		next.fired = true
		c.mu.Unlock()

		next.fn()
	}
}

// AdvanceTo moves the clock to Epoch+elapsed. Moving backwards is a no-op.
func (c *FakeClock) AdvanceTo(elapsed time.Duration) {
	if d := Epoch.Add(elapsed).Sub(c.Now()); d > 0 {
		c.Advance(d)
	}
}

// Pending returns the number of timers that have neither fired nor been
// stopped.
func (c *FakeClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.fired && !t.stopped {
			n++
		}
	}
	return n
}

// nextDue returns the earliest live timer at or before target. Caller holds
// c.mu.
func (c *FakeClock) nextDue(target time.Time) *fakeTimer {
	live := c.timers[:0]
	for _, t := range c.timers {
		if !t.fired && !t.stopped {
			live = append(live, t)
		}
	}
	c.timers = live
	sort.SliceStable(c.timers, func(i, j int) bool {
		if c.timers[i].at.Equal(c.timers[j].at) {
			return c.timers[i].seq < c.timers[j].seq
		}
		return c.timers[i].at.Before(c.timers[j].at)
	})
	if len(c.timers) == 0 || c.timers[0].at.After(target) {
		return nil
	}
	return c.timers[0]
}

type fakeTimer struct {
	clock   *FakeClock
	at      time.Time
	fn      func()
	seq     int
	fired   bool
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// ManualExecutor is a coordination.Executor that holds tasks until the test
// runs them, which lets a test decide exactly when a fetch "resolves".
type ManualExecutor struct {
	mu    sync.Mutex
	tasks []func()
}

var _ coordination.Executor = (*ManualExecutor)(nil)

// Go queues fn.
func (e *ManualExecutor) Go(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tasks = append(e.tasks, fn)
}

// Pending returns the number of queued tasks.
func (e *ManualExecutor) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.tasks)
}

// RunNext runs the oldest queued task. It returns false if none is queued.
func (e *ManualExecutor) RunNext() bool {
	e.mu.Lock()
	if len(e.tasks) == 0 {
		e.mu.Unlock()
		return false
	}
	fn := e.tasks[0]
	e.tasks = e.tasks[1:]
	e.mu.Unlock()

	fn()
	return true
}

// RunAll runs tasks until the queue is empty, including tasks queued while
// running. It returns how many ran.
func (e *ManualExecutor) RunAll() int {
	n := 0
	for e.RunNext() {
		n++
	}
	return n
}

// Queue is a coordination.Dispatcher that plays the UI-owning context:
// dispatched functions wait until the test drains them on its own
// goroutine.
type Queue struct {
	mu  sync.Mutex
	fns []func()
}

var _ coordination.Dispatcher = (*Queue)(nil)

// Dispatch queues fn.
func (q *Queue) Dispatch(fn func()) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.fns = append(q.fns, fn)
}

// Len returns the number of queued functions.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.fns)
}

// Drain runs queued functions in order until none are left and returns how
// many ran.
func (q *Queue) Drain() int {
	n := 0
	for {
		q.mu.Lock()
		if len(q.fns) == 0 {
			q.mu.Unlock()
			return n
		}
		fn := q.fns[0]
		q.fns = q.fns[1:]
		q.mu.Unlock()

		fn()
		n++
	}
}

// Control is a coordination.Control that records every change.
type Control struct {
	Name string

	mu      sync.Mutex
	enabled bool
	history []bool
}

var _ coordination.Control = (*Control)(nil)

// NewControl creates an enabled control.
func NewControl(name string) *Control {
	return &Control{Name: name, enabled: true}
}

// SetEnabled records the new state.
func (c *Control) SetEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enabled = enabled
	c.history = append(c.history, enabled)
}

// Enabled returns the last state set.
func (c *Control) Enabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabled
}

// History returns every state set, oldest first.
func (c *Control) History() []bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]bool, len(c.history))
	copy(out, c.history)
	return out
}
