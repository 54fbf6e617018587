package coordination

import (
	"sort"
	"sync"
)

// Control is a UI element that is disabled while operations that reference
// it are running. Implementations are used as map keys, so they must be
// comparable; pointer receivers are the normal choice.
//
// SetEnabled is only ever called on the UI-owning context.
type Control interface {
	SetEnabled(enabled bool)
}

// Tracker records which operations are active and keeps a reference count
// per control. A control is disabled while its count is above zero.
//
// Counts are mutated under a mutex from any goroutine; the resulting
// SetEnabled calls are always routed through the Dispatcher.
type Tracker struct {
	ui Dispatcher

	mu      sync.Mutex
	seq     uint64
	active  map[string]registration
	refs    map[Control]int
	tracked map[Control]struct{}
}

// registration is one Start of an op. id distinguishes it from a later
// registration of the same op after StopAll or Stop.
type registration struct {
	id       uint64
	controls []Control
}

// NewTracker creates a tracker that applies control changes through ui.
// A nil ui applies them inline.
func NewTracker(ui Dispatcher) *Tracker {
	if ui == nil {
		ui = Inline{}
	}
	return &Tracker{
		ui:      ui,
		active:  make(map[string]registration),
		refs:    make(map[Control]int),
		tracked: make(map[Control]struct{}),
	}
}

// Start marks op as active and disables controls. It returns false and
// changes nothing if op is already active. A control listed twice counts
// once.
func (t *Tracker) Start(op string, controls ...Control) bool {
	_, ok := t.Begin(op, controls...)
	return ok
}

// Begin is Start returning a stop func bound to this registration. stop
// ends the op only while this registration is still the active one; after
// StopAll, or once the op was stopped and started again, it does nothing
// and returns false.
func (t *Tracker) Begin(op string, controls ...Control) (stop func() bool, ok bool) {
	t.mu.Lock()
	if _, busy := t.active[op]; busy {
		t.mu.Unlock()
		return func() bool { return false }, false
	}

	unique := make([]Control, 0, len(controls))
	seen := make(map[Control]struct{}, len(controls))
	for _, c := range controls {
		if c == nil {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		unique = append(unique, c)
	}
	t.seq++
	id := t.seq
	t.active[op] = registration{id: id, controls: unique}

	var changed []Control
	for _, c := range unique {
		t.tracked[c] = struct{}{}
		t.refs[c]++
		if t.refs[c] == 1 {
			changed = append(changed, c)
		}
	}
	t.mu.Unlock()

	t.reconcile(changed)
	return func() bool { return t.end(op, id) }, true
}

// Stop marks op as finished and re-enables controls no other active
// operation references. Stopping an unknown op is a no-op.
func (t *Tracker) Stop(op string) {
	t.end(op, 0)
}

// end removes op's registration if its id matches, or unconditionally
// when id is zero.
func (t *Tracker) end(op string, id uint64) bool {
	t.mu.Lock()
	reg, ok := t.active[op]
	if !ok || (id != 0 && reg.id != id) {
		t.mu.Unlock()
		return false
	}
	delete(t.active, op)

	var changed []Control
	for _, c := range reg.controls {
		t.refs[c]--
		if t.refs[c] <= 0 {
			delete(t.refs, c)
			changed = append(changed, c)
		}
	}
	t.mu.Unlock()

	t.reconcile(changed)
	return true
}

// StopAll clears every active operation and enables every control the
// tracker has seen. Used on error recovery and view teardown.
func (t *Tracker) StopAll() {
	t.mu.Lock()
	changed := make([]Control, 0, len(t.tracked))
	for c := range t.tracked {
		changed = append(changed, c)
	}
	t.active = make(map[string]registration)
	t.refs = make(map[Control]int)
	t.tracked = make(map[Control]struct{})
	t.mu.Unlock()

	t.reconcile(changed)
}

// IsActive reports whether op has been started and not stopped.
func (t *Tracker) IsActive(op string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.active[op]
	return ok
}

// Disabled reports whether any active operation references c.
func (t *Tracker) Disabled(c Control) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.refs[c] > 0
}

// Active returns the active operation ids in sorted order.
func (t *Tracker) Active() []string {
	t.mu.Lock()
	ops := make([]string, 0, len(t.active))
	for op := range t.active {
		ops = append(ops, op)
	}
	t.mu.Unlock()
	sort.Strings(ops)
	return ops
}

// reconcile schedules each control to be set to its current state. The
// state is read when the dispatched call runs, not when it is queued, so
// calls queued out of order by racing goroutines still converge on the
// latest count. Must be called without t.mu held.
func (t *Tracker) reconcile(controls []Control) {
	for _, c := range controls {
		t.ui.Dispatch(func() {
			t.mu.Lock()
			enabled := t.refs[c] == 0
			t.mu.Unlock()
			c.SetEnabled(enabled)
		})
	}
}
