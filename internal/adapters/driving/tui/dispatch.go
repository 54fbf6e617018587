package tui

import "sync"

// UIQueue is the coordination.Dispatcher of the TUI. Callbacks from
// background work are queued and run by the App inside Update, so view
// state is only touched from the Bubbletea goroutine.
type UIQueue struct {
	mu        sync.Mutex
	pending   []func()
	signalled bool
	notify    func()
}

// NewUIQueue creates an empty queue.
func NewUIQueue() *UIQueue {
	return &UIQueue{}
}

// SetNotify sets the function called when work is queued on an empty
// queue. It must not block; the App sends a messages.Drain from it.
func (q *UIQueue) SetNotify(fn func()) {
	q.mu.Lock()
	q.notify = fn
	q.mu.Unlock()
}

// Dispatch queues fn. Consecutive dispatches before the next Drain notify
// only once.
func (q *UIQueue) Dispatch(fn func()) {
	q.mu.Lock()
	q.pending = append(q.pending, fn)
	notify := q.notify
	signal := notify != nil && !q.signalled
	if signal {
		q.signalled = true
	}
	q.mu.Unlock()

	if signal {
		notify()
	}
}

// Drain runs queued callbacks in order, including any they queue, and
// returns how many ran.
func (q *UIQueue) Drain() int {
	n := 0
	for {
		q.mu.Lock()
		batch := q.pending
		q.pending = nil
		q.signalled = false
		q.mu.Unlock()

		if len(batch) == 0 {
			return n
		}
		for _, fn := range batch {
			fn()
		}
		n += len(batch)
	}
}

// Len returns the number of queued callbacks.
func (q *UIQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
