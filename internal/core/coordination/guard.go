package coordination

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/bistro-cli/internal/logger"
)

// Guard enforces at most one concurrent execution per operation key.
//
// A Guard is shared by everything that must not overlap: the foreground load
// of a view, its manual refresh, and mutations keyed per entity
// (for example "close-table:t4"). All methods are safe for concurrent use.
type Guard struct {
	mu   sync.Mutex
	held map[string]struct{}

	exec Executor
	ui   Dispatcher
}

// NewGuard creates a guard that runs operations on exec and delivers
// completion callbacks through ui. Nil arguments fall back to Goroutines and
// Inline.
func NewGuard(exec Executor, ui Dispatcher) *Guard {
	if exec == nil {
		exec = Goroutines{}
	}
	if ui == nil {
		ui = Inline{}
	}
	return &Guard{
		held: make(map[string]struct{}),
		exec: exec,
		ui:   ui,
	}
}

// Acquire registers key and returns true, or returns false if key is
// already registered.
func (g *Guard) Acquire(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.held[key]; ok {
		return false
	}
	g.held[key] = struct{}{}
	return true
}

// Release unregisters key. Releasing a key that is not held is a no-op.
func (g *Guard) Release(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.held, key)
}

// ForceRelease unregisters key regardless of who holds it. It exists to
// recover from a guard that looks stuck.
//
// After a normal Release it is a harmless no-op. If the operation that
// acquired key is still running, the behavior is undefined: a second
// execution may start and overlap the first, and the first will later
// Release a key it no longer owns. Nothing here tries to detect or repair
// that case.
func (g *Guard) ForceRelease(key string) {
	g.mu.Lock()
	_, wasHeld := g.held[key]
	delete(g.held, key)
	g.mu.Unlock()
	if wasHeld {
		logger.Warn("guard: force-released %q", key)
	}
}

// Held reports whether key is currently registered.
func (g *Guard) Held(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.held[key]
	return ok
}

// InFlight returns the registered keys in sorted order.
func (g *Guard) InFlight() []string {
	g.mu.Lock()
	keys := make([]string, 0, len(g.held))
	for k := range g.held {
		keys = append(keys, k)
	}
	g.mu.Unlock()
	sort.Strings(keys)
	return keys
}

// Execute runs op under key.
//
// If key is already held, Execute returns ErrBusy without starting op.
// Otherwise op runs on the guard's executor and Execute returns nil at once.
// The key is released when op returns, including when it panics, and
// before onSuccess or onError is dispatched. A panic is reported to onError
// as a *PanicError. Either callback may be nil.
func Execute[T any](
	ctx context.Context,
	g *Guard,
	key string,
	op func(ctx context.Context) (T, error),
	onSuccess func(T),
	onError func(error),
) error {
	if !g.Acquire(key) {
		return ErrBusy
	}

	g.exec.Go(func() {
		result, err := runReleased(ctx, g, key, op)
		if err != nil {
			if onError != nil {
				g.ui.Dispatch(func() { onError(err) })
			}
			return
		}
		if onSuccess != nil {
			g.ui.Dispatch(func() { onSuccess(result) })
		}
	})
	return nil
}

// Run is Execute for operations that produce no value. onDone receives nil
// on success.
func (g *Guard) Run(
	ctx context.Context,
	key string,
	op func(ctx context.Context) error,
	onDone func(error),
) error {
	return Execute(ctx, g, key,
		func(ctx context.Context) (struct{}, error) {
			return struct{}{}, op(ctx)
		},
		func(struct{}) {
			if onDone != nil {
				onDone(nil)
			}
		},
		onDone,
	)
}

// runReleased calls op and releases key on every exit path.
func runReleased[T any](
	ctx context.Context,
	g *Guard,
	key string,
	op func(ctx context.Context) (T, error),
) (result T, err error) {
	defer g.Release(key)
	defer func() {
		if r := recover(); r != nil {
			logger.Error("guard: operation %q panicked: %v", key, r)
			err = &PanicError{Key: key, Value: r}
		}
	}()
	return op(ctx)
}
