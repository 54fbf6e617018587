// Package viewkit holds what the data views share: the coordination
// environment, list cursor handling and guarded mutations.
package viewkit

import (
	"context"
	"time"

	"github.com/custodia-labs/bistro-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/bistro-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/bistro-cli/internal/core/coordination"
)

// Env is the coordination environment a data view runs in. The Guard is
// shared by every view so a mutation started in one view is visible to
// the others.
type Env struct {
	Guard    *coordination.Guard
	UI       coordination.Dispatcher
	Clock    coordination.Clock
	Interval time.Duration
	Context  context.Context
	Styles   *styles.Styles
	Keys     *keymap.KeyMap
}

// WithDefaults fills unset fields.
func (e Env) WithDefaults() Env {
	if e.UI == nil {
		e.UI = coordination.Inline{}
	}
	if e.Guard == nil {
		e.Guard = coordination.NewGuard(nil, e.UI)
	}
	if e.Clock == nil {
		e.Clock = coordination.RealClock()
	}
	if e.Interval <= 0 {
		e.Interval = coordination.DefaultInterval
	}
	if e.Context == nil {
		e.Context = context.Background()
	}
	if e.Styles == nil {
		e.Styles = styles.DefaultStyles()
	}
	if e.Keys == nil {
		e.Keys = keymap.DefaultKeyMap()
	}
	return e
}

// Mutate runs op under key through the shared guard. control stays
// disabled on tr until op finishes; done is then called on the UI
// goroutine with the result.
//
// It returns coordination.ErrBusy without running op if key is already in
// flight, in this view or any other.
func Mutate[T any](
	env Env,
	tr *coordination.Tracker,
	key string,
	control coordination.Control,
	op func(ctx context.Context) (T, error),
	done func(T, error),
) error {
	stop, ok := tr.Begin(key, control)
	if !ok {
		return coordination.ErrBusy
	}
	// stop is bound to this registration, so a completion delivered after
	// StopAll cannot end a later mutation of the same key.
	err := coordination.Execute(env.Context, env.Guard, key, op,
		func(v T) {
			stop()
			done(v, nil)
		},
		func(err error) {
			stop()
			var zero T
			done(zero, err)
		},
	)
	if err != nil {
		stop()
		return err
	}
	return nil
}

// Cursor tracks the selected row of a list by the ID of the item under it,
// so that a refresh that reorders or resizes the list keeps the selection on
// the same item where possible.
type Cursor struct {
	index int
	id    string
}

// Index returns the selected row.
func (c *Cursor) Index() int {
	return c.index
}

// ID returns the ID of the selected item as of the last Sync or Move.
func (c *Cursor) ID() string {
	return c.id
}

// Move shifts the selection by delta within ids.
func (c *Cursor) Move(delta int, ids []string) {
	if len(ids) == 0 {
		c.index, c.id = 0, ""
		return
	}
	c.index += delta
	if c.index < 0 {
		c.index = 0
	}
	if c.index >= len(ids) {
		c.index = len(ids) - 1
	}
	c.id = ids[c.index]
}

// Sync re-resolves the selection against ids, preferring the remembered ID
// and falling back to the nearest valid row.
func (c *Cursor) Sync(ids []string) {
	for i, id := range ids {
		if id == c.id && c.id != "" {
			c.index = i
			return
		}
	}
	c.Move(0, ids)
}

// CursorState is what a view captures before a background render.
type CursorState struct {
	Index int
	ID    string
}

// Capture returns the current selection.
func (c *Cursor) Capture() any {
	return CursorState{Index: c.index, ID: c.id}
}

// Restore re-applies a captured selection. ids are the rows after the
// render.
func (c *Cursor) Restore(state any, ids []string) {
	s, ok := state.(CursorState)
	if !ok {
		return
	}
	c.index, c.id = s.Index, s.ID
	c.Sync(ids)
}
