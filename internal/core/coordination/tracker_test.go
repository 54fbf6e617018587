package coordination_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/bistro-cli/internal/core/coordination"
	"github.com/custodia-labs/bistro-cli/internal/core/coordination/coordtest"
)

func TestTracker_StartDisablesControls(t *testing.T) {
	tr := coordination.NewTracker(nil)
	refresh := coordtest.NewControl("refresh")
	table := coordtest.NewControl("table")

	ok := tr.Start("load-tables", refresh, table)

	assert.True(t, ok)
	assert.True(t, tr.IsActive("load-tables"))
	assert.False(t, refresh.Enabled())
	assert.False(t, table.Enabled())
	assert.True(t, tr.Disabled(refresh))
}

func TestTracker_StartTwiceIsNoop(t *testing.T) {
	tr := coordination.NewTracker(nil)
	c1 := coordtest.NewControl("c1")
	c2 := coordtest.NewControl("c2")

	first := tr.Start("load", c1, c2)
	second := tr.Start("load", c1, c2)

	assert.True(t, first)
	assert.False(t, second)
	assert.Equal(t, []string{"load"}, tr.Active())

	// A single Stop is enough: the second Start did not add references.
	tr.Stop("load")
	assert.True(t, c1.Enabled())
	assert.True(t, c2.Enabled())
	assert.False(t, tr.IsActive("load"))
}

func TestTracker_SharedControlStaysDisabledUntilBothStop(t *testing.T) {
	tr := coordination.NewTracker(nil)
	shared := coordtest.NewControl("actions")

	require.True(t, tr.Start("load-tables", shared))
	require.True(t, tr.Start("close-table:t4", shared))

	tr.Stop("load-tables")
	assert.False(t, shared.Enabled())
	assert.True(t, tr.Disabled(shared))

	tr.Stop("close-table:t4")
	assert.True(t, shared.Enabled())
	assert.False(t, tr.Disabled(shared))
	assert.Equal(t, []bool{false, true}, shared.History(), "one disable, one enable")
}

func TestTracker_DuplicateControlInOneStartCountsOnce(t *testing.T) {
	tr := coordination.NewTracker(nil)
	c := coordtest.NewControl("c")

	require.True(t, tr.Start("op", c, c))
	tr.Stop("op")

	assert.True(t, c.Enabled())
}

func TestTracker_StopUnknownIsNoop(t *testing.T) {
	tr := coordination.NewTracker(nil)
	c := coordtest.NewControl("c")
	require.True(t, tr.Start("op", c))

	tr.Stop("other")

	assert.False(t, c.Enabled())
}

func TestTracker_StopAllEnablesEverything(t *testing.T) {
	tr := coordination.NewTracker(nil)
	a := coordtest.NewControl("a")
	b := coordtest.NewControl("b")
	require.True(t, tr.Start("op1", a))
	require.True(t, tr.Start("op2", a, b))

	tr.StopAll()

	assert.True(t, a.Enabled())
	assert.True(t, b.Enabled())
	assert.Empty(t, tr.Active())

	// Late stops after teardown are harmless.
	tr.Stop("op1")
	assert.True(t, a.Enabled())
}

func TestTracker_BeginStopEndsOwnRegistration(t *testing.T) {
	tr := coordination.NewTracker(nil)
	refresh := coordtest.NewControl("refresh")

	stop, ok := tr.Begin("load-tables", refresh)
	require.True(t, ok)
	assert.False(t, refresh.Enabled())

	assert.True(t, stop())
	assert.True(t, refresh.Enabled())
	assert.False(t, tr.IsActive("load-tables"))

	assert.False(t, stop(), "second stop has nothing to end")
}

func TestTracker_StaleStopLeavesNewerRegistration(t *testing.T) {
	tr := coordination.NewTracker(nil)
	refresh := coordtest.NewControl("refresh")

	stale, ok := tr.Begin("load-tables", refresh)
	require.True(t, ok)
	tr.StopAll()

	_, ok = tr.Begin("load-tables", refresh)
	require.True(t, ok)

	assert.False(t, stale())
	assert.True(t, tr.IsActive("load-tables"))
	assert.False(t, refresh.Enabled())
	assert.True(t, tr.Disabled(refresh))
}

func TestTracker_BeginBusyReturnsInertStop(t *testing.T) {
	tr := coordination.NewTracker(nil)
	actions := coordtest.NewControl("actions")
	require.True(t, tr.Start("close-table:t2", actions))

	stop, ok := tr.Begin("close-table:t2", actions)

	assert.False(t, ok)
	assert.False(t, stop())
	assert.True(t, tr.IsActive("close-table:t2"))
	assert.False(t, actions.Enabled())
}

func TestTracker_ChangesRunOnDispatcher(t *testing.T) {
	ui := &coordtest.Queue{}
	tr := coordination.NewTracker(ui)
	c := coordtest.NewControl("c")

	require.True(t, tr.Start("op", c))
	assert.True(t, c.Enabled(), "nothing applied before the UI context runs")
	assert.True(t, tr.Disabled(c))

	ui.Drain()
	assert.False(t, c.Enabled())

	tr.Stop("op")
	ui.Drain()
	assert.True(t, c.Enabled())
}

func TestTracker_ConvergesUnderConcurrentStartStop(t *testing.T) {
	ui := &coordtest.Queue{}
	tr := coordination.NewTracker(ui)
	c := coordtest.NewControl("c")

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			op := string(rune('a' + i%26))
			for j := 0; j < 50; j++ {
				if tr.Start(op, c) {
					tr.Stop(op)
				}
			}
		}(i)
	}
	wg.Wait()
	ui.Drain()

	assert.Empty(t, tr.Active())
	assert.True(t, c.Enabled())
}
