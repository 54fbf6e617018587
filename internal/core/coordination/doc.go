// Package coordination keeps background-refreshed views, user-triggered
// mutations and view teardown consistent when they run concurrently.
//
// It is made of four pieces, leaves first:
//
//   - Guard: at most one execution per operation key (single-flight).
//   - Tracker: which operations are active and which controls must stay
//     disabled while any of them run.
//   - Session: a per-view fetch-and-render loop on a timer, invalidated by a
//     generation token rather than by cancelling in-flight work.
//   - Controller: Show/Dispose lifecycle that composes the three for the
//     navigation shell.
//
// # Execution contexts
//
// Work runs in two places. Fetches and mutations run on an Executor
// (normally one goroutine per task). Everything that touches UI state,
// including render callbacks and control enable/disable, runs on a
// Dispatcher that serialises calls onto the UI-owning context (the bubbletea
// Update loop in the TUI). A completion is applied only if the generation it
// captured when it started is still the current one, so a response that
// arrives after a view was disposed or replaced is dropped instead of
// rendered.
//
// Nothing in this package holds process-wide state: every Guard, Tracker,
// Clock and Dispatcher is passed in by the owner.
package coordination
