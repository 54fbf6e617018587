package coordination

// Dispatcher runs functions on the UI-owning context, in submission order.
// Dispatch must not block waiting for the function to run.
type Dispatcher interface {
	Dispatch(fn func())
}

// Executor runs background work such as network fetches.
type Executor interface {
	Go(fn func())
}

// Goroutines is an Executor that starts one goroutine per task.
type Goroutines struct{}

// Go runs fn on a new goroutine.
func (Goroutines) Go(fn func()) {
	go fn()
}

// Inline is a Dispatcher that runs functions on the calling goroutine.
// It suits the CLI, which has no UI loop, and simple tests.
type Inline struct{}

// Dispatch runs fn immediately.
func (Inline) Dispatch(fn func()) {
	fn()
}
