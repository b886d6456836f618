package ircprotocol

// Handler is invoked with the named parameters of a triggered event.
// Returned errors and panics are reported through the client's error
// handler; they never reach the read loop or other handlers.
type Handler func(params Params) error

// Scheduler runs handler tasks. Go must not wait for task to finish.
type Scheduler interface {
	Go(task func())
}

// GoroutineScheduler runs every task in its own goroutine.
type GoroutineScheduler struct{}

// Go starts task in a new goroutine.
func (GoroutineScheduler) Go(task func()) {
	go task()
}

// SchedulerFunc adapts a function to the Scheduler interface.
type SchedulerFunc func(task func())

// Go calls f(task).
func (f SchedulerFunc) Go(task func()) {
	f(task)
}
