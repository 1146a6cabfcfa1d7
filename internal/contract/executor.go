package contract

// Executor runs a continuation on a later scheduling turn, never
// inline on the caller's stack.
type Executor interface {
	Submit(fn func())
}

// ExecutorFunc adapts an ordinary function to an Executor.
type ExecutorFunc func(fn func())

// Submit calls f(fn).
func (f ExecutorFunc) Submit(fn func()) {
	f(fn)
}
