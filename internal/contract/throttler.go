package contract

import "context"

// Task is a deferred unit of work.  It settles by returning; a non-nil
// error marks a failed task.
type Task = func(ctx context.Context) error

// Throttler is the surface shared by every queue variant.  Push is
// non-blocking and reports whether the task was admitted.
type Throttler interface {
	Push(task Task) bool

	Start()
	Stop()
}
