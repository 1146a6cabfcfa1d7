package tickq

import "github.com/symonk/tickq/internal/contract"

// IntervalQueue is a bounded FIFO of tasks drained at most once per
// heartbeat tick.  Push only enqueues; execution is driven purely by
// the heartbeat, which caps throughput at one task per tick interval
// however deep the backlog is.
type IntervalQueue struct {
	*queue
}

// Ensure IntervalQueue implements Throttler
var _ contract.Throttler = (*IntervalQueue)(nil)

// NewIntervalQueue instantiates an IntervalQueue holding at most capacity
// pending tasks and applies the functional options to it.  The heartbeat
// is not running until Start is called.
func NewIntervalQueue(capacity int, opts ...Option) (*IntervalQueue, error) {
	q, err := newQueue(capacity, "interval", opts)
	if err != nil {
		return nil, err
	}
	return &IntervalQueue{queue: q}, nil
}

// Start arms the heartbeat.  Calling Start on a running queue is a no-op.
func (i *IntervalQueue) Start() {
	i.start(i.tick)
}

// Stop disarms the heartbeat.  Pending tasks are kept and resume
// on the next Start.  Stop on a stopped queue is a no-op.
func (i *IntervalQueue) Stop() {
	i.stop()
}

// Push appends task to the queue and reports whether it was admitted.
// It returns false without side effects when the queue is full or task
// is nil.  Push never dispatches work itself.
func (i *IntervalQueue) Push(task Task) bool {
	return i.push(task)
}

// tick dispatches the head task on the next scheduling turn.  If the
// queue is empty by then, the turn is spent doing nothing.
func (i *IntervalQueue) tick() {
	if !i.acquire() {
		return
	}
	i.executor.Submit(func() {
		defer i.release()
		task, err := i.pending.PopRight()
		if err != nil {
			return
		}
		_ = i.run(task)
	})
}
