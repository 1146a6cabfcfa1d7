package tickq

import (
	"log/slog"

	"github.com/symonk/tickq/internal/contract"
)

// DrainingQueue is a bounded FIFO of tasks that, once non-empty, drains
// continuously: every completed task immediately schedules an attempt at
// the next one.  Push starts the heartbeat lazily and raises a tick at
// once; the heartbeat only acts as a safety net and is suspended as soon
// as the queue is found empty.
type DrainingQueue struct {
	*queue
}

// Ensure DrainingQueue implements Throttler
var _ contract.Throttler = (*DrainingQueue)(nil)

// NewDrainingQueue instantiates a DrainingQueue holding at most capacity
// pending tasks and applies the functional options to it.
func NewDrainingQueue(capacity int, opts ...Option) (*DrainingQueue, error) {
	q, err := newQueue(capacity, "draining", opts)
	if err != nil {
		return nil, err
	}
	return &DrainingQueue{queue: q}, nil
}

// Start arms the heartbeat if it is not already running.
func (d *DrainingQueue) Start() {
	d.start(d.tick)
}

// Stop disarms the heartbeat.  A task already in flight finishes, but
// the drain loop does not continue past it; pending tasks are kept
// until the next Start or Push.
func (d *DrainingQueue) Stop() {
	d.stop()
}

// Push appends task to the queue and reports whether it was admitted.
// An admitted task starts the heartbeat and raises a tick straight away,
// so an idle queue dispatches it on the next scheduling turn without
// waiting for the next period.
func (d *DrainingQueue) Push(task Task) bool {
	if !d.push(task) {
		return false
	}
	d.Start()
	d.tick()
	return true
}

// tick takes the gate inline and defers the rest of the dispatch to
// the executor, so tasks pushed on the same turn still count against
// capacity.
func (d *DrainingQueue) tick() {
	if !d.acquire() {
		return
	}
	d.executor.Submit(d.process)
}

// process pops and runs the head task, then re-arms.  An empty queue
// suspends the heartbeat.
func (d *DrainingQueue) process() {
	task, err := d.pending.PopRight()
	if err != nil {
		if d.stop() {
			d.logger.Debug("queue idle", slog.String("queue", d.name))
		}
		d.release()
		// a Push racing with the suspension above had its tick
		// dropped by the gate; pick its task up here.
		if d.pending.Length() > 0 {
			d.Start()
			d.tick()
		}
		return
	}
	_ = d.run(task)
	d.release()
	if d.Running() {
		d.executor.Submit(d.tick)
	}
}
