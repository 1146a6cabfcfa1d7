// Package tickq provides bounded, single-flight task queues for throttling
// asynchronous work.
//
// Two variants share the same surface (Push, Start, Stop):
//
//   - IntervalQueue dispatches at most one task per heartbeat tick, so its
//     throughput is capped at one task per tick interval regardless of backlog.
//   - DrainingQueue dispatches the first task on the scheduling turn after it
//     is pushed and then re-arms itself after every completion, draining as
//     fast as tasks finish.
//     Its heartbeat is started lazily and suspended once the queue is empty.
//
// In both variants at most one task executes at a time, tasks run in the
// order they were admitted and Push never blocks.  A full queue rejects the
// task and Push returns false; that is the only outcome reported to callers.
// Task errors and panics are recorded through the configured logger and
// telemetry but are otherwise discarded, and draining continues.
//
// A task that never returns holds the queue forever.  Tasks must settle.
package tickq

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/symonk/tickq/internal/clock"
	"github.com/symonk/tickq/internal/contract"
	"github.com/symonk/tickq/internal/deque"
)

// DefaultTickInterval is the heartbeat period used when WithTickInterval is not supplied.
const DefaultTickInterval = 10 * time.Millisecond

// Task is a deferred unit of work.  The context carries the execution
// span and is never cancelled by the queue.
type Task = contract.Task

// queue is the skeleton shared by both variants: bounded FIFO storage,
// the single-flight gate and the heartbeat lifecycle.
type queue struct {
	name     string
	interval time.Duration
	pending  contract.Container[Task]

	// inFlight is the single-flight gate, taken with a CAS so a
	// competing tick never blocks.
	inFlight atomic.Bool
	ticks    atomic.Uint64

	mu     sync.Mutex
	ticker clock.Ticker
	stopCh chan struct{}

	clock          clock.Clock
	executor       contract.Executor
	limiter        *rate.Limiter
	logger         *slog.Logger
	meterProvider  metric.MeterProvider
	tracerProvider trace.TracerProvider
	telemetry      *telemetry
}

func newQueue(capacity int, variant string, opts []Option) (*queue, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, capacity)
	}
	q := &queue{
		name:           variant,
		interval:       DefaultTickInterval,
		clock:          clock.RealClock{},
		executor:       contract.ExecutorFunc(func(fn func()) { go fn() }),
		logger:         slog.New(slog.DiscardHandler),
		meterProvider:  otel.GetMeterProvider(),
		tracerProvider: otel.GetTracerProvider(),
	}
	for _, opt := range opts {
		opt(q)
	}
	if q.interval <= 0 {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidInterval, q.interval)
	}
	if q.pending == nil {
		q.pending = deque.New[Task](capacity)
	}
	q.telemetry = newTelemetry(q.name, variant, q.meterProvider, q.tracerProvider)
	return q, nil
}

// Name returns the name the queue reports in logs and telemetry.
func (q *queue) Name() string {
	return q.name
}

// Len returns the number of tasks waiting to be dispatched.
func (q *queue) Len() int {
	return q.pending.Length()
}

// Cap returns the maximum number of waiting tasks.
func (q *queue) Cap() int {
	return q.pending.Capacity()
}

// InFlight reports whether a task has been dispatched and not yet settled.
func (q *queue) InFlight() bool {
	return q.inFlight.Load()
}

// Running reports whether the heartbeat timer is active.
func (q *queue) Running() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.ticker != nil
}

// Ticks returns the number of tick signals raised so far, whether
// they dispatched work or were dropped.
func (q *queue) Ticks() uint64 {
	return q.ticks.Load()
}

// push appends task to the tail of pending.  The capacity check and
// the append happen under a single lock.
func (q *queue) push(task Task) bool {
	if task == nil {
		return false
	}
	if err := q.pending.PushLeft(task); err != nil {
		q.telemetry.pushed(false)
		q.logger.Debug("task rejected",
			slog.String("queue", q.name),
			slog.Int("capacity", q.pending.Capacity()),
			slog.String("error", err.Error()),
		)
		return false
	}
	q.telemetry.pushed(true)
	return true
}

// start arms the heartbeat, returning false if it was already armed.
func (q *queue) start(onTick func()) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.ticker != nil {
		return false
	}
	q.ticker = q.clock.NewTicker(q.interval)
	q.stopCh = make(chan struct{})
	go q.heartbeat(q.ticker, q.stopCh, onTick)

	q.logger.Debug("queue started",
		slog.String("queue", q.name),
		slog.Duration("interval", q.interval),
	)
	return true
}

// stop disarms the heartbeat, returning false if it was not armed.
// It is safe to call from inside onTick.
func (q *queue) stop() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.ticker == nil {
		return false
	}
	q.ticker.Stop()
	close(q.stopCh)
	q.ticker = nil
	q.stopCh = nil

	q.logger.Debug("queue stopped",
		slog.String("queue", q.name),
		slog.Int("pending", q.pending.Length()),
	)
	return true
}

func (q *queue) heartbeat(t clock.Ticker, stopCh <-chan struct{}, onTick func()) {
	for {
		select {
		case <-stopCh:
			return
		case <-t.C():
			// a tick buffered before Stop must not fire afterwards.
			select {
			case <-stopCh:
				return
			default:
			}
			onTick()
		}
	}
}

// acquire raises a tick signal and tries to take the single-flight
// gate.  Ticks that lose are dropped, never deferred.
func (q *queue) acquire() bool {
	q.ticks.Add(1)
	if !q.inFlight.CompareAndSwap(false, true) {
		q.telemetry.tickDropped(dropInFlight)
		return false
	}
	if q.limiter != nil && !q.limiter.Allow() {
		q.inFlight.Store(false)
		q.telemetry.tickDropped(dropRateLimited)
		return false
	}
	return true
}

func (q *queue) release() {
	q.inFlight.Store(false)
}

// run invokes task and records its outcome.  A panic is converted to an
// error wrapping ErrTaskPanicked.  The returned error is informational;
// callers discard it.
func (q *queue) run(task Task) (err error) {
	ctx, span := q.telemetry.startTask(context.Background())
	started := q.clock.Now()
	defer func() {
		if r := recover(); r != nil {
			q.logger.Error("task panicked",
				slog.String("queue", q.name),
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
			)
			err = fmt.Errorf("%w: %v", ErrTaskPanicked, r)
		}
		elapsed := q.clock.Now().Sub(started)
		q.telemetry.finishTask(ctx, span, elapsed, err)
		if err != nil {
			q.logger.Debug("task failed",
				slog.String("queue", q.name),
				slog.Duration("elapsed", elapsed),
				slog.String("error", err.Error()),
			)
		}
	}()
	return task(ctx)
}
