package tickq

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/symonk/tickq/internal/clock"
)

// fakeClock hands out tickers that only fire when the test says so,
// and a time that only moves when advanced.
type fakeClock struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*fakeTicker
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *fakeClock) NewTicker(d time.Duration) clock.Ticker {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTicker{ch: make(chan time.Time), period: d}
	c.tickers = append(c.tickers, t)
	return t
}

func (c *fakeClock) created() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tickers)
}

func (c *fakeClock) last(tb testing.TB) *fakeTicker {
	tb.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.tickers) == 0 {
		tb.Fatal("no ticker has been created")
	}
	return c.tickers[len(c.tickers)-1]
}

type fakeTicker struct {
	ch      chan time.Time
	period  time.Duration
	stopped atomic.Bool
}

func (t *fakeTicker) C() <-chan time.Time {
	return t.ch
}

func (t *fakeTicker) Stop() {
	t.stopped.Store(true)
}

// fire blocks until the heartbeat loop has received one tick.
func (t *fakeTicker) fire(tb testing.TB) {
	tb.Helper()
	select {
	case t.ch <- time.Now():
	case <-time.After(time.Second):
		tb.Fatal("heartbeat did not receive the tick")
	}
}

// turnExecutor queues submitted continuations until the test runs them
// on its own goroutine, one scheduling turn at a time.
type turnExecutor struct {
	mu  sync.Mutex
	fns []func()
}

func (e *turnExecutor) Submit(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.fns = append(e.fns, fn)
}

func (e *turnExecutor) queued() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.fns)
}

// runOne runs the oldest queued continuation, reporting whether there was one.
func (e *turnExecutor) runOne() bool {
	e.mu.Lock()
	if len(e.fns) == 0 {
		e.mu.Unlock()
		return false
	}
	fn := e.fns[0]
	e.fns = e.fns[1:]
	e.mu.Unlock()
	fn()
	return true
}

// runAll runs continuations, including ones they submit, until none are left.
func (e *turnExecutor) runAll() {
	for e.runOne() {
	}
}
