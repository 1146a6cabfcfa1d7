package clock

import "time"

// Clock interface allows mocking time.Now() and the heartbeat source for
// deterministic testing.
type Clock interface {
	Now() time.Time
	NewTicker(d time.Duration) Ticker
}

// Ticker is the subset of *time.Ticker the queues rely on.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// RealClock wraps time.Now() and time.NewTicker
type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}

func (RealClock) NewTicker(d time.Duration) Ticker {
	return &realTicker{t: time.NewTicker(d)}
}

type realTicker struct {
	t *time.Ticker
}

func (r *realTicker) C() <-chan time.Time {
	return r.t.C
}

func (r *realTicker) Stop() {
	r.t.Stop()
}
