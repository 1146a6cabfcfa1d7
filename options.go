package tickq

import (
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/symonk/tickq/internal/clock"
	"github.com/symonk/tickq/internal/contract"
)

type Option func(q *queue)

// WithTickInterval sets the period of the heartbeat timer.
// Defaults to DefaultTickInterval.
func WithTickInterval(d time.Duration) Option {
	return func(q *queue) {
		q.interval = d
	}
}

// WithName identifies the queue in log records, metric
// attributes and spans.
func WithName(name string) Option {
	return func(q *queue) {
		q.name = name
	}
}

// WithLogger sets the structured logger.  By default
// the queue logs nothing.
func WithLogger(logger *slog.Logger) Option {
	return func(q *queue) {
		if logger != nil {
			q.logger = logger
		}
	}
}

// WithMeterProvider overrides the global OTel MeterProvider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(q *queue) {
		if mp != nil {
			q.meterProvider = mp
		}
	}
}

// WithTracerProvider overrides the global OTel TracerProvider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(q *queue) {
		if tp != nil {
			q.tracerProvider = tp
		}
	}
}

// WithLimiter gates every dispatch attempt behind a token bucket.
// A denied attempt is dropped exactly like a tick that arrives
// while a task is in flight.  The limiter may be shared between
// queues to enforce a combined ceiling.
func WithLimiter(limiter *rate.Limiter) Option {
	return func(q *queue) {
		q.limiter = limiter
	}
}

func withClock(c clock.Clock) Option {
	return func(q *queue) {
		q.clock = c
	}
}

func withExecutor(e contract.Executor) Option {
	return func(q *queue) {
		q.executor = e
	}
}

func withContainer(c contract.Container[Task]) Option {
	return func(q *queue) {
		q.pending = c
	}
}
