package tickq

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// instrumentationName is the instrumentation scope name for tickq metrics and spans.
const instrumentationName = "github.com/symonk/tickq"

// Reasons attached to tickq.tick.dropped.
const (
	dropInFlight    = "in_flight"
	dropRateLimited = "rate_limited"
)

// telemetry holds the instruments of a single queue.  OTel instruments
// are safe for concurrent use and the API hands back noop instruments on
// error, so construction never fails.
//
// Instruments:
//   - tickq.push.accepted, tickq.push.rejected (Int64Counter)
//   - tickq.tick.dropped (Int64Counter), with attribute reason
//   - tickq.task.executions (Int64Counter), with attribute status ("ok" or "error")
//   - tickq.task.duration (Float64Histogram): execution time in seconds
type telemetry struct {
	attrs []attribute.KeyValue

	accepted   metric.Int64Counter
	rejected   metric.Int64Counter
	dropped    metric.Int64Counter
	executions metric.Int64Counter
	duration   metric.Float64Histogram

	tracer trace.Tracer
}

func newTelemetry(name, variant string, mp metric.MeterProvider, tp trace.TracerProvider) *telemetry {
	meter := mp.Meter(instrumentationName)
	t := &telemetry{
		attrs: []attribute.KeyValue{
			attribute.String("queue", name),
			attribute.String("variant", variant),
		},
		tracer: tp.Tracer(instrumentationName),
	}
	t.accepted, _ = meter.Int64Counter(
		"tickq.push.accepted",
		metric.WithDescription("Tasks admitted by Push"),
		metric.WithUnit("{task}"),
	)
	t.rejected, _ = meter.Int64Counter(
		"tickq.push.rejected",
		metric.WithDescription("Tasks refused by Push because the queue was full"),
		metric.WithUnit("{task}"),
	)
	t.dropped, _ = meter.Int64Counter(
		"tickq.tick.dropped",
		metric.WithDescription("Ticks ignored without dispatching"),
		metric.WithUnit("{tick}"),
	)
	t.executions, _ = meter.Int64Counter(
		"tickq.task.executions",
		metric.WithDescription("Total number of task executions"),
		metric.WithUnit("{execution}"),
	)
	t.duration, _ = meter.Float64Histogram(
		"tickq.task.duration",
		metric.WithDescription("Duration of task execution in seconds"),
		metric.WithUnit("s"),
	)
	return t
}

func (t *telemetry) pushed(ok bool) {
	if ok {
		t.accepted.Add(context.Background(), 1, t.with())
		return
	}
	t.rejected.Add(context.Background(), 1, t.with())
}

func (t *telemetry) tickDropped(reason string) {
	t.dropped.Add(context.Background(), 1, t.with(attribute.String("reason", reason)))
}

// with returns the queue attributes extended by extra.
func (t *telemetry) with(extra ...attribute.KeyValue) metric.MeasurementOption {
	kv := make([]attribute.KeyValue, 0, len(t.attrs)+len(extra))
	kv = append(kv, t.attrs...)
	return metric.WithAttributes(append(kv, extra...)...)
}

// startTask opens the execution span that is handed to the task via ctx.
func (t *telemetry) startTask(ctx context.Context) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "tickq.task.execute",
		trace.WithAttributes(t.attrs...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

func (t *telemetry) finishTask(ctx context.Context, span trace.Span, elapsed time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()

	attrs := t.with(attribute.String("status", status))
	t.duration.Record(ctx, elapsed.Seconds(), attrs)
	t.executions.Add(ctx, 1, attrs)
}
