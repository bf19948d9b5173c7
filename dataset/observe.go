package dataset

import (
	"context"
	"time"

	"github.com/acme-corp/data-pipeline/async"
	"github.com/acme-corp/data-pipeline/logger"
	"github.com/acme-corp/data-pipeline/observability"
)

// WithTracing wraps a Transform with OpenTelemetry span creation.
// Each execution creates a span covering the whole in-flight element:
// opened before dispatch, closed when every output slot has resolved.
func WithTracing(fn Transform, name string) Transform {
	return &tracingTransform{inner: fn, name: name}
}

type tracingTransform struct {
	inner Transform
	name  string
}

func (t *tracingTransform) OutputArity() int { return t.inner.OutputArity() }

func (t *tracingTransform) Execute(ctx context.Context, inputs, outputs []*async.Value[any], sched async.Scheduler) {
	ctx, span := observability.StartSpan(ctx, "dataset.transform."+t.name)
	observability.SetSpanAttribute(ctx, observability.AttrTransformName, t.name)
	observability.SetSpanAttribute(ctx, observability.AttrOutputArity, t.inner.OutputArity())

	t.inner.Execute(ctx, inputs, outputs, sched)

	sched.RunWhenReady(asFutures(outputs), func() {
		for _, out := range outputs {
			if err := out.Err(); err != nil {
				span.RecordError(err)
				break
			}
		}
		span.End()
	})
}

// WithMetrics wraps a Transform with metric recording: element
// throughput, in-flight count, duration, and first-error counts.
func WithMetrics(fn Transform, name string, metrics *observability.Metrics) Transform {
	return &metricsTransform{inner: fn, name: name, metrics: metrics}
}

type metricsTransform struct {
	inner   Transform
	name    string
	metrics *observability.Metrics
}

func (t *metricsTransform) OutputArity() int { return t.inner.OutputArity() }

func (t *metricsTransform) Execute(ctx context.Context, inputs, outputs []*async.Value[any], sched async.Scheduler) {
	start := time.Now()
	t.metrics.RecordTransformStart(ctx)

	t.inner.Execute(ctx, inputs, outputs, sched)

	sched.RunWhenReady(asFutures(outputs), func() {
		status := "ok"
		for _, out := range outputs {
			if err := out.Err(); err != nil {
				status = "error"
				t.metrics.RecordError(ctx, "transform", t.name)
				break
			}
		}
		t.metrics.RecordTransformEnd(ctx, t.name, status, time.Since(start))
	})
}

// WithLogging wraps a Transform with per-element debug logging:
// one line per completed element with status and duration.
func WithLogging(fn Transform, name string, log *logger.Logger) Transform {
	return &loggingTransform{inner: fn, name: name, log: log.WithComponent("dataset.transform")}
}

type loggingTransform struct {
	inner Transform
	name  string
	log   *logger.Logger
}

func (t *loggingTransform) OutputArity() int { return t.inner.OutputArity() }

func (t *loggingTransform) Execute(ctx context.Context, inputs, outputs []*async.Value[any], sched async.Scheduler) {
	start := time.Now()
	t.inner.Execute(ctx, inputs, outputs, sched)

	sched.RunWhenReady(asFutures(outputs), func() {
		for _, out := range outputs {
			if err := out.Err(); err != nil {
				t.log.Debug("transform failed", logger.Fields(
					logger.FieldTransform, t.name,
					logger.FieldError, err.Error(),
					logger.FieldDuration, time.Since(start).Milliseconds(),
				))
				return
			}
		}
		t.log.Debug("transform completed", logger.Fields(
			logger.FieldTransform, t.name,
			logger.FieldDuration, time.Since(start).Milliseconds(),
		))
	})
}

func asFutures(outputs []*async.Value[any]) []async.Future {
	futures := make([]async.Future, len(outputs))
	for i, out := range outputs {
		futures[i] = out
	}
	return futures
}
