package dataset

import (
	"context"

	"github.com/google/uuid"

	"github.com/acme-corp/data-pipeline/async"
	"github.com/acme-corp/data-pipeline/errors"
	"github.com/acme-corp/data-pipeline/logger"
)

// MapDataset decorates an upstream Dataset with a Transform whose
// execution is offloaded to a shared worker pool. It is immutable
// after construction and identity-based: iterators hold a
// back-reference to it, never the other way around, so the ownership
// graph stays a strict tree.
type MapDataset[I any] struct {
	source Dataset[I]
	fn     Transform
	sched  async.Scheduler
	log    *logger.Logger
}

// NewMap creates a map decorator over source. fn's execution is
// scheduled on sched; its output arity fixes the width of every
// Tuple the decorated iterators produce.
func NewMap[I any](source Dataset[I], fn Transform, sched async.Scheduler) (*MapDataset[I], error) {
	if source == nil {
		return nil, errors.InvalidArgument("source must not be nil")
	}
	if fn == nil {
		return nil, errors.InvalidArgument("transform must not be nil")
	}
	if sched == nil {
		return nil, errors.InvalidArgument("scheduler must not be nil")
	}
	return &MapDataset[I]{
		source: source,
		fn:     fn,
		sched:  sched,
		log:    logger.Get("dataset.map"),
	}, nil
}

// MakeIterator returns a new iterator over the decorated dataset,
// pulling a fresh cursor from the upstream source.
func (d *MapDataset[I]) MakeIterator() Iterator[Tuple] {
	it := &mapIterator[I]{
		id:     uuid.NewString(),
		parent: d,
		input:  d.source.MakeIterator(),
	}
	d.log.Debug("iterator created", logger.Fields(logger.FieldIteratorID, it.id))
	return it
}

// mapIterator drives the per-element async pipeline. Each GetNext
// advances the upstream cursor by one element and resolves one
// future; it never blocks and never fails synchronously.
type mapIterator[I any] struct {
	id     string
	parent *MapDataset[I]
	input  Iterator[I]
}

func (it *mapIterator[I]) GetNext(ctx context.Context) *async.Value[Tuple] {
	sched := it.parent.sched
	fn := it.parent.fn

	args := it.input.GetNext(ctx)
	if args == nil {
		// End-of-stream: no transform invocation, no scheduling.
		return nil
	}
	if args.Available() && args.Err() != nil {
		// Upstream already failed; forward the error unchanged.
		return async.NewError[Tuple](args.Err())
	}

	result := async.NewUnavailable[Tuple]()

	// Run the transform on the worker pool once the upstream element
	// resolves. The caller gets result back immediately.
	sched.Enqueue(func() {
		args.AndThen(func() {
			if err := args.Err(); err != nil {
				result.SetError(err)
				return
			}

			inputs := []*async.Value[any]{async.NewValue[any](args.Get())}
			outputs := make([]*async.Value[any], fn.OutputArity())
			fn.Execute(ctx, inputs, outputs, sched)

			futures := make([]async.Future, len(outputs))
			for i, out := range outputs {
				// Fast path: a slot that already resolved to an error
				// decides the result without waiting on the rest.
				if out.Available() && out.Err() != nil {
					result.SetError(out.Err())
					return
				}
				futures[i] = out
			}

			sched.RunWhenReady(futures, func() {
				// The first errored slot in declaration order wins,
				// regardless of wall-clock resolution order.
				for _, out := range outputs {
					if err := out.Err(); err != nil {
						result.SetError(err)
						return
					}
				}
				result.Emplace(PackTuple(outputs))
			})
		})
	})
	return result
}

func (it *mapIterator[I]) Close() error {
	it.parent.log.Debug("iterator closed", logger.Fields(logger.FieldIteratorID, it.id))
	return it.input.Close()
}
