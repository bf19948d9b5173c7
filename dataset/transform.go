package dataset

import (
	"context"

	"github.com/acme-corp/data-pipeline/async"
)

// Transform is the execution entry point for a user-supplied map
// function. The declared output arity is fixed at construction time
// and independent of runtime values.
//
// Execute receives the input elements as already-resolved futures and
// a pre-sized slice of output slots (len = OutputArity). It must
// populate every slot exactly once with a future, resolved or
// soon-to-resolve, and may itself schedule further asynchronous work
// on sched. Execute must not block on its own outputs.
type Transform interface {
	OutputArity() int
	Execute(ctx context.Context, inputs, outputs []*async.Value[any], sched async.Scheduler)
}

// TransformFuncs builds a Transform from one function per output
// slot. Each function receives the single input element and computes
// that slot's value; a returned error resolves the slot with it.
func TransformFuncs(fns ...func(any) (any, error)) Transform {
	return &funcTransform{fns: fns}
}

type funcTransform struct {
	fns []func(any) (any, error)
}

func (t *funcTransform) OutputArity() int { return len(t.fns) }

func (t *funcTransform) Execute(_ context.Context, inputs, outputs []*async.Value[any], _ async.Scheduler) {
	in := inputs[0].Get()
	for i, fn := range t.fns {
		val, err := fn(in)
		if err != nil {
			outputs[i] = async.NewError[any](err)
			continue
		}
		outputs[i] = async.NewValue(val)
	}
}
