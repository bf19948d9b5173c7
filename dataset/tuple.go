package dataset

import "github.com/acme-corp/data-pipeline/async"

// Tuple is the packed result of one transformed element: one entry
// per declared output slot, in declaration order.
type Tuple []any

// PackTuple assembles resolved, error-free output slots into a Tuple
// in declaration order. Each slot is consumed exactly once and must
// not be read again afterward. Calling PackTuple with an unresolved
// or errored slot is a programming-contract violation and panics.
func PackTuple(outputs []*async.Value[any]) Tuple {
	packed := make(Tuple, len(outputs))
	for i, out := range outputs {
		packed[i] = out.Get()
	}
	return packed
}
