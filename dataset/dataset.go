package dataset

import (
	"context"

	"github.com/acme-corp/data-pipeline/async"
)

// Dataset is a repeatable producer of elements. Each call to
// MakeIterator returns a new, independent cursor over the data. A
// Dataset may be shared by multiple decorators simultaneously.
type Dataset[T any] interface {
	MakeIterator() Iterator[T]
}

// Iterator is a stateful, forward-only cursor over a Dataset. It is
// exclusively owned: exactly one consumer drives it, and pulls must
// be serialized (no GetNext before the previous future resolved).
type Iterator[T any] interface {
	// GetNext returns a future for the next element. It never blocks.
	// A nil return signals end-of-stream: no further values ever. The
	// returned future resolves with the element or with an error.
	GetNext(ctx context.Context) *async.Value[T]
	// Close releases any resources held by the iterator.
	Close() error
}
