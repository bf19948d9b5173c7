package dataset

import (
	"context"

	"github.com/acme-corp/data-pipeline/async"
)

// FromSlice creates a Dataset backed by a slice of values. Every
// iterator yields the values in slice order, each as an
// already-resolved future.
func FromSlice[T any](items []T) Dataset[T] {
	return &sliceDataset[T]{items: items}
}

type sliceDataset[T any] struct {
	items []T
}

func (d *sliceDataset[T]) MakeIterator() Iterator[T] {
	return &sliceIterator[T]{items: d.items}
}

type sliceIterator[T any] struct {
	items []T
	index int
}

func (it *sliceIterator[T]) GetNext(_ context.Context) *async.Value[T] {
	if it.index >= len(it.items) {
		return nil
	}
	val := it.items[it.index]
	it.index++
	return async.NewValue(val)
}

func (it *sliceIterator[T]) Close() error { return nil }
