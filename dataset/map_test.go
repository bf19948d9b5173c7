package dataset

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/acme-corp/data-pipeline/async"
	pipeerrors "github.com/acme-corp/data-pipeline/errors"
)

func newTestPool(t *testing.T) *async.Pool {
	t.Helper()
	p := async.NewPool(async.WithWorkers(4))
	t.Cleanup(p.Close)
	return p
}

// await blocks the test goroutine until v resolves.
func await[T any](t *testing.T, v *async.Value[T]) {
	t.Helper()
	done := make(chan struct{})
	v.AndThen(func() { close(done) })
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("future never resolved")
	}
}

// futureSource is a Dataset whose iterators replay a fixed list of
// futures, letting tests control resolution timing and errors.
type futureSource[T any] struct {
	futures []*async.Value[T]
}

func (s *futureSource[T]) MakeIterator() Iterator[T] {
	return &futureSourceIter[T]{futures: s.futures}
}

type futureSourceIter[T any] struct {
	futures []*async.Value[T]
	index   int
}

func (it *futureSourceIter[T]) GetNext(_ context.Context) *async.Value[T] {
	if it.index >= len(it.futures) {
		return nil
	}
	f := it.futures[it.index]
	it.index++
	return f
}

func (it *futureSourceIter[T]) Close() error { return nil }

// countingTransform counts Execute invocations around an inner Transform.
type countingTransform struct {
	inner Transform
	count atomic.Int32
}

func (t *countingTransform) OutputArity() int { return t.inner.OutputArity() }

func (t *countingTransform) Execute(ctx context.Context, inputs, outputs []*async.Value[any], sched async.Scheduler) {
	t.count.Add(1)
	t.inner.Execute(ctx, inputs, outputs, sched)
}

// slotTransform populates its output slots from a callback, for tests
// that need unresolved slots or controlled resolution order.
type slotTransform struct {
	arity    int
	populate func(in any, outputs []*async.Value[any], sched async.Scheduler)
}

func (t *slotTransform) OutputArity() int { return t.arity }

func (t *slotTransform) Execute(_ context.Context, inputs, outputs []*async.Value[any], sched async.Scheduler) {
	t.populate(inputs[0].Get(), outputs, sched)
}

func double(in any) (any, error) {
	return in.(int) * 2, nil
}

func TestMapDoublesElements(t *testing.T) {
	pool := newTestPool(t)
	ds, err := NewMap[int](FromSlice([]int{1, 2, 3}), TransformFuncs(double), pool)
	if err != nil {
		t.Fatal(err)
	}

	it := ds.MakeIterator()
	defer it.Close()

	want := []int{2, 4, 6}
	for i, w := range want {
		r := it.GetNext(context.Background())
		if r == nil {
			t.Fatalf("pull %d: unexpected end-of-stream", i+1)
		}
		await(t, r)
		if err := r.Err(); err != nil {
			t.Fatalf("pull %d: unexpected error: %v", i+1, err)
		}
		got := r.Get()
		if len(got) != 1 || got[0] != w {
			t.Errorf("pull %d: got %v, want [%d]", i+1, got, w)
		}
	}

	if r := it.GetNext(context.Background()); r != nil {
		t.Error("expected end-of-stream after last element")
	}
}

func TestMapEndOfStreamSkipsTransform(t *testing.T) {
	pool := newTestPool(t)
	fn := &countingTransform{inner: TransformFuncs(double)}
	ds, err := NewMap[int](FromSlice([]int{1, 2}), fn, pool)
	if err != nil {
		t.Fatal(err)
	}

	it := ds.MakeIterator()
	defer it.Close()

	for i := 0; i < 2; i++ {
		r := it.GetNext(context.Background())
		await(t, r)
	}
	if r := it.GetNext(context.Background()); r != nil {
		t.Fatal("expected end-of-stream")
	}
	if r := it.GetNext(context.Background()); r != nil {
		t.Fatal("expected end-of-stream to be terminal")
	}
	if got := fn.count.Load(); got != 2 {
		t.Errorf("expected 2 transform invocations, got %d", got)
	}
}

func TestMapUpstreamErrorPassthrough(t *testing.T) {
	pool := newTestPool(t)
	sentinel := errors.New("upstream exploded")
	source := &futureSource[int]{futures: []*async.Value[int]{
		async.NewValue(1),
		async.NewError[int](sentinel),
	}}

	fn := &countingTransform{inner: TransformFuncs(double)}
	ds, err := NewMap[int](source, fn, pool)
	if err != nil {
		t.Fatal(err)
	}

	it := ds.MakeIterator()
	defer it.Close()

	r1 := it.GetNext(context.Background())
	await(t, r1)
	if r1.Err() != nil {
		t.Fatalf("pull 1: unexpected error: %v", r1.Err())
	}

	r2 := it.GetNext(context.Background())
	await(t, r2)
	if got := r2.Err(); got != sentinel {
		t.Errorf("pull 2: expected the exact upstream error, got %v", got)
	}
	if got := fn.count.Load(); got != 1 {
		t.Errorf("expected no transform invocation for the failed pull, got %d total", got)
	}
}

func TestMapUpstreamDeferredError(t *testing.T) {
	pool := newTestPool(t)
	sentinel := errors.New("late failure")
	pending := async.NewUnavailable[int]()
	source := &futureSource[int]{futures: []*async.Value[int]{pending}}

	fn := &countingTransform{inner: TransformFuncs(double)}
	ds, err := NewMap[int](source, fn, pool)
	if err != nil {
		t.Fatal(err)
	}

	it := ds.MakeIterator()
	defer it.Close()

	r := it.GetNext(context.Background())
	if r == nil {
		t.Fatal("expected a pending future, got end-of-stream")
	}

	pending.SetError(sentinel)
	await(t, r)
	if got := r.Err(); got != sentinel {
		t.Errorf("expected the exact upstream error, got %v", got)
	}
	if got := fn.count.Load(); got != 0 {
		t.Errorf("expected no transform invocation, got %d", got)
	}
}

// inlineScheduler runs tasks synchronously, making pull-side timing
// deterministic for tests that control slot resolution themselves.
type inlineScheduler struct{}

func (inlineScheduler) Enqueue(task func()) { task() }

func (inlineScheduler) RunWhenReady(futures []async.Future, fn func()) {
	async.RunWhenReady(futures, fn)
}

func TestMapErrorFirstIndexWins(t *testing.T) {
	err0 := errors.New("E0")
	err1 := errors.New("E1")

	// Both slots error, index 1 resolving first in wall-clock order.
	// The declared order, not resolution order, decides the result.
	var slots []*async.Value[any]
	fn := &slotTransform{
		arity: 2,
		populate: func(_ any, outputs []*async.Value[any], _ async.Scheduler) {
			outputs[0] = async.NewUnavailable[any]()
			outputs[1] = async.NewUnavailable[any]()
			slots = outputs
		},
	}

	ds, err := NewMap[int](FromSlice([]int{10}), fn, inlineScheduler{})
	if err != nil {
		t.Fatal(err)
	}
	it := ds.MakeIterator()
	defer it.Close()

	// With the inline scheduler the pull returns only after the
	// when-all callback has been registered on both pending slots.
	r := it.GetNext(context.Background())
	if r.Available() {
		t.Fatal("expected pending result while slots are unresolved")
	}

	slots[1].SetError(err1)
	slots[0].SetError(err0)

	await(t, r)
	if got := r.Err(); got != err0 {
		t.Errorf("expected index-0 error to win, got %v", got)
	}
}

func TestMapSecondSlotErrorPropagates(t *testing.T) {
	pool := newTestPool(t)
	err1 := errors.New("E1")

	fn := &slotTransform{
		arity: 2,
		populate: func(in any, outputs []*async.Value[any], _ async.Scheduler) {
			outputs[0] = async.NewValue[any](in.(int) + 1)
			outputs[1] = async.NewError[any](err1)
		},
	}

	ds, err := NewMap[int](FromSlice([]int{10}), fn, pool)
	if err != nil {
		t.Fatal(err)
	}
	it := ds.MakeIterator()
	defer it.Close()

	r := it.GetNext(context.Background())
	await(t, r)
	if got := r.Err(); got != err1 {
		t.Errorf("expected index-1 error, got %v", got)
	}
}

func TestMapDivideByZeroScenario(t *testing.T) {
	pool := newTestPool(t)
	quotErr := errors.New("divide-by-zero (quotient)")
	remErr := errors.New("divide-by-zero (remainder)")

	fn := TransformFuncs(
		func(any) (any, error) { return nil, quotErr },
		func(any) (any, error) { return nil, remErr },
	)

	ds, err := NewMap[int](FromSlice([]int{10}), fn, pool)
	if err != nil {
		t.Fatal(err)
	}
	it := ds.MakeIterator()
	defer it.Close()

	r := it.GetNext(context.Background())
	await(t, r)
	if got := r.Err(); got != quotErr {
		t.Errorf("expected the quotient slot's error, got %v", got)
	}
}

func TestMapMultiOutputTuple(t *testing.T) {
	pool := newTestPool(t)
	fn := TransformFuncs(
		func(in any) (any, error) { return in.(int) / 3, nil },
		func(in any) (any, error) { return in.(int) % 3, nil },
	)

	ds, err := NewMap[int](FromSlice([]int{10}), fn, pool)
	if err != nil {
		t.Fatal(err)
	}
	it := ds.MakeIterator()
	defer it.Close()

	r := it.GetNext(context.Background())
	await(t, r)
	if err := r.Err(); err != nil {
		t.Fatal(err)
	}
	got := r.Get()
	if len(got) != 2 || got[0] != 3 || got[1] != 1 {
		t.Errorf("got %v, want [3 1]", got)
	}
}

func TestMapPullDoesNotBlock(t *testing.T) {
	pool := newTestPool(t)
	pending := async.NewUnavailable[int]()
	source := &futureSource[int]{futures: []*async.Value[int]{pending}}

	ds, err := NewMap[int](source, TransformFuncs(double), pool)
	if err != nil {
		t.Fatal(err)
	}
	it := ds.MakeIterator()
	defer it.Close()

	start := time.Now()
	r := it.GetNext(context.Background())
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Fatalf("GetNext blocked for %v", elapsed)
	}
	if r == nil || r.Available() {
		t.Fatal("expected a pending future")
	}

	pending.Emplace(21)
	await(t, r)
	if got := r.Get(); got[0] != 42 {
		t.Errorf("got %v, want [42]", got)
	}
}

func TestMapAsyncOutputsInOrder(t *testing.T) {
	pool := newTestPool(t)

	// Slots resolve on the pool after a delay; serialized pulls must
	// still observe upstream order.
	fn := &slotTransform{
		arity: 1,
		populate: func(in any, outputs []*async.Value[any], sched async.Scheduler) {
			slot := async.NewUnavailable[any]()
			outputs[0] = slot
			sched.Enqueue(func() {
				time.Sleep(time.Millisecond)
				slot.Emplace(in.(int) * 10)
			})
		},
	}

	ds, err := NewMap[int](FromSlice([]int{1, 2, 3}), fn, pool)
	if err != nil {
		t.Fatal(err)
	}
	it := ds.MakeIterator()
	defer it.Close()

	want := []int{10, 20, 30}
	for i, w := range want {
		r := it.GetNext(context.Background())
		await(t, r)
		if err := r.Err(); err != nil {
			t.Fatal(err)
		}
		if got := r.Get(); got[0] != w {
			t.Errorf("pull %d: got %v, want [%d]", i+1, got, w)
		}
	}
}

func TestMakeIteratorIndependentCursors(t *testing.T) {
	pool := newTestPool(t)
	ds, err := NewMap[int](FromSlice([]int{1, 2}), TransformFuncs(double), pool)
	if err != nil {
		t.Fatal(err)
	}

	a := ds.MakeIterator()
	defer a.Close()
	b := ds.MakeIterator()
	defer b.Close()

	ra := a.GetNext(context.Background())
	await(t, ra)
	rb := b.GetNext(context.Background())
	await(t, rb)

	if ra.Get()[0] != 2 || rb.Get()[0] != 2 {
		t.Error("expected each iterator to start from a fresh upstream cursor")
	}
}

func TestNewMapValidation(t *testing.T) {
	pool := newTestPool(t)
	fn := TransformFuncs(double)

	if _, err := NewMap[int](nil, fn, pool); pipeerrors.CodeOf(err) != pipeerrors.ErrCodeInvalidArgument {
		t.Errorf("expected INVALID_ARGUMENT for nil source, got %v", err)
	}
	if _, err := NewMap[int](FromSlice([]int{1}), nil, pool); pipeerrors.CodeOf(err) != pipeerrors.ErrCodeInvalidArgument {
		t.Errorf("expected INVALID_ARGUMENT for nil transform, got %v", err)
	}
	if _, err := NewMap[int](FromSlice([]int{1}), fn, nil); pipeerrors.CodeOf(err) != pipeerrors.ErrCodeInvalidArgument {
		t.Errorf("expected INVALID_ARGUMENT for nil scheduler, got %v", err)
	}
}
