package async

import "sync"

// Future is the read-side view of a Value, independent of its element
// type. Heterogeneous sets of futures (e.g. the output slots of a
// transform) travel as []Future.
type Future interface {
	// AndThen registers fn to run exactly once, at or after resolution,
	// on an unspecified goroutine. If the future is already resolved,
	// fn runs on the calling goroutine before AndThen returns.
	AndThen(fn func())
	// Available reports whether the future has resolved (value or error).
	Available() bool
	// Err returns the resolution error, or nil if unresolved or
	// resolved with a value.
	Err() error
}

// Value is a single-resolution asynchronous result. It is tri-state:
// unresolved, resolved with a concrete T, or resolved with an error.
// Exactly one call to Emplace or SetError ever succeeds; a second
// resolution attempt panics. Handles are shared by pointer; dropping
// every handle before resolution simply leaves the resolution
// unobserved.
type Value[T any] struct {
	mu    sync.Mutex
	done  bool
	val   T
	err   error
	conts []func()
}

// NewUnavailable returns an unresolved Value.
func NewUnavailable[T any]() *Value[T] {
	return &Value[T]{}
}

// NewValue returns a Value already resolved with v.
func NewValue[T any](v T) *Value[T] {
	return &Value[T]{done: true, val: v}
}

// NewError returns a Value already resolved with err.
func NewError[T any](err error) *Value[T] {
	if err == nil {
		panic("async: NewError with nil error")
	}
	return &Value[T]{done: true, err: err}
}

// Emplace resolves the value with v. Panics if already resolved.
func (v *Value[T]) Emplace(val T) {
	v.mu.Lock()
	if v.done {
		v.mu.Unlock()
		panic("async: Value resolved twice")
	}
	v.done = true
	v.val = val
	conts := v.conts
	v.conts = nil
	v.mu.Unlock()

	for _, fn := range conts {
		fn()
	}
}

// SetError resolves the value with err. Panics if already resolved or
// if err is nil.
func (v *Value[T]) SetError(err error) {
	if err == nil {
		panic("async: SetError with nil error")
	}
	v.mu.Lock()
	if v.done {
		v.mu.Unlock()
		panic("async: Value resolved twice")
	}
	v.done = true
	v.err = err
	conts := v.conts
	v.conts = nil
	v.mu.Unlock()

	for _, fn := range conts {
		fn()
	}
}

// AndThen registers fn to run exactly once, at or after resolution.
// If the value is already resolved, fn runs inline.
func (v *Value[T]) AndThen(fn func()) {
	v.mu.Lock()
	if !v.done {
		v.conts = append(v.conts, fn)
		v.mu.Unlock()
		return
	}
	v.mu.Unlock()
	fn()
}

// Available reports whether the value has resolved.
func (v *Value[T]) Available() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.done
}

// Err returns the resolution error, or nil.
func (v *Value[T]) Err() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.err
}

// Get returns the resolved value. The caller must have established
// that the value is available and not an error, e.g. from inside an
// AndThen continuation; calling Get earlier is a contract violation.
func (v *Value[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.done {
		panic("async: Get on unresolved Value")
	}
	if v.err != nil {
		panic("async: Get on errored Value")
	}
	return v.val
}

// RunWhenReady invokes fn exactly once after every future in futures
// has resolved, value or error, in any order. fn runs on whichever
// goroutine resolves the last future, or inline when all futures are
// already resolved. An empty set fires immediately.
func RunWhenReady(futures []Future, fn func()) {
	remaining := int64(len(futures))
	if remaining == 0 {
		fn()
		return
	}
	var mu sync.Mutex
	for _, f := range futures {
		f.AndThen(func() {
			mu.Lock()
			remaining--
			last := remaining == 0
			mu.Unlock()
			if last {
				fn()
			}
		})
	}
}
