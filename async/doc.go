// Package async provides the asynchronous primitives the dataset
// pipeline is built on: a single-resolution future (Value) and a
// shared worker pool (Pool) that executes transform work off the
// caller's goroutine.
//
// A Value[T] is resolved exactly once, either with a concrete value
// or with an error. Continuations attached via AndThen run exactly
// once, at or after resolution, on an unspecified goroutine.
// Pipeline stages never block on a Value; they attach continuations
// and return.
//
// The Pool is process-wide by intent: many pipelines share one pool.
// Enqueue never blocks the caller and tasks run in FIFO order per
// pool. RunWhenReady joins an arbitrary set of futures and fires its
// callback once every one of them has resolved, value or error.
package async
