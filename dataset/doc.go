// Package dataset provides pull-based, asynchronous dataset
// composition. A Dataset is a repeatable producer of elements; an
// Iterator is its forward-only cursor, yielding one future per pull.
//
// The central operator is the map decorator (NewMap): it wraps an
// upstream Dataset and a Transform, offloading transform execution to
// a shared worker pool so that pulling never blocks the caller. Each
// pull on the decorated iterator advances the upstream cursor by one
// element, schedules the transform, and resolves a single future with
// the packed outputs (a Tuple), an error, or end-of-stream.
//
// Contracts:
//
//   - GetNext never blocks and never fails synchronously; failures
//     surface only through the returned future's error channel.
//   - A nil future from GetNext means end-of-stream, a terminal
//     signal distinct from any error.
//   - Errors are forwarded by handle, never wrapped, so upstream and
//     transform error identity is preserved for the consumer.
//   - Results arrive in upstream emission order. A single iterator's
//     pulls must be serialized by the consumer: do not call GetNext
//     again before the previous future has resolved.
package dataset
