// Package errors provides structured, coded errors for the pipeline
// library's own failure modes: invalid constructor arguments, bad
// configuration, misused iterators.
//
// Element-level errors flowing through the data plane are opaque to
// this package. The pipeline forwards them by handle, unchanged, so
// callers can match them with errors.Is against their own sentinel
// values; nothing here ever wraps them.
package errors
