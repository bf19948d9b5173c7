package errors

import stderrors "errors"

// Is reports whether any error in err's chain matches target.
// Re-exported so callers do not need to import both this package and
// the standard library's errors.
func Is(err, target error) bool { return stderrors.Is(err, target) }

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool { return stderrors.As(err, target) }
