package errors

import "fmt"

// PipelineError is the unified error type for library failures.
type PipelineError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *PipelineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *PipelineError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *PipelineError) WithCause(cause error) *PipelineError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *PipelineError) WithDetail(key string, value any) *PipelineError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new PipelineError.
func New(code ErrorCode, message string) *PipelineError {
	return &PipelineError{Code: code, Message: message}
}

// --- Common Error Constructors ---

// InvalidArgument creates an error for a contract-violating argument.
func InvalidArgument(what string) *PipelineError {
	return &PipelineError{
		Code:    ErrCodeInvalidArgument,
		Message: fmt.Sprintf("invalid argument: %s", what),
	}
}

// InvalidConfig creates an error for configuration that failed to
// load or validate.
func InvalidConfig(what string) *PipelineError {
	return &PipelineError{
		Code:    ErrCodeInvalidConfig,
		Message: fmt.Sprintf("invalid configuration: %s", what),
	}
}

// Closed creates an error for an operation on a closed resource.
func Closed(what string) *PipelineError {
	return &PipelineError{
		Code:    ErrCodeClosed,
		Message: fmt.Sprintf("%s is closed", what),
	}
}

// Internal creates an error for an unexpected internal failure.
func Internal(message string) *PipelineError {
	return &PipelineError{Code: ErrCodeInternal, Message: message}
}

// CodeOf extracts the ErrorCode from err if it is (or wraps) a
// PipelineError; otherwise it returns the empty code.
func CodeOf(err error) ErrorCode {
	var pe *PipelineError
	if As(err, &pe) {
		return pe.Code
	}
	return ""
}
