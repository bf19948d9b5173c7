package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

const (
	// ErrCodeInvalidArgument indicates a constructor or operation was
	// given an argument that violates its contract.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// ErrCodeInvalidConfig indicates configuration failed to load or
	// validate.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
	// ErrCodeClosed indicates an operation on an already-closed
	// iterator or pool.
	ErrCodeClosed ErrorCode = "CLOSED"
	// ErrCodeInternal indicates an unexpected internal failure.
	ErrCodeInternal ErrorCode = "INTERNAL"
)
