/*
errors.go - Error kinds for the calculator engine

ERROR CATEGORIES:
  1. Client errors - bad operation name, division by zero, non-finite
     results, unparsable operands. Surfaced as 4xx, never reach the store.
  2. Store errors - the history backend could not be reached or written.
     Wrapped in *StoreError so callers can test errors.Is(err,
     ErrStoreUnavailable) and still see the driver cause.

The messages of the client errors are returned verbatim to API clients.
*/
package calc

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidOperation is returned for an unrecognized operation name.
	ErrInvalidOperation = errors.New("Invalid operation")

	// ErrDivisionByZero is returned when dividing by exactly 0.
	ErrDivisionByZero = errors.New("Cannot divide by zero!")

	// ErrNotFinite is returned when a result overflows or is not a real
	// number, e.g. 0 ^ -1 or (-8) ^ 0.5.
	ErrNotFinite = errors.New("Result is not a finite number")

	// ErrInvalidOperand is returned when an operand cannot be parsed as a
	// finite number.
	ErrInvalidOperand = errors.New("Invalid operand")

	// ErrStoreUnavailable is matched by every *StoreError.
	ErrStoreUnavailable = errors.New("history store unavailable")
)

// StoreError wraps a failure of the history backend.
type StoreError struct {
	Op  string // append, recent, records, clear, ping, migrate
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("history store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Is makes every StoreError match ErrStoreUnavailable.
func (e *StoreError) Is(target error) bool {
	return target == ErrStoreUnavailable
}

// NewStoreError wraps err for op. A nil err stays nil.
func NewStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidOperation) ||
		errors.Is(err, ErrDivisionByZero) ||
		errors.Is(err, ErrNotFinite) ||
		errors.Is(err, ErrInvalidOperand)
}
