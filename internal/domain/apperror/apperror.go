package apperror

import (
	"errors"
	"fmt"
)

var (
	// ErrConflict - an overlapping confirmed meeting exists for a participant
	ErrConflict = errors.New("schedule conflict")

	// ErrNotFound - the requested entity does not exist
	ErrNotFound = errors.New("not found")

	// ErrForbidden - the caller is not allowed to perform the operation
	ErrForbidden = errors.New("forbidden")
)

// ValidationError rejects malformed input before any query runs
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
