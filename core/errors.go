package core

import "github.com/pkg/errors"

var (
	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConstraintViolation is returned on unique-key conflicts.
	ErrConstraintViolation = errors.New("constraint violation")
	// ErrUnauthorized is returned on credential mismatch.
	ErrUnauthorized = errors.New("unauthorized")
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		if len(err.Fields) > 0 {
			return err.Fields[0].Field + ": " + err.Fields[0].Error
		}
		return "validation failed"
	}
	return err.Err.Error()
}

// IsStoreFailure reports whether err is an unclassified (engine level) failure.
func IsStoreFailure(err error) bool {
	if err == nil {
		return false
	}
	switch errors.Cause(err).(type) {
	case *ValidationError, ValidationError:
		return false
	}
	switch errors.Cause(err) {
	case ErrNotFound, ErrConstraintViolation, ErrUnauthorized:
		return false
	}
	return !isValidatorError(err)
}
