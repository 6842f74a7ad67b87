package shared

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an operation targets an entity that does not
// exist. The HTTP layer maps it to a 404; it is never retried.
var ErrNotFound = errors.New("not found")

// ValidationError reports input that violates a domain rule, such as a claim
// with a non-positive quantity or deleting the last grocery store.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// Validationf builds a ValidationError with a formatted message.
func Validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
