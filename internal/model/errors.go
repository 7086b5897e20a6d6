package model

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the store and session controller. Callers
// match them with errors.Is and turn them into reportable outcomes; they
// must never escape to the user as raw failures.
var (
	// ErrNotFound means the referenced task or entry id does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyClosed means a stop targeted an entry that already has an
	// end timestamp. The entry's duration is left untouched.
	ErrAlreadyClosed = errors.New("entry already closed")

	// ErrAlreadyActive means a start targeted a task that already has an
	// open entry. Benign: the caller reports "already active" and moves on.
	ErrAlreadyActive = errors.New("task already active")
)

// ValidationError reports rejected input: an empty task name, a malformed
// timestamp, or an end time that does not come after the start.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Reason
}

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...interface{}) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
