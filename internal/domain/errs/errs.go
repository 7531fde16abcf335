// Package errs holds the error kinds shared by the stores and the profile
// model. Callers match them with errors.Is; the concrete message is kept on
// the wrapped error so it can be shown to the user verbatim.
package errs

import (
	"errors"
	"fmt"
)

// Sentinel kinds.
var (
	// ErrValidation marks malformed input rejected before any boundary call.
	ErrValidation = errors.New("validation failed")
	// ErrDuplicateApplication marks a second application to the same trial.
	ErrDuplicateApplication = errors.New("you have already applied for this trial")
	// ErrNullProfile is returned when merging into an absent profile.
	ErrNullProfile = errors.New("cannot update a null profile")
	// ErrUnknownVariant means a profile carried a type tag no variant matches.
	ErrUnknownVariant = errors.New("unknown user type")
	// ErrBoundary marks a failure reported by the data-access boundary.
	ErrBoundary = errors.New("data access failed")
)

// kindError pairs a kind sentinel with a user-facing message.
type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Is(target error) bool { return target == e.kind }

// Validation returns an error matching ErrValidation whose message is msg.
func Validation(msg string) error {
	return &kindError{kind: ErrValidation, msg: msg}
}

// Validationf is Validation with formatting.
func Validationf(format string, args ...any) error {
	return &kindError{kind: ErrValidation, msg: fmt.Sprintf(format, args...)}
}

// UnknownVariant returns an error matching ErrUnknownVariant naming the tag.
func UnknownVariant(tag any) error {
	return &kindError{kind: ErrUnknownVariant, msg: fmt.Sprintf("unknown user type: %v", tag)}
}

// Message renders err for a store's error field. A nil error yields "".
func Message(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
