package service

import "errors"

// ErrUnauthenticated is returned by every pipeline when no session exists.
// The message is shown to the user as-is.
var ErrUnauthenticated = errors.New("You must be logged in")

// ValidationError reports a malformed or out-of-range field with a
// user-facing message.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// ForbiddenError reports that the session does not own the target record.
// The message is specific to the attempted action.
type ForbiddenError struct {
	Msg string
}

func (e *ForbiddenError) Error() string { return e.Msg }

// PersistenceError reports a failed store call. Msg is the user-facing
// message; the underlying store error stays attached for logging.
type PersistenceError struct {
	Msg string
	Err error
}

func (e *PersistenceError) Error() string { return e.Msg }

func (e *PersistenceError) Unwrap() error { return e.Err }

// failureReason labels an error for the failure metric.
func failureReason(err error) string {
	var (
		ve *ValidationError
		fe *ForbiddenError
		pe *PersistenceError
	)
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return "unauthenticated"
	case errors.As(err, &fe):
		return "unauthorized"
	case errors.As(err, &ve):
		return "validation"
	case errors.As(err, &pe):
		return "persistence"
	default:
		return "internal"
	}
}
