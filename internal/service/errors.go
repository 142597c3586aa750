package service

import "errors"

// Error kinds. Callers match them with errors.Is on a returned *Error.
var (
	ErrValidation       = errors.New("validation error")
	ErrNotFound         = errors.New("not found")
	ErrUnavailable      = errors.New("unavailable")
	ErrInvalidPrice     = errors.New("invalid price")
	ErrInvalidSignature = errors.New("invalid signature")
	ErrUnauthorized     = errors.New("unauthorized")
)

// Error carries a user facing message together with its kind. Any error that
// is not an *Error is unexpected and must not be shown to the caller verbatim.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// IsHandled reports whether err belongs to the known taxonomy.
func IsHandled(err error) bool {
	var e *Error
	return errors.As(err, &e)
}
