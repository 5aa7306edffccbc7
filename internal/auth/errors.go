package auth

import "errors"

// Sentinel errors for authentication and authorization. HTTP status
// mapping happens once, at the handler boundary.
var (
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrDuplicateEmail     = errors.New("auth: email already registered")
	ErrMissingToken       = errors.New("auth: missing bearer token")
	ErrInvalidToken       = errors.New("auth: invalid or expired token")
	ErrForbidden          = errors.New("auth: access denied")
)

// ValidationError reports a missing or malformed input field.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }
