package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrDuplicateAccount occurs when an email is already registered.
	ErrDuplicateAccount = errors.New("account already exists")
	// ErrInvalidToken occurs when a bearer token fails verification.
	ErrInvalidToken = errors.New("token is not valid")
	// ErrTooManyAttempts occurs when login attempts exceed the allowed rate.
	ErrTooManyAttempts = errors.New("too many login attempts")
)
