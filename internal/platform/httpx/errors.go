package httpx

import (
	"errors"
	"net/http"

	"github.com/commune-social/commune/internal/shared"
)

// RespondError maps domain errors to HTTP responses. Infrastructure failures
// surface as an opaque 500; callers log the detail server-side.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrInvalidCredentials):
		Errors(w, http.StatusBadRequest, "Invalid username or password")
	case errors.Is(err, shared.ErrDuplicateAccount):
		Errors(w, http.StatusBadRequest, "User already exists")
	case errors.Is(err, shared.ErrTooManyAttempts):
		Errors(w, http.StatusTooManyRequests, "Too many login attempts, please try again later")
	case errors.Is(err, shared.ErrInvalidToken):
		Message(w, http.StatusUnauthorized, "Token is not valid")
	default:
		Message(w, http.StatusInternalServerError, "Server error")
	}
}
