package client

import (
	"errors"
	"fmt"
)

// ErrSessionInvalid marks failures meaning the caller's session is no longer
// usable (expired or revoked token). The client surfaces it as a distinct
// signal instead of performing any navigation side effect; callers decide
// how to react.
var ErrSessionInvalid = errors.New("session invalid")

// APIError is a failure for which a response was received. StatusCode 0
// never appears on a real APIError; transport failures are returned as the
// underlying error instead.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	// RedirectPath is set on auth failures when the server suggests where
	// an interactive caller should navigate.
	RedirectPath string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api error %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a 404 response.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 404
}

// IsSessionInvalid reports whether err means the session must be
// re-established.
func IsSessionInvalid(err error) bool {
	return errors.Is(err, ErrSessionInvalid)
}
