package api

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport wraps failures to reach the backend at all.
	ErrTransport = errors.New("transport failure")

	// ErrProtocol wraps payloads that could not be decoded.
	ErrProtocol = errors.New("malformed payload")

	// ErrNoUser is returned when an authenticated call is made without a user id.
	ErrNoUser = errors.New("no user id set")
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Path    string
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api %s returned status %d: %s", e.Path, e.Status, e.Message)
	}
	return fmt.Sprintf("api %s returned status %d", e.Path, e.Status)
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == code
}
