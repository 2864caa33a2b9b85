package api

import (
	"errors"
	"fmt"
)

var (
	ErrNoToken      = errors.New("no session token")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrUnavailable  = errors.New("server unavailable")
	ErrRejected     = errors.New("rejected by server")
)

// StatusError describes a non-2xx response. It unwraps to one of the
// sentinel errors above.
type StatusError struct {
	StatusCode int
	Message    string
	kind       error
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s (status %d)", e.kind, e.StatusCode)
	}
	return fmt.Sprintf("%s (status %d): %s", e.kind, e.StatusCode, e.Message)
}

func (e *StatusError) Unwrap() error { return e.kind }
