package fetchapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrUnauthorized is returned for any 401 answer from the upstream service.
	ErrUnauthorized = errors.New("fetch api: unauthorized")
	// ErrUpstream wraps transport failures and non-2xx answers other than 401.
	ErrUpstream = errors.New("fetch api: upstream error")
	// ErrForeignCursor is returned when a cursor resolves outside the configured base URL.
	ErrForeignCursor = errors.New("fetch api: cursor points outside the service")
	// ErrTooManyIDs is returned when a lookup exceeds MaxDogsPerLookup.
	ErrTooManyIDs = errors.New("fetch api: too many ids for a single lookup")
)

// StatusError describes a non-2xx upstream answer.
type StatusError struct {
	Op         string
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("fetch api %s: %s", e.Op, e.Status)
	if body := strings.TrimSpace(e.Body); body != "" {
		msg = fmt.Sprintf("%s: %s", msg, body)
	}
	return msg
}

// Unwrap lets callers match ErrUnauthorized or ErrUpstream with errors.Is.
func (e *StatusError) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return ErrUpstream
}

func transportError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrUpstream, op, err)
}
