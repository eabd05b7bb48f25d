package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind discriminates API failure classes.
type Kind int

const (
	// KindNetwork means the request was sent but no response was received.
	KindNetwork Kind = iota + 1
	// KindServer means the server responded with status >= 500.
	KindServer
	// KindClient means any other non-2xx response, typically carrying a
	// structured error body.
	KindClient
)

// Error is the discriminated error returned by all client calls.
type Error struct {
	Kind    Kind
	Status  int
	Code    string
	Message string
	// Hint is an optional server-supplied remediation hint.
	Hint string
	// Cause is the underlying transport error for network failures.
	Cause error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindNetwork:
		return fmt.Sprintf("network error: %v", e.Cause)
	case KindServer:
		return fmt.Sprintf("server error (status %d): %s", e.Status, e.Message)
	default:
		return fmt.Sprintf("request failed (status %d): %s", e.Status, e.Message)
	}
}

func (e *Error) Unwrap() error { return e.Cause }

// AsError returns the *Error inside err, if any.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsNotFound reports whether err is a client error with HTTP 404.
func IsNotFound(err error) bool {
	apiErr, ok := AsError(err)
	return ok && apiErr.Status == http.StatusNotFound
}

// UserMessage extracts a user-facing message from err following the priority
// order: server error field, server message field, error text, fallback.
func UserMessage(err error, fallback string) string {
	apiErr, ok := AsError(err)
	if !ok {
		if err != nil && err.Error() != "" {
			return err.Error()
		}
		return fallback
	}
	if apiErr.Message != "" {
		return apiErr.Message
	}
	if apiErr.Cause != nil {
		return apiErr.Cause.Error()
	}
	return fallback
}
