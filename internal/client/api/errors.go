package api

import (
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/dirkeeper/internal/shared"
)

// APIError is a normalized remote failure: either a transport error
// (Status == 0, wraps shared.ErrUnavailable) or a non-2xx response with the
// server's message when it sent one.
type APIError struct {
	// Status is the HTTP status code, or 0 for transport failures.
	Status int
	// Message is the server's "message"/"error" field, or "HTTP <status>".
	Message string
	// Err is the matching sentinel, if any.
	Err error
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// newTransportError wraps a failed round trip.
func newTransportError(err error) *APIError {
	return &APIError{
		Message: fmt.Sprintf("network error: %v", err),
		Err:     shared.ErrUnavailable,
	}
}

// newStatusError normalizes a non-2xx response.
func newStatusError(status int, message string) *APIError {
	if message == "" {
		message = fmt.Sprintf("HTTP %d", status)
	}
	e := &APIError{Status: status, Message: message}
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		e.Err = shared.ErrUnauthorized
	case http.StatusNotFound:
		e.Err = shared.ErrNotFound
	}
	return e
}
