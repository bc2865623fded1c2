// Package shared holds sentinel errors used across the client.
package shared

import "errors"

var (
	// ErrInvalidArgument marks a caller bug: a missing or malformed
	// required input. It is always raised, never swallowed.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound means the entity does not exist, either remotely or
	// because it was deleted locally.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized means the session token is missing or rejected.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrUnavailable means the remote API could not be reached at all
	// (transport failure or timeout, as opposed to an HTTP error status).
	ErrUnavailable = errors.New("server unavailable")
)
