// Package metadata provides a small key/value blob store backed by SQLite.
// It holds the pieces of client state that must survive restarts: the user
// overlay, the bearer token, and the cached profile of the signed-in user.
package metadata

import "context"

// Well-known keys.
const (
	// KeyOverlay holds the JSON-encoded overlay store (patches/created/deleted).
	KeyOverlay = "localUsersStore"
	// KeyToken holds the bearer token of the current session.
	KeyToken = "token"
	// KeyCurrentUser holds the last-known profile of the signed-in user,
	// kept for instant display on the next start.
	KeyCurrentUser = "currentUser"
)

// Repository describes persistent key/value operations.
//
// Contract: Get returns (nil, nil) when the key does not exist, so callers
// can treat "missing" and "empty" uniformly without error plumbing.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
