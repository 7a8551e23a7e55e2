// Package credstore persists the local session: bearer token, login flag,
// and cached user profile. Consumers hold the Store interface by reference
// so tests can substitute an in-memory implementation.
package credstore

import (
	"context"
	"errors"
)

// Well-known keys. The interceptor reads KeyAuthToken on every request;
// the 401 handler clears all three.
const (
	KeyAuthToken  = "auth_token"
	KeyLoggedIn   = "is_logged_in"
	KeyCachedUser = "cached_user"
)

// ErrNotFound is returned by Get for an absent key.
var ErrNotFound = errors.New("credential not found")

// Store is an async key/value persistence for session material.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}
