package credstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/arcana-app/arcana-go/internal/models"
)

// Session wraps a Store with the client's session semantics. It is the
// single writer/clearer of session state: the interceptor reads the token
// through it and the 401 handler clears through it, so a logout is never
// observed half-applied.
type Session struct {
	store Store
}

// NewSession binds session semantics to a store.
func NewSession(store Store) *Session {
	return &Session{store: store}
}

// Token returns the stored bearer token, or empty when absent. Read
// failures are swallowed: an unauthenticated request is preferable to a
// failed one, the server rejects if auth was required.
func (s *Session) Token(ctx context.Context) string {
	token, err := s.store.Get(ctx, KeyAuthToken)
	if err != nil {
		return ""
	}
	return token
}

// SetToken stores the bearer token and marks the session logged in.
func (s *Session) SetToken(ctx context.Context, token string) error {
	if err := s.store.Set(ctx, KeyAuthToken, token); err != nil {
		return err
	}
	return s.store.Set(ctx, KeyLoggedIn, "true")
}

// Clear tears the whole session down: token, login flag, cached user.
// Called on explicit logout and on a 401; stale credentials won't self-heal.
func (s *Session) Clear(ctx context.Context) error {
	var firstErr error
	for _, key := range []string{KeyAuthToken, KeyLoggedIn, KeyCachedUser} {
		if err := s.store.Remove(ctx, key); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// CachedUser returns the locally cached profile, or nil when absent or
// unreadable.
func (s *Session) CachedUser(ctx context.Context) *models.CachedUser {
	raw, err := s.store.Get(ctx, KeyCachedUser)
	if err != nil {
		return nil
	}
	var user models.CachedUser
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil
	}
	return &user
}

// SetCachedUser persists the profile blob.
func (s *Session) SetCachedUser(ctx context.Context, user *models.CachedUser) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal cached user: %w", err)
	}
	return s.store.Set(ctx, KeyCachedUser, string(raw))
}

// TokenExpired inspects the stored token's exp claim without verifying
// the signature (the client has no key material; the server remains the
// authority). Returns true only when the token is present, parseable, and
// past its expiry, letting the client tear down a dead session without a
// round trip. Unparseable tokens report false and get settled by a 401.
func (s *Session) TokenExpired(ctx context.Context, now time.Time) bool {
	token := s.Token(ctx)
	if token == "" {
		return false
	}
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}
