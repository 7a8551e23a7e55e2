package credstore

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/arcana-app/arcana-go/internal/models"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user_1",
		"exp": exp.Unix(),
	})
	s, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func TestSessionTokenLifecycle(t *testing.T) {
	session := NewSession(NewMemoryStore())
	ctx := context.Background()

	require.Empty(t, session.Token(ctx), "missing token reads as empty, not an error")

	require.NoError(t, session.SetToken(ctx, "tok"))
	require.Equal(t, "tok", session.Token(ctx))
}

func TestSessionClearRemovesEverything(t *testing.T) {
	store := NewMemoryStore()
	session := NewSession(store)
	ctx := context.Background()

	require.NoError(t, session.SetToken(ctx, "tok"))
	require.NoError(t, session.SetCachedUser(ctx, &models.CachedUser{ID: "u1", Email: "u@example.com"}))

	require.NoError(t, session.Clear(ctx))

	require.Empty(t, session.Token(ctx))
	require.Nil(t, session.CachedUser(ctx))
	_, err := store.Get(ctx, KeyLoggedIn)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSessionCachedUserRoundTrip(t *testing.T) {
	session := NewSession(NewMemoryStore())
	ctx := context.Background()

	require.Nil(t, session.CachedUser(ctx))

	user := &models.CachedUser{ID: "u1", Email: "u@example.com", Premium: true}
	require.NoError(t, session.SetCachedUser(ctx, user))

	got := session.CachedUser(ctx)
	require.NotNil(t, got)
	require.Equal(t, "u1", got.ID)
	require.True(t, got.Premium)
}

func TestSessionTokenExpired(t *testing.T) {
	session := NewSession(NewMemoryStore())
	ctx := context.Background()
	now := time.Now()

	// No token: not expired.
	require.False(t, session.TokenExpired(ctx, now))

	// Live token.
	require.NoError(t, session.SetToken(ctx, signedToken(t, now.Add(time.Hour))))
	require.False(t, session.TokenExpired(ctx, now))

	// Past expiry.
	require.NoError(t, session.SetToken(ctx, signedToken(t, now.Add(-time.Hour))))
	require.True(t, session.TokenExpired(ctx, now))

	// Opaque (non-JWT) tokens are left for the server to judge.
	require.NoError(t, session.SetToken(ctx, "opaque-token"))
	require.False(t, session.TokenExpired(ctx, now))
}
