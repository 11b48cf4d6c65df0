package auth

import (
	"context"
	"moodmatch/backend/internal/storage"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *Manager {
	return NewManager("test-secret", "moodmatch-test", time.Hour, storage.NewMemorySessionStore())
}

func TestIssueAndAuthenticate(t *testing.T) {
	// Arrange
	m := newTestManager()
	ctx := context.Background()

	// Act
	token, issued, err := m.Issue(42, "alice")
	require.NoError(t, err)
	id, err := m.Authenticate(ctx, token)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, uint(42), id.UserID)
	assert.Equal(t, "alice", id.Name)
	assert.Equal(t, issued.SessionID, id.SessionID)
	assert.NotEmpty(t, id.SessionID)
}

func TestAuthenticate_Rejects(t *testing.T) {
	m := newTestManager()
	ctx := context.Background()
	token, _, err := m.Issue(1, "alice")
	require.NoError(t, err)

	t.Run("empty", func(t *testing.T) {
		_, err := m.Authenticate(ctx, "")
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := m.Authenticate(ctx, "not-a-token")
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("other secret", func(t *testing.T) {
		other := NewManager("another-secret", "moodmatch-test", time.Hour, storage.NewMemorySessionStore())
		_, err := other.Authenticate(ctx, token)
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("other issuer", func(t *testing.T) {
		other := NewManager("test-secret", "someone-else", time.Hour, storage.NewMemorySessionStore())
		_, err := other.Authenticate(ctx, token)
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("expired", func(t *testing.T) {
		later := newTestManager()
		later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err := later.Authenticate(ctx, token)
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("wrong algorithm", func(t *testing.T) {
		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
			SessionID: "sid",
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "1",
				Issuer:    "moodmatch-test",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		})
		raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = m.Authenticate(ctx, raw)
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})
}

func TestRevoke(t *testing.T) {
	m := newTestManager()
	ctx := context.Background()
	token, _, err := m.Issue(7, "bob")
	require.NoError(t, err)
	id, err := m.Authenticate(ctx, token)
	require.NoError(t, err)

	require.NoError(t, m.Revoke(ctx, id))

	_, err = m.Authenticate(ctx, token)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	// A new login gets a new session.
	fresh, _, err := m.Issue(7, "bob")
	require.NoError(t, err)
	_, err = m.Authenticate(ctx, fresh)
	assert.NoError(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	require.NoError(t, err)

	assert.NotEqual(t, "s3cret!", hash)
	assert.True(t, CheckPassword(hash, "s3cret!"))
	assert.False(t, CheckPassword(hash, "wrong"))
	assert.False(t, CheckPassword("not-a-hash", "s3cret!"))
}
