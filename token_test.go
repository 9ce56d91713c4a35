package session_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	session "github.com/stylefeed/go-session"
)

func mintToken(t *testing.T, exp time.Time) string {
	t.Helper()

	claims := jwt.RegisteredClaims{
		Subject:   "user-1",
		IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		ExpiresAt: jwt.NewNumericDate(exp),
	}

	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-signing-key"))
	require.NoError(t, err)
	return raw
}

func mintTokenWithoutExpiry(t *testing.T) string {
	t.Helper()

	claims := jwt.RegisteredClaims{Subject: "user-1"}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-signing-key"))
	require.NoError(t, err)
	return raw
}

func TestDecodeToken(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	raw := mintToken(t, exp)

	claims, err := session.DecodeToken(raw)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, exp.Unix(), claims.ExpiresAt.Unix())
}

func TestDecodeTokenMalformed(t *testing.T) {
	cases := []string{
		"",
		"not-a-token",
		"mock-jwt-12345",
		"a.b",
		"!!!.###.$$$",
	}

	for _, raw := range cases {
		_, err := session.DecodeToken(raw)
		assert.Error(t, err, "token %q should not decode", raw)
		assert.True(t, session.IsMalformedError(err), "token %q", raw)
	}
}

func TestIsExpired(t *testing.T) {
	t.Run("unexpired token", func(t *testing.T) {
		raw := mintToken(t, time.Now().Add(time.Hour))
		assert.False(t, session.IsExpired(raw))
	})

	t.Run("expired token", func(t *testing.T) {
		raw := mintToken(t, time.Now().Add(-time.Hour))
		assert.True(t, session.IsExpired(raw))
	})

	t.Run("malformed tokens count as expired", func(t *testing.T) {
		assert.True(t, session.IsExpired(""))
		assert.True(t, session.IsExpired("garbage"))
		assert.True(t, session.IsExpired("mock-jwt-1-1700000000"))
	})

	t.Run("missing expiry counts as expired", func(t *testing.T) {
		assert.True(t, session.IsExpired(mintTokenWithoutExpiry(t)))
	})
}
