package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, userID string, expiresAt time.Time) string {
	t.Helper()

	claims := &Claims{
		UserID: userID,
		Email:  "shopper@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now().UTC()),
		},
	}

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("upstream-secret"))
	require.NoError(t, err)
	return tok
}

func TestPeekReadsClaimsWithoutSecret(t *testing.T) {
	tok := signedToken(t, "user-42", time.Now().Add(time.Hour))

	claims, err := Peek(tok)

	require.NoError(t, err)
	assert.Equal(t, "user-42", claims.UserID)
	assert.Equal(t, "shopper@example.com", claims.Email)
}

func TestPeekRejectsGarbage(t *testing.T) {
	_, err := Peek("not-a-jwt")
	assert.Error(t, err)
}

func TestIsExpired(t *testing.T) {
	assert.False(t, IsExpired(signedToken(t, "u", time.Now().Add(time.Hour))))
	assert.True(t, IsExpired(signedToken(t, "u", time.Now().Add(-time.Minute))))
	assert.True(t, IsExpired("garbage"))
}

func TestExtractFromHeader(t *testing.T) {
	assert.Equal(t, "abc.def.ghi", ExtractFromHeader("Bearer abc.def.ghi"))
	assert.Equal(t, "", ExtractFromHeader("Basic abc"))
	assert.Equal(t, "", ExtractFromHeader(""))
	assert.Equal(t, "", ExtractFromHeader("Bearer"))
}
