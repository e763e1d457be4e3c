package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("api-side-secret"))
	require.NoError(t, err)
	return token
}

func TestParseClaims(t *testing.T) {
	token := signedToken(t, Claims{
		Email:    "ada@example.com",
		Username: "ada",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: "user-42",
		},
	})

	claims, err := ParseClaims(token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", claims.UserIdentifier())
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, "ada", claims.DisplayName())
}

func TestParseClaimsPrefersExplicitUserID(t *testing.T) {
	token := signedToken(t, Claims{
		UserID:           "u-1",
		Name:             "Ada Lovelace",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "ignored"},
	})

	claims, err := ParseClaims(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserIdentifier())
	assert.Equal(t, "Ada Lovelace", claims.DisplayName())
}

func TestParseClaimsRejectsOpaqueTokens(t *testing.T) {
	_, err := ParseClaims("not-a-jwt")
	assert.Error(t, err)
}

func TestExpired(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	past := signedToken(t, Claims{RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(-time.Minute)),
	}})
	future := signedToken(t, Claims{RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}})
	noExp := signedToken(t, Claims{Email: "ada@example.com"})

	assert.True(t, Expired(past, now))
	assert.False(t, Expired(future, now))
	assert.False(t, Expired(noExp, now))
	assert.False(t, Expired("opaque-token", now))
}
