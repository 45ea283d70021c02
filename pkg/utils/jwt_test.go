package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessToken_RoundTrip(t *testing.T) {
	InitJWT("access", "refresh", time.Minute, time.Hour)

	token, err := GenerateAccessToken("u-1", "ada@example.com", "staff")
	require.NoError(t, err)

	claims, err := ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, "staff", claims.Role)
	assert.NotEmpty(t, claims.ID)
}

func TestValidateAccessToken_WrongSecret(t *testing.T) {
	InitJWT("access", "refresh", time.Minute, time.Hour)
	token, err := GenerateAccessToken("u-1", "ada@example.com", "donor")
	require.NoError(t, err)

	InitJWT("other", "refresh", time.Minute, time.Hour)
	_, err = ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestValidateAccessToken_Expired(t *testing.T) {
	InitJWT("access", "refresh", -time.Minute, time.Hour)
	token, err := GenerateAccessToken("u-1", "ada@example.com", "donor")
	require.NoError(t, err)

	_, err = ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestHashToken_Deterministic(t *testing.T) {
	assert.Equal(t, HashToken("abc"), HashToken("abc"))
	assert.NotEqual(t, HashToken("abc"), HashToken("abd"))
	assert.Len(t, HashToken("abc"), 64)
}

func TestPassword_HashAndCompare(t *testing.T) {
	hash, err := HashPassword("abc123")
	require.NoError(t, err)
	assert.True(t, ComparePassword(hash, "abc123"))
	assert.False(t, ComparePassword(hash, "abc124"))
}
