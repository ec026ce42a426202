package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	m := NewManager("test-secret", 15)

	token, err := m.GenerateAccessToken("user-123", "a@b.com", "collector", 3)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)

	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "a@b.com", claims.Email)
	assert.Equal(t, "collector", claims.Role)
	assert.Equal(t, 3, claims.TokenVersion)
	assert.Equal(t, "access", claims.Type)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	m := NewManager("test-secret", 15)

	token, err := m.GenerateRefreshToken("user-123", 7)
	require.NoError(t, err)

	claims, err := m.ValidateRefreshToken(token)
	require.NoError(t, err)

	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, 7, claims.TokenVersion)
	assert.Equal(t, "refresh", claims.Type)
}

func TestValidateAccessToken_RejectsRefreshToken(t *testing.T) {
	m := NewManager("test-secret", 15)

	token, err := m.GenerateRefreshToken("user-123", 0)
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestValidateToken_RejectsWrongSecret(t *testing.T) {
	m := NewManager("test-secret", 15)
	other := NewManager("different-secret", 15)

	token, err := m.GenerateAccessToken("user-123", "a@b.com", "collector", 0)
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateToken_RejectsGarbage(t *testing.T) {
	m := NewManager("test-secret", 15)

	_, err := m.ValidateToken("not.a.token")
	assert.Error(t, err)
}
