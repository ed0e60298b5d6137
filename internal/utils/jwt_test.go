package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	accessSecret  = "access-secret-for-tests-0123456789abcdef"
	refreshSecret = "refresh-secret-for-tests-0123456789abcdef"
)

func newTestManager(accessExpiry, refreshExpiry time.Duration) *JWTManager {
	return NewJWTManager(accessSecret, refreshSecret, accessExpiry, refreshExpiry)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	m := newTestManager(time.Hour, 7*24*time.Hour)

	token, err := m.GenerateAccessToken("user-1", "user@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Greater(t, claims.Exp, time.Now().Unix())
}

func TestAccessTokenExpired(t *testing.T) {
	m := newTestManager(-time.Minute, 7*24*time.Hour)

	token, err := m.GenerateAccessToken("user-1", "user@example.com")
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestAccessTokenWrongSecret(t *testing.T) {
	m := newTestManager(time.Hour, 7*24*time.Hour)
	other := NewJWTManager("another-access-secret-that-is-long-enough", refreshSecret, time.Hour, time.Hour)

	token, err := m.GenerateAccessToken("user-1", "user@example.com")
	require.NoError(t, err)

	_, err = other.ValidateAccessToken(token)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrTokenExpired)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	m := newTestManager(time.Hour, 7*24*time.Hour)

	token, err := m.GenerateRefreshToken("user-1")
	require.NoError(t, err)

	userID, err := m.ValidateRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestRefreshTokenExpired(t *testing.T) {
	m := newTestManager(time.Hour, -time.Minute)

	token, err := m.GenerateRefreshToken("user-1")
	require.NoError(t, err)

	_, err = m.ValidateRefreshToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

// The two token kinds must never cross-validate: a refresh token is not a
// valid access token and vice versa, because the secrets differ.
func TestTokenKindsDoNotCrossValidate(t *testing.T) {
	m := newTestManager(time.Hour, 7*24*time.Hour)

	refresh, err := m.GenerateRefreshToken("user-1")
	require.NoError(t, err)
	_, err = m.ValidateAccessToken(refresh)
	assert.Error(t, err)

	access, err := m.GenerateAccessToken("user-1", "user@example.com")
	require.NoError(t, err)
	_, err = m.ValidateRefreshToken(access)
	assert.Error(t, err)
}

func TestRefreshTokensAreUnique(t *testing.T) {
	m := newTestManager(time.Hour, 7*24*time.Hour)

	a, err := m.GenerateRefreshToken("user-1")
	require.NoError(t, err)
	b, err := m.GenerateRefreshToken("user-1")
	require.NoError(t, err)

	// jti makes concurrent sessions distinguishable
	assert.NotEqual(t, a, b)
}

func TestGetAccessTokenExpiry(t *testing.T) {
	m := newTestManager(time.Hour, 7*24*time.Hour)
	assert.Equal(t, 3600, m.GetAccessTokenExpiry())
}
