package jwt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken(7, "alice", []string{"USER", "ADMIN"}, "secret", 15)
	require.NoError(t, err)

	claims, err := ValidateAccessToken(token, "secret")
	require.NoError(t, err)
	require.EqualValues(t, 7, claims.UserID)
	require.Equal(t, "alice", claims.Username)
	require.Equal(t, []string{"USER", "ADMIN"}, claims.Roles)
	require.Equal(t, "rentvideo", claims.Issuer)
}

func TestAccessTokenWrongSecret(t *testing.T) {
	token, err := GenerateAccessToken(7, "alice", []string{"USER"}, "secret", 15)
	require.NoError(t, err)

	_, err = ValidateAccessToken(token, "other-secret")
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestExpiredAccessToken(t *testing.T) {
	token, err := GenerateAccessToken(7, "alice", []string{"USER"}, "secret", -1)
	require.NoError(t, err)

	_, err = ValidateAccessToken(token, "secret")
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	token, err := GenerateRefreshToken(7, "token-id-1", "refresh-secret", 7)
	require.NoError(t, err)

	claims, err := ValidateRefreshToken(token, "refresh-secret")
	require.NoError(t, err)
	require.EqualValues(t, 7, claims.UserID)
	require.Equal(t, "token-id-1", claims.TokenID)
}

func TestRefreshTokenNotValidAsAccessToken(t *testing.T) {
	refresh, err := GenerateRefreshToken(7, "token-id-1", "refresh-secret", 7)
	require.NoError(t, err)

	_, err = ValidateAccessToken(refresh, "secret")
	require.ErrorIs(t, err, ErrTokenInvalid)
}
