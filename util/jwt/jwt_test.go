package jwt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIssueParseRoundTrip(t *testing.T) {
	token, err := Issue("secret", 7, "user", 1)
	require.NoError(t, err)

	claims, err := ParseAuth("Bearer "+token, "secret")
	require.NoError(t, err)
	require.Equal(t, float64(7), claims["sub"])
	require.Equal(t, "user", claims["role"])

	// The scheme prefix is optional and case-insensitive.
	claims, err = ParseAuth("bearer "+token, "secret")
	require.NoError(t, err)
	require.Equal(t, float64(7), claims["sub"])
	claims, err = ParseAuth(token, "secret")
	require.NoError(t, err)
	require.Equal(t, "user", claims["role"])
}

func TestParseAuthRejectsWrongSecret(t *testing.T) {
	token, err := Issue("secret", 7, "user", 1)
	require.NoError(t, err)

	_, err = ParseAuth("Bearer "+token, "other")
	require.Error(t, err)
}

func TestParseAuthRejectsMissingOrGarbageToken(t *testing.T) {
	_, err := ParseAuth("", "secret")
	require.Error(t, err)
	_, err = ParseAuth("Bearer ", "secret")
	require.Error(t, err)
	_, err = ParseAuth("Bearer not.a.token", "secret")
	require.Error(t, err)
}

func TestParseAuthRejectsExpiredToken(t *testing.T) {
	token, err := Issue("secret", 7, "user", -1)
	require.NoError(t, err)

	_, err = ParseAuth("Bearer "+token, "secret")
	require.Error(t, err)
}
