package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestJWTSigner_RoundTrip(t *testing.T) {
	signer := NewJWTSigner("test-secret")

	token, err := signer.Generate("user-42", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	subject, err := signer.Parse(token)
	require.NoError(t, err)
	require.Equal(t, "user-42", subject)
}

func TestJWTSigner_RejectsWrongKey(t *testing.T) {
	signer := NewJWTSigner("test-secret")
	other := NewJWTSigner("other-secret")

	token, err := signer.Generate("user-42", time.Hour)
	require.NoError(t, err)

	_, err = other.Parse(token)
	require.Error(t, err)
}

func TestJWTSigner_RejectsExpiredToken(t *testing.T) {
	signer := NewJWTSigner("test-secret")

	token, err := signer.Generate("user-42", -time.Minute)
	require.NoError(t, err)

	_, err = signer.Parse(token)
	require.Error(t, err)
}

func TestJWTSigner_RejectsGarbage(t *testing.T) {
	signer := NewJWTSigner("test-secret")

	_, err := signer.Parse("not-a-token")
	require.Error(t, err)
}
