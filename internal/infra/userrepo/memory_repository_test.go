package userrepo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/gearbox/internal/domain/auth"
)

func TestMemoryDirectory_CreateAndVerify(t *testing.T) {
	directory := NewMemoryDirectory()

	user, err := directory.Create(context.Background(), "test@example.com", "testuser", "ValidPass123!")
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)
	require.NotEqual(t, "ValidPass123!", user.PasswordHash)

	found, ok, err := directory.FindByEmail(context.Background(), "test@example.com")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, user.ID, found.ID)

	match, err := directory.VerifyPassword(context.Background(), found, "ValidPass123!")
	require.NoError(t, err)
	require.True(t, match)

	match, err = directory.VerifyPassword(context.Background(), found, "WrongPass123!")
	require.NoError(t, err)
	require.False(t, match)
}

func TestMemoryDirectory_DuplicateEmail(t *testing.T) {
	directory := NewMemoryDirectory()

	_, err := directory.Create(context.Background(), "test@example.com", "first", "ValidPass123!")
	require.NoError(t, err)

	_, err = directory.Create(context.Background(), "test@example.com", "second", "OtherPass123!")
	require.ErrorIs(t, err, auth.ErrUserExists)
}

func TestMemoryDirectory_SetAvatarURL(t *testing.T) {
	directory := NewMemoryDirectory()

	user, err := directory.Create(context.Background(), "test@example.com", "testuser", "ValidPass123!")
	require.NoError(t, err)

	updated, err := directory.SetAvatarURL(context.Background(), user.ID, "https://cdn.example.com/a.png")
	require.NoError(t, err)
	require.Equal(t, "https://cdn.example.com/a.png", updated.AvatarURL)

	_, err = directory.SetAvatarURL(context.Background(), "missing", "https://cdn.example.com/a.png")
	require.ErrorIs(t, err, auth.ErrNoSuchUser)
}
