package profile

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/gearbox/internal/domain/auth"
	apperrors "github.com/yanqian/gearbox/pkg/errors"
)

func TestService_UpdateAvatar(t *testing.T) {
	directory := &fakeDirectory{users: map[string]auth.User{
		"user-1": {ID: "user-1", Email: "test@example.com", Username: "testuser"},
	}}
	images := &fakeImageStore{}
	svc := NewService(directory, images, newTestLogger())

	user, err := svc.UpdateAvatar(context.Background(), "user-1", "me.PNG", []byte{0x89, 0x50}, "image/png")
	require.NoError(t, err)
	require.NotEmpty(t, user.AvatarURL)
	require.Equal(t, user.AvatarURL, directory.users["user-1"].AvatarURL)

	require.True(t, strings.HasPrefix(images.lastKey, "avatars/user-1/"))
	require.True(t, strings.HasSuffix(images.lastKey, ".png"))
}

func TestService_UpdateAvatar_EmptyFile(t *testing.T) {
	svc := NewService(&fakeDirectory{users: map[string]auth.User{}}, &fakeImageStore{}, newTestLogger())

	_, err := svc.UpdateAvatar(context.Background(), "user-1", "me.png", nil, "image/png")
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "invalid_input"))
}

func TestService_UpdateAvatar_StoreFailure(t *testing.T) {
	svc := NewService(&fakeDirectory{users: map[string]auth.User{}}, &fakeImageStore{err: errors.New("bucket gone")}, newTestLogger())

	_, err := svc.UpdateAvatar(context.Background(), "user-1", "me.png", []byte{1}, "image/png")
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "storage_error"))
}

func TestService_Me(t *testing.T) {
	directory := &fakeDirectory{users: map[string]auth.User{
		"user-1": {ID: "user-1", Email: "test@example.com", Username: "testuser"},
	}}
	svc := NewService(directory, &fakeImageStore{}, newTestLogger())

	user, err := svc.Me(context.Background(), "user-1")
	require.NoError(t, err)
	require.Equal(t, "test@example.com", user.Email)

	_, err = svc.Me(context.Background(), "missing")
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "user_not_found"))
	require.Equal(t, "User is not found.", err.Error())
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeDirectory struct {
	users map[string]auth.User
}

func (f *fakeDirectory) FindByEmail(_ context.Context, email string) (auth.User, bool, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, true, nil
		}
	}
	return auth.User{}, false, nil
}

func (f *fakeDirectory) FindByID(_ context.Context, id string) (auth.User, bool, error) {
	user, ok := f.users[id]
	return user, ok, nil
}

func (f *fakeDirectory) Create(_ context.Context, email, username, _ string) (auth.User, error) {
	return auth.User{}, errors.New("not implemented")
}

func (f *fakeDirectory) VerifyPassword(_ context.Context, _ auth.User, _ string) (bool, error) {
	return false, nil
}

func (f *fakeDirectory) SetAvatarURL(_ context.Context, userID, avatarURL string) (auth.User, error) {
	user := f.users[userID]
	user.ID = userID
	user.AvatarURL = avatarURL
	f.users[userID] = user
	return user, nil
}

type fakeImageStore struct {
	lastKey string
	err     error
}

func (f *fakeImageStore) Save(_ context.Context, key string, _ []byte, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.lastKey = key
	return "https://cdn.example.com/" + key, nil
}
