// Package profile covers the account-facing surface outside authentication:
// reading the signed-in user and managing the avatar image.
package profile

import (
	"context"
	"errors"
	"log/slog"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/yanqian/gearbox/internal/domain/auth"
	apperrors "github.com/yanqian/gearbox/pkg/errors"
)

// ImageStore persists uploaded images and returns a public URL.
type ImageStore interface {
	Save(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// Service exposes profile workflows.
type Service interface {
	Me(ctx context.Context, userID string) (auth.User, error)
	UpdateAvatar(ctx context.Context, userID, filename string, data []byte, contentType string) (auth.User, error)
}

type service struct {
	directory auth.Directory
	images    ImageStore
	logger    *slog.Logger
}

// NewService constructs a Service instance.
func NewService(directory auth.Directory, images ImageStore, logger *slog.Logger) Service {
	return &service{
		directory: directory,
		images:    images,
		logger:    logger.With("component", "profile.service"),
	}
}

func (s *service) Me(ctx context.Context, userID string) (auth.User, error) {
	user, found, err := s.directory.FindByID(ctx, userID)
	if err != nil {
		return auth.User{}, apperrors.Wrap("auth_error", "failed to load profile", err)
	}
	if !found {
		return auth.User{}, apperrors.Wrap("user_not_found", "User is not found.", nil)
	}
	return user, nil
}

func (s *service) UpdateAvatar(ctx context.Context, userID, filename string, data []byte, contentType string) (auth.User, error) {
	if len(data) == 0 {
		return auth.User{}, apperrors.Wrap("invalid_input", "avatar file is empty", nil)
	}
	key := avatarKey(userID, filename)
	url, err := s.images.Save(ctx, key, data, contentType)
	if err != nil {
		return auth.User{}, apperrors.Wrap("storage_error", "failed to store avatar", err)
	}
	user, err := s.directory.SetAvatarURL(ctx, userID, url)
	if err != nil {
		if errors.Is(err, auth.ErrNoSuchUser) {
			return auth.User{}, apperrors.Wrap("user_not_found", "User is not found.", err)
		}
		return auth.User{}, apperrors.Wrap("auth_error", "failed to update avatar", err)
	}
	s.logger.Info("avatar updated", "userId", userID)
	return user, nil
}

// avatarKey namespaces objects per user; the random element keeps stale CDN
// caches from serving a replaced avatar.
func avatarKey(userID, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return "avatars/" + userID + "/" + uuid.NewString() + ext
}
