package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	apperrors "github.com/yanqian/gearbox/pkg/errors"
)

// Service exposes authentication workflows.
type Service interface {
	SignIn(ctx context.Context, req Request) (Response, error)
	SignUp(ctx context.Context, req Request) (Response, error)
	ValidateNewUser(ctx context.Context, req Request) error
	Refresh(ctx context.Context, refreshToken string) (Response, error)
	Authenticate(ctx context.Context, accessToken string) (User, error)
}

type service struct {
	cfg       Config
	directory Directory
	signer    TokenSigner
	tokens    RefreshTokenStore
	policy    Policy
	logger    *slog.Logger
}

// NewService constructs a Service instance.
func NewService(cfg Config, directory Directory, signer TokenSigner, tokens RefreshTokenStore, logger *slog.Logger) Service {
	return &service{
		cfg:       cfg,
		directory: directory,
		signer:    signer,
		tokens:    tokens,
		logger:    logger.With("component", "auth.service"),
	}
}

func (s *service) SignIn(ctx context.Context, req Request) (Response, error) {
	email := normalizeEmail(req.Email)
	user, found, err := s.directory.FindByEmail(ctx, email)
	if err != nil {
		return Response{}, apperrors.Wrap("auth_error", "failed to look up user", err)
	}
	if !found {
		return Response{}, apperrors.Wrap("user_not_found", "User is not found.", nil)
	}
	ok, err := s.directory.VerifyPassword(ctx, user, req.Password)
	if err != nil {
		return Response{}, apperrors.Wrap("auth_error", "failed to verify credentials", err)
	}
	if !ok {
		return Response{}, apperrors.Wrap("invalid_credentials", "Invalid email or password.", nil)
	}
	return s.issueTokens(ctx, user)
}

func (s *service) SignUp(ctx context.Context, req Request) (Response, error) {
	if err := s.ValidateNewUser(ctx, req); err != nil {
		return Response{}, err
	}
	user, err := s.directory.Create(ctx, normalizeEmail(req.Email), strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		if errors.Is(err, ErrUserExists) {
			// Lost a concurrent create race after ValidateNewUser passed.
			return Response{}, apperrors.Wrap("user_already_exists", "User already exists.", err)
		}
		return Response{}, apperrors.Wrap("auth_error", "failed to create user", err)
	}
	s.logger.Info("user registered", "userId", user.ID)
	return s.issueTokens(ctx, user)
}

func (s *service) ValidateNewUser(ctx context.Context, req Request) error {
	_, exists, err := s.directory.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return apperrors.Wrap("auth_error", "failed to look up user", err)
	}
	if exists {
		return apperrors.Wrap("user_already_exists", "User already exists.", nil)
	}
	return s.policy.Check(req.Password, req.ConfirmPassword)
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (Response, error) {
	userID, err := s.signer.Parse(refreshToken)
	if err != nil {
		return Response{}, apperrors.Wrap("invalid_credentials", "Invalid refresh token.", err)
	}
	stored, found, err := s.tokens.Get(ctx, userID)
	if err != nil {
		return Response{}, apperrors.Wrap("auth_error", "failed to load refresh token", err)
	}
	if !found || stored != refreshToken {
		// A newer sign-in superseded this token.
		return Response{}, apperrors.Wrap("invalid_credentials", "Invalid refresh token.", nil)
	}
	user, found, err := s.directory.FindByID(ctx, userID)
	if err != nil {
		return Response{}, apperrors.Wrap("auth_error", "failed to look up user", err)
	}
	if !found {
		return Response{}, apperrors.Wrap("user_not_found", "User is not found.", nil)
	}
	return s.issueTokens(ctx, user)
}

func (s *service) Authenticate(ctx context.Context, accessToken string) (User, error) {
	userID, err := s.signer.Parse(accessToken)
	if err != nil {
		return User{}, apperrors.Wrap("invalid_credentials", "Invalid access token.", err)
	}
	user, found, err := s.directory.FindByID(ctx, userID)
	if err != nil {
		return User{}, apperrors.Wrap("auth_error", "failed to look up user", err)
	}
	if !found {
		return User{}, apperrors.Wrap("user_not_found", "User is not found.", nil)
	}
	return user, nil
}

// issueTokens signs the access/refresh pair keyed by the stable user ID and
// persists the refresh token before responding. The persisted record replaces
// any prior token for this user.
func (s *service) issueTokens(ctx context.Context, user User) (Response, error) {
	access, err := s.signer.Generate(user.ID, s.cfg.AccessTokenTTL)
	if err != nil {
		return Response{}, err
	}
	refresh, err := s.signer.Generate(user.ID, s.cfg.RefreshTokenTTL)
	if err != nil {
		return Response{}, err
	}
	if err := s.tokens.Save(ctx, user.ID, refresh); err != nil {
		return Response{}, apperrors.Wrap("auth_error", "failed to persist refresh token", err)
	}
	return Response{
		AccessToken:  access,
		RefreshToken: refresh,
		UserID:       user.ID,
		Email:        user.Email,
		Username:     user.Username,
		AvatarURL:    user.AvatarURL,
	}, nil
}

func normalizeEmail(raw string) string {
	return strings.TrimSpace(strings.ToLower(raw))
}
