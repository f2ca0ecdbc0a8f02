package auth

import "context"

// RefreshTokenStore persists the single live refresh token per user.
type RefreshTokenStore interface {
	// Save upserts the token for userID, atomically replacing any prior record.
	// Last writer wins under concurrent saves for the same user.
	Save(ctx context.Context, userID, token string) error
	Get(ctx context.Context, userID string) (string, bool, error)
}
