package auth

import "context"

// Directory abstracts user persistence and credential verification.
// Implementations own password hashing; the service only ever handles
// plaintext candidates and the opaque hashed form.
type Directory interface {
	FindByEmail(ctx context.Context, email string) (User, bool, error)
	FindByID(ctx context.Context, id string) (User, bool, error)
	// Create hashes the password and stores a new account. Concurrent calls
	// for the same email must not both succeed: the loser observes ErrUserExists.
	Create(ctx context.Context, email, username, password string) (User, error)
	VerifyPassword(ctx context.Context, user User, password string) (bool, error)
	SetAvatarURL(ctx context.Context, userID, avatarURL string) (User, error)
}
