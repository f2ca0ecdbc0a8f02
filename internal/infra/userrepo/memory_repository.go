package userrepo

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/yanqian/gearbox/internal/domain/auth"
	"github.com/yanqian/gearbox/pkg/util"
)

// MemoryDirectory provides an in-memory user directory for tests/dev.
type MemoryDirectory struct {
	mu         sync.RWMutex
	users      map[string]auth.User
	emailIndex map[string]string
}

// NewMemoryDirectory constructs a new in-memory directory.
func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{
		users:      make(map[string]auth.User),
		emailIndex: make(map[string]string),
	}
}

// Create hashes the password and stores the user record.
func (r *MemoryDirectory) Create(_ context.Context, email, username, password string) (auth.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return auth.User{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.emailIndex[email]; exists {
		return auth.User{}, auth.ErrUserExists
	}
	user := auth.User{
		ID:           uuid.NewString(),
		Email:        email,
		Username:     username,
		PasswordHash: string(hashed),
		CreatedAt:    util.NowUTC(),
	}
	r.users[user.ID] = user
	r.emailIndex[email] = user.ID
	return user, nil
}

// FindByEmail returns a user by email.
func (r *MemoryDirectory) FindByEmail(_ context.Context, email string) (auth.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if id, ok := r.emailIndex[email]; ok {
		return r.users[id], true, nil
	}
	return auth.User{}, false, nil
}

// FindByID fetches by ID.
func (r *MemoryDirectory) FindByID(_ context.Context, id string) (auth.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	return user, ok, nil
}

// VerifyPassword compares the candidate against the stored bcrypt hash.
func (r *MemoryDirectory) VerifyPassword(_ context.Context, user auth.User, password string) (bool, error) {
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return false, nil
	}
	return true, nil
}

// SetAvatarURL updates the stored avatar location.
func (r *MemoryDirectory) SetAvatarURL(_ context.Context, userID, avatarURL string) (auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return auth.User{}, auth.ErrNoSuchUser
	}
	user.AvatarURL = avatarURL
	r.users[userID] = user
	return user, nil
}

var _ auth.Directory = (*MemoryDirectory)(nil)
