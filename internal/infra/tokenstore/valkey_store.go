package tokenstore

import (
	"context"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/gearbox/internal/domain/auth"
)

// ValkeyStore persists refresh tokens in a Valkey-compatible database.
// SET is atomic per key, which gives the upsert semantic for free, and the
// key TTL retires tokens alongside their JWT expiry.
type ValkeyStore struct {
	client valkey.Client
	prefix string
	ttl    time.Duration
}

// NewValkeyStore constructs a new store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string, ttl time.Duration) *ValkeyStore {
	if prefix == "" {
		prefix = "refresh"
	}
	return &ValkeyStore{client: client, prefix: prefix, ttl: ttl}
}

// Save upserts the token for userID.
func (s *ValkeyStore) Save(ctx context.Context, userID, token string) error {
	builder := s.client.B().Set().Key(s.key(userID)).Value(token)
	var cmd valkey.Completed
	if s.ttl > 0 {
		ttl := s.ttl
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return s.client.Do(ctx, cmd).Error()
}

// Get returns the live token for userID, if any.
func (s *ValkeyStore) Get(ctx context.Context, userID string) (string, bool, error) {
	resp := s.client.Do(ctx, s.client.B().Get().Key(s.key(userID)).Build())
	token, err := resp.ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return "", false, nil
		}
		return "", false, err
	}
	return token, true, nil
}

func (s *ValkeyStore) key(userID string) string {
	return s.prefix + ":" + userID
}

var _ auth.RefreshTokenStore = (*ValkeyStore)(nil)
