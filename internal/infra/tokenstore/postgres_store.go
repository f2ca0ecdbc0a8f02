package tokenstore

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/gearbox/internal/domain/auth"
)

// PostgresStore persists refresh tokens in Postgres. The user_id primary key
// plus ON CONFLICT upsert enforces the one-live-token-per-user invariant.
type PostgresStore struct {
	pool *pgxpool.Pool
	ttl  time.Duration
}

// NewPostgresStore creates a new store.
func NewPostgresStore(pool *pgxpool.Pool, ttl time.Duration) *PostgresStore {
	return &PostgresStore{pool: pool, ttl: ttl}
}

// Save upserts the token for userID.
func (s *PostgresStore) Save(ctx context.Context, userID, token string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO refresh_tokens (user_id, token, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET token = EXCLUDED.token, expires_at = EXCLUDED.expires_at
	`, userID, token, time.Now().Add(s.ttl))
	return err
}

// Get returns the live token for userID, if any. Expired rows are treated as
// absent; they are reclaimed on the next Save.
func (s *PostgresStore) Get(ctx context.Context, userID string) (string, bool, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT token
		FROM refresh_tokens
		WHERE user_id = $1 AND expires_at > now()
		LIMIT 1
	`, userID)
	if err != nil {
		return "", false, err
	}
	defer rows.Close()
	if !rows.Next() {
		return "", false, rows.Err()
	}
	var token string
	if err := rows.Scan(&token); err != nil {
		return "", false, err
	}
	return token, true, rows.Err()
}

var _ auth.RefreshTokenStore = (*PostgresStore)(nil)
