package userrepo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/yanqian/gearbox/internal/domain/auth"
)

// PostgresDirectory persists users in Postgres. The users table carries a
// unique index on email, so concurrent creates for the same address resolve
// to exactly one winner.
type PostgresDirectory struct {
	pool *pgxpool.Pool
}

// NewPostgresDirectory creates a new directory.
func NewPostgresDirectory(pool *pgxpool.Pool) *PostgresDirectory {
	return &PostgresDirectory{pool: pool}
}

// Create hashes the password and inserts a new user row.
func (r *PostgresDirectory) Create(ctx context.Context, email, username, password string) (auth.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return auth.User{}, err
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (id, email, username, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id, email, username, password_hash, avatar_url, created_at
	`, uuid.NewString(), email, username, string(hashed))
	user, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return auth.User{}, auth.ErrUserExists
		}
		return auth.User{}, err
	}
	return user, nil
}

// FindByEmail fetches a user by email.
func (r *PostgresDirectory) FindByEmail(ctx context.Context, email string) (auth.User, bool, error) {
	return r.findOne(ctx, `
		SELECT id, email, username, password_hash, avatar_url, created_at
		FROM users
		WHERE email = $1
		LIMIT 1
	`, email)
}

// FindByID fetches by primary key.
func (r *PostgresDirectory) FindByID(ctx context.Context, id string) (auth.User, bool, error) {
	return r.findOne(ctx, `
		SELECT id, email, username, password_hash, avatar_url, created_at
		FROM users
		WHERE id = $1
		LIMIT 1
	`, id)
}

// VerifyPassword compares the candidate against the stored bcrypt hash.
func (r *PostgresDirectory) VerifyPassword(_ context.Context, user auth.User, password string) (bool, error) {
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return false, nil
	}
	return true, nil
}

// SetAvatarURL updates the avatar column and returns the fresh row.
func (r *PostgresDirectory) SetAvatarURL(ctx context.Context, userID, avatarURL string) (auth.User, error) {
	rows, err := r.pool.Query(ctx, `
		UPDATE users
		SET avatar_url = $2
		WHERE id = $1
		RETURNING id, email, username, password_hash, avatar_url, created_at
	`, userID, avatarURL)
	if err != nil {
		return auth.User{}, err
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return auth.User{}, err
		}
		return auth.User{}, auth.ErrNoSuchUser
	}
	return scanUser(rows)
}

func (r *PostgresDirectory) findOne(ctx context.Context, query string, arg any) (auth.User, bool, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return auth.User{}, false, err
	}
	defer rows.Close()
	if !rows.Next() {
		return auth.User{}, false, rows.Err()
	}
	user, err := scanUser(rows)
	if err != nil {
		return auth.User{}, false, err
	}
	return user, true, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (auth.User, error) {
	var user auth.User
	var avatar *string
	var created time.Time
	if err := row.Scan(&user.ID, &user.Email, &user.Username, &user.PasswordHash, &avatar, &created); err != nil {
		return auth.User{}, err
	}
	if avatar != nil {
		user.AvatarURL = *avatar
	}
	user.CreatedAt = created.UTC()
	return user, nil
}

var _ auth.Directory = (*PostgresDirectory)(nil)
