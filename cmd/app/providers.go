package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/gearbox/internal/domain/auth"
	"github.com/yanqian/gearbox/internal/domain/profile"
	"github.com/yanqian/gearbox/internal/infra/config"
	"github.com/yanqian/gearbox/internal/infra/imagestore"
	"github.com/yanqian/gearbox/internal/infra/tokenstore"
	"github.com/yanqian/gearbox/internal/infra/userrepo"
)

func provideAuthConfig(cfg *config.Config) auth.Config {
	return auth.Config{
		Secret:          cfg.Auth.Secret,
		AccessTokenTTL:  cfg.Auth.AccessTokenTTL,
		RefreshTokenTTL: cfg.Auth.RefreshTokenTTL,
	}
}

func provideSigner(cfg *config.Config) auth.TokenSigner {
	return auth.NewJWTSigner(cfg.Auth.Secret)
}

// providePostgresPool returns a ready pool, or nil when Postgres is not
// configured or unreachable; dependents fall back to memory adapters.
func providePostgresPool(cfg *config.Config, logger *slog.Logger) *pgxpool.Pool {
	dsn := strings.TrimSpace(cfg.Postgres.DSN)
	if dsn == "" {
		logger.Info("postgres dsn not set, using memory adapters")
		return nil
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory adapters", "error", err)
		return nil
	}
	if cfg.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Postgres.MaxConns
	}
	if cfg.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory adapters", "error", err)
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory adapters", "error", err)
		pool.Close()
		return nil
	}
	logger.Info("postgres enabled")
	return pool
}

func provideDirectory(pool *pgxpool.Pool) auth.Directory {
	if pool == nil {
		return userrepo.NewMemoryDirectory()
	}
	return userrepo.NewPostgresDirectory(pool)
}

func provideTokenStore(cfg *config.Config, pool *pgxpool.Pool, logger *slog.Logger) auth.RefreshTokenStore {
	ttl := cfg.Auth.RefreshTokenTTL
	if cfg.Valkey.Enabled {
		opt, err := buildValkeyOptions(cfg)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back", "error", err)
		} else if client, clientErr := valkey.NewClient(opt); clientErr != nil {
			logger.Error("failed to create valkey client, falling back", "error", clientErr)
		} else {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if pingErr := client.Do(ctx, client.B().Ping().Build()).Error(); pingErr != nil {
				logger.Error("valkey ping failed, falling back", "error", pingErr)
			} else {
				logger.Info("valkey refresh token store enabled", "addr", cfg.Valkey.Addr)
				return tokenstore.NewValkeyStore(client, "refresh", ttl)
			}
		}
	}
	if pool != nil {
		return tokenstore.NewPostgresStore(pool, ttl)
	}
	return tokenstore.NewMemoryStore(ttl)
}

func provideImageStore(cfg *config.Config, logger *slog.Logger) profile.ImageStore {
	if !cfg.Storage.Enabled {
		return imagestore.NewMemoryStore()
	}
	store, err := imagestore.NewMinioStore(
		cfg.Storage.Endpoint,
		cfg.Storage.AccessKey,
		cfg.Storage.SecretKey,
		cfg.Storage.Bucket,
		cfg.Storage.Region,
		cfg.Storage.PublicURL,
		logger,
	)
	if err != nil {
		logger.Error("failed to initialize object storage, using memory store", "error", err)
		return imagestore.NewMemoryStore()
	}
	logger.Info("avatar object storage enabled", "bucket", cfg.Storage.Bucket)
	return store
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(cfg.Valkey.Addr, "://") {
		opt, err = valkey.ParseURL(cfg.Valkey.Addr)
	} else {
		opt = valkey.ClientOption{InitAddress: []string{cfg.Valkey.Addr}}
	}
	if err != nil {
		return valkey.ClientOption{}, err
	}
	return opt, nil
}
