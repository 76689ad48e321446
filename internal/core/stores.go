package core

import (
	"context"
	"fmt"

	"sessiongate/internal/config"
	"sessiongate/internal/core/domain"
	"sessiongate/internal/core/repository"
)

// NewSessionStore builds the configured session-store backend. The
// returned cleanup closes whatever connections the backend opened.
func NewSessionStore(ctx context.Context, cfg config.Config) (domain.SessionStore, func(), error) {
	switch cfg.Store.Backend {
	case "redis":
		client, err := ConnectRedis(ctx, cfg.Store.RedisAddr, cfg.Store.RedisPassword)
		if err != nil {
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		store := repository.NewRedisSessionStore(client, cfg.Store.Table)
		return store, func() { _ = client.Close() }, nil

	case "postgres":
		pool, err := Connect(ctx, cfg.Store.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		store := repository.NewPgxSessionStore(pool, cfg.Store.Table)
		return store, pool.Close, nil

	case "memory":
		return repository.NewMemorySessionStore(), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown session store backend %q", cfg.Store.Backend)
	}
}

// NewUserDirectory builds the configured user directory. The pool argument
// may be nil when the directory is static.
func NewUserDirectory(ctx context.Context, cfg config.Config) (domain.UserDirectory, func(), error) {
	switch cfg.Store.UserDirectory {
	case "static":
		return repository.NewDemoUserDirectory(), func() {}, nil

	case "postgres":
		pool, err := Connect(ctx, cfg.Store.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		return repository.NewPgxUserDirectory(pool), pool.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown user directory %q", cfg.Store.UserDirectory)
	}
}
