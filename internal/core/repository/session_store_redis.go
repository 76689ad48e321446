package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"sessiongate/internal/core/domain"
)

// RedisSessionStore implements domain.SessionStore on Redis, one JSON blob
// per session key.
//
// Keys carry no server-side TTL: expiry is a read-time decision made by the
// authority, and stale rows are removed lazily by whichever validator
// observes them as expired. ExpiresAt inside the blob is advisory only.
type RedisSessionStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisSessionStore creates a Redis-backed session store. prefix
// namespaces the keys (the configured table name is reused for this).
func NewRedisSessionStore(client redis.UniversalClient, prefix string) *RedisSessionStore {
	return &RedisSessionStore{client: client, prefix: prefix}
}

func (r *RedisSessionStore) key(sessionID string) string {
	return r.prefix + ":" + sessionID
}

// Get returns the session for the given ID, or (nil, nil) when absent.
func (r *RedisSessionStore) Get(ctx context.Context, sessionID string) (*domain.Session, error) {
	val, err := r.client.Get(ctx, r.key(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get session: %w", err)
	}

	var sess domain.Session
	if err := json.Unmarshal(val, &sess); err != nil {
		return nil, fmt.Errorf("redis decode session: %w", err)
	}
	sess.SessionID = sessionID

	return &sess, nil
}

// Put persists a full session record.
func (r *RedisSessionStore) Put(ctx context.Context, sess *domain.Session) error {
	if sess.SessionID == "" || sess.UserID == "" {
		return fmt.Errorf("redis put session: missing session_id or user_id")
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("redis encode session: %w", err)
	}

	if err := r.client.Set(ctx, r.key(sess.SessionID), data, 0).Err(); err != nil {
		return fmt.Errorf("redis put session: %w", err)
	}
	return nil
}

// Touch advances LastActivity and ExpiresAt on the stored blob.
// LastActivity never rewinds when concurrent renewals race.
// Touching an absent record is a no-op.
func (r *RedisSessionStore) Touch(ctx context.Context, sessionID string, lastActivity, expiresAt int64) error {
	sess, err := r.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if sess == nil || lastActivity < sess.LastActivity {
		return nil
	}

	sess.LastActivity = lastActivity
	sess.ExpiresAt = expiresAt
	return r.Put(ctx, sess)
}

// Delete removes the record. Deleting an absent ID is not an error.
func (r *RedisSessionStore) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, r.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis delete session: %w", err)
	}
	return nil
}
