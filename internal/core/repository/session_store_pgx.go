package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sessiongate/internal/core/domain"
)

// PgxSessionStore implements domain.SessionStore using pgxpool.
//
// Every statement operates on a single row keyed by session_id; the store
// offers no multi-row transactions and the authority does not need them.
type PgxSessionStore struct {
	pool  *pgxpool.Pool
	table string
}

// NewPgxSessionStore creates a postgres-backed session store against the
// given table. The expected schema:
//
//	CREATE TABLE sessions (
//	    session_id    TEXT PRIMARY KEY,
//	    user_id       TEXT NOT NULL,
//	    created_at    BIGINT NOT NULL,
//	    last_activity BIGINT NOT NULL,
//	    expires_at    BIGINT NOT NULL
//	);
func NewPgxSessionStore(pool *pgxpool.Pool, table string) *PgxSessionStore {
	return &PgxSessionStore{pool: pool, table: table}
}

// Get returns the session for the given ID, or (nil, nil) when absent.
func (s *PgxSessionStore) Get(ctx context.Context, sessionID string) (*domain.Session, error) {
	query := fmt.Sprintf(
		`SELECT user_id, created_at, last_activity, expires_at FROM %s WHERE session_id = $1`,
		s.table,
	)

	sess := domain.Session{SessionID: sessionID}
	err := s.pool.QueryRow(ctx, query, sessionID).Scan(
		&sess.UserID, &sess.CreatedAt, &sess.LastActivity, &sess.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query session: %w", err)
	}

	return &sess, nil
}

// Put inserts or replaces a session record.
func (s *PgxSessionStore) Put(ctx context.Context, sess *domain.Session) error {
	query := fmt.Sprintf(
		`INSERT INTO %s (session_id, user_id, created_at, last_activity, expires_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (session_id) DO UPDATE
		 SET user_id = EXCLUDED.user_id,
		     created_at = EXCLUDED.created_at,
		     last_activity = EXCLUDED.last_activity,
		     expires_at = EXCLUDED.expires_at`,
		s.table,
	)

	_, err := s.pool.Exec(ctx, query,
		sess.SessionID, sess.UserID, sess.CreatedAt, sess.LastActivity, sess.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// Touch advances last_activity and expires_at for the given session.
// GREATEST keeps last_activity from rewinding when concurrent renewals
// race. Touching an absent record affects zero rows and is not an error.
func (s *PgxSessionStore) Touch(ctx context.Context, sessionID string, lastActivity, expiresAt int64) error {
	query := fmt.Sprintf(
		`UPDATE %s
		 SET last_activity = GREATEST(last_activity, $2),
		     expires_at = GREATEST(expires_at, $3)
		 WHERE session_id = $1`,
		s.table,
	)

	_, err := s.pool.Exec(ctx, query, sessionID, lastActivity, expiresAt)
	if err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	return nil
}

// Delete removes the record. Deleting an absent ID is not an error.
func (s *PgxSessionStore) Delete(ctx context.Context, sessionID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE session_id = $1`, s.table)

	_, err := s.pool.Exec(ctx, query, sessionID)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
