package domain

import "context"

// Session binds an opaque bearer identifier to a principal, with a sliding
// inactivity deadline. All timestamps are unix seconds.
type Session struct {
	// SessionID is generated at creation, never reused, and treated as a
	// bearer secret: it must not appear in logs.
	SessionID string `json:"sessionId"`
	// UserID is the owning principal, immutable for the life of the session.
	UserID    string `json:"userId"`
	CreatedAt int64  `json:"createdAt"`
	// LastActivity only ever advances; see SessionStore.Touch.
	LastActivity int64 `json:"lastActivity"`
	// ExpiresAt is advisory (lastActivity + inactivity window). Expiry is
	// decided at read time by the authority, not by store-side deletion.
	ExpiresAt int64 `json:"expiresAt"`
}

// SessionStore defines the data-access contract for session records.
// Implementations live in internal/core/repository (Core layer).
//
// Each operation must be atomic for a single record; no multi-record
// transactions are required. The read-then-write sequence performed by the
// authority on top of this contract is deliberately NOT atomic: concurrent
// validations of one session are last-write-wins on LastActivity, which is
// acceptable because every writer computes a monotonically non-decreasing
// value.
type SessionStore interface {
	// Get returns the session for the given ID.
	// Returns (nil, nil) when no record exists.
	Get(ctx context.Context, sessionID string) (*Session, error)

	// Put persists a full session record.
	Put(ctx context.Context, sess *Session) error

	// Touch advances LastActivity and ExpiresAt for the given session
	// (sliding-window renewal). Touching an absent record is not an error.
	Touch(ctx context.Context, sessionID string, lastActivity, expiresAt int64) error

	// Delete removes the record. Deleting an absent ID is not an error.
	Delete(ctx context.Context, sessionID string) error
}
