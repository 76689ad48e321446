package repository

import (
	"context"
	"sync"

	"sessiongate/internal/core/domain"
)

// MemorySessionStore implements domain.SessionStore on a mutex-guarded map.
// Used for local development and tests; records are copied on the way in
// and out so callers never share memory with the store.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]domain.Session
}

// NewMemorySessionStore creates an empty in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]domain.Session)}
}

// Get returns the session for the given ID, or (nil, nil) when absent.
func (m *MemorySessionStore) Get(ctx context.Context, sessionID string) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	return &sess, nil
}

// Put persists a full session record.
func (m *MemorySessionStore) Put(ctx context.Context, sess *domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[sess.SessionID] = *sess
	return nil
}

// Touch advances LastActivity and ExpiresAt. LastActivity never rewinds:
// when concurrent renewals race, the larger timestamp survives.
// Touching an absent record is a no-op.
func (m *MemorySessionStore) Touch(ctx context.Context, sessionID string, lastActivity, expiresAt int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[sessionID]
	if !ok || lastActivity < sess.LastActivity {
		return nil
	}
	sess.LastActivity = lastActivity
	sess.ExpiresAt = expiresAt
	m.sessions[sessionID] = sess
	return nil
}

// Delete removes the record. Deleting an absent ID is not an error.
func (m *MemorySessionStore) Delete(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, sessionID)
	return nil
}
