// Package v1 implements the session-authority decision logic for API
// version 1.
//
// Error Handling:
// This package defines sentinel errors for each Deny outcome of the
// authority. They are wrapped with context using fmt.Errorf("%w") when
// returned, and the enforcement surfaces switch on errors.Is.
//
// Every sentinel collapses to a single opaque rejection at the trust
// boundary: the edge authorizer answers 401 with an empty body and the
// backend answers a generic "unauthenticated". The specific reason exists
// for logs and metrics only — disclosing it would give callers a
// session-existence oracle.
package v1

import "errors"

// Sentinel errors for session validation outcomes.
// These errors should be wrapped with context using fmt.Errorf("%w") when returned.
var (
	// ErrNoSession indicates no credential was presented at all (neither
	// bearer token nor session cookie). The store is never consulted.
	ErrNoSession = errors.New("no session credential")

	// ErrInvalidSession indicates a credential was presented but no
	// matching record exists.
	ErrInvalidSession = errors.New("invalid session")

	// ErrSessionExpired indicates the session sat idle for at least the
	// inactivity window. The record is lazily deleted on this path.
	ErrSessionExpired = errors.New("session expired")

	// ErrStoreUnavailable indicates a session-store read failed
	// (I/O, timeout, permission). The authority fails closed.
	ErrStoreUnavailable = errors.New("session store unavailable")

	// ErrInvalidCredentials indicates login credentials are incorrect.
	// The same error covers unknown usernames, so existence is not leaked.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Deny reason codes attached to decisions for internal observability.
const (
	ReasonNoSession      = "no_session"
	ReasonInvalidSession = "invalid_session"
	ReasonSessionExpired = "session_expired"
	ReasonError          = "error"
)

// Reason maps a Deny error to its observability reason code.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrNoSession):
		return ReasonNoSession
	case errors.Is(err, ErrInvalidSession):
		return ReasonInvalidSession
	case errors.Is(err, ErrSessionExpired):
		return ReasonSessionExpired
	default:
		return ReasonError
	}
}
