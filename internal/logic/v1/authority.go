package v1

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"sessiongate/internal/core/domain"
	"sessiongate/middleware"
)

// Config parameterizes the authority and the issuer. It is passed
// explicitly at construction — the decision logic never reads ambient
// configuration, which keeps it testable with injected clocks and a fake
// store.
type Config struct {
	// InactivityWindow is the sliding idle deadline. A session whose idle
	// time reaches the window (inclusive) is expired.
	InactivityWindow time.Duration

	// Clock returns the current time. Defaults to time.Now.
	Clock func() time.Time
}

func (c Config) clock() func() time.Time {
	if c.Clock != nil {
		return c.Clock
	}
	return time.Now
}

// Grant is the result of an Allow decision.
type Grant struct {
	// UserID and SessionID form the identity context propagated to the
	// caller; both are flat strings.
	UserID    string
	SessionID string

	// LastActivity is the value observed before this validation renewed
	// the record.
	LastActivity int64

	// Session is the renewed record (lastActivity=now,
	// expiresAt=now+window) as this validator computed it. A concurrent
	// request may already have overwritten it in the store.
	Session *domain.Session
}

// Context returns the identity context as flat string key/value pairs.
func (g *Grant) Context() map[string]string {
	return map[string]string{
		"principalId": g.UserID,
		"userId":      g.UserID,
		"sessionId":   g.SessionID,
	}
}

// Authority is the single decision function shared by both enforcement
// points. The edge authorizer and the backend guard construct it with the
// same store and the same window; divergence between the two would be a
// correctness bug.
type Authority struct {
	store  domain.SessionStore
	window time.Duration
	now    func() time.Time
}

// NewAuthority creates an Authority over the given store.
func NewAuthority(store domain.SessionStore, cfg Config) *Authority {
	return &Authority{
		store:  store,
		window: cfg.InactivityWindow,
		now:    cfg.clock(),
	}
}

// Decide validates the candidate session identifier and, when valid,
// renews the sliding window.
//
// The decision sequence is a hard contract:
//  1. Empty candidate: ErrNoSession, with zero store access.
//  2. No record: ErrInvalidSession.
//  3. Idle for at least the window: best-effort delete, ErrSessionExpired.
//  4. Otherwise Allow: persist lastActivity=now, expiresAt=now+window.
//     A failed renewal does not flip the Allow for this request; it only
//     risks shortening the window observed by the next one.
//  5. A store read failure is ErrStoreUnavailable — fail closed.
//
// The read-then-renew sequence is not atomic. Two concurrent validations
// of one session may both Allow and both write; last write wins, and the
// surviving lastActivity is the larger of the two.
func (a *Authority) Decide(ctx context.Context, candidate string) (*Grant, error) {
	ctx, span := middleware.StartSpan(ctx, "authority.decide", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	if candidate == "" {
		span.SetAttributes(attribute.String("session.deny", ReasonNoSession))
		return nil, ErrNoSession
	}

	sess, err := a.store.Get(ctx, candidate)
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.String("session.deny", ReasonError))
		return nil, fmt.Errorf("fetch session: %w: %v", ErrStoreUnavailable, err)
	}
	if sess == nil {
		span.SetAttributes(attribute.String("session.deny", ReasonInvalidSession))
		return nil, fmt.Errorf("lookup session: %w", ErrInvalidSession)
	}

	now := a.now().Unix()
	windowSeconds := int64(a.window / time.Second)

	// Inclusive boundary: idle == window is already expired.
	if now-sess.LastActivity >= windowSeconds {
		if delErr := a.store.Delete(ctx, candidate); delErr != nil {
			// Failing to clean up a dead row does not change the outcome.
			zerolog.Ctx(ctx).Warn().Err(delErr).Msg("Expired session cleanup failed")
			span.RecordError(delErr)
		}
		span.SetAttributes(attribute.String("session.deny", ReasonSessionExpired))
		return nil, fmt.Errorf("session idle beyond window: %w", ErrSessionExpired)
	}

	grant := &Grant{
		UserID:       sess.UserID,
		SessionID:    sess.SessionID,
		LastActivity: sess.LastActivity,
	}

	next := *sess
	next.LastActivity = now
	next.ExpiresAt = now + windowSeconds
	grant.Session = &next

	if touchErr := a.store.Touch(ctx, candidate, next.LastActivity, next.ExpiresAt); touchErr != nil {
		// The Allow for this request stands; the renewal is best-effort.
		zerolog.Ctx(ctx).Warn().Err(touchErr).Msg("Session renewal failed")
		span.RecordError(touchErr)
	}

	span.SetAttributes(
		attribute.String("user.id", grant.UserID),
		attribute.Bool("session.valid", true),
	)

	return grant, nil
}
