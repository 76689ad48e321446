package v1

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"sessiongate/internal/core/domain"
	"sessiongate/middleware"
)

// Issuer owns the session lifecycle endpoints of the protocol: one record
// per successful login, explicit removal on logout.
type Issuer struct {
	store  domain.SessionStore
	window time.Duration
	now    func() time.Time
}

// NewIssuer creates an Issuer over the given store.
func NewIssuer(store domain.SessionStore, cfg Config) *Issuer {
	return &Issuer{
		store:  store,
		window: cfg.InactivityWindow,
		now:    cfg.clock(),
	}
}

// CreateSession generates a fresh session for the given user and persists
// it. The returned SessionID is a bearer secret; the caller transmits it
// to the client as an HttpOnly cookie with a max-age matching the window.
func (i *Issuer) CreateSession(ctx context.Context, userID string) (*domain.Session, error) {
	ctx, span := middleware.StartSpan(ctx, "issuer.create_session", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("user.id", userID),
	))
	defer span.End()

	now := i.now().Unix()
	sess := &domain.Session{
		SessionID:    uuid.NewString(),
		UserID:       userID,
		CreatedAt:    now,
		LastActivity: now,
		ExpiresAt:    now + int64(i.window/time.Second),
	}

	if err := i.store.Put(ctx, sess); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("persist session: %w: %v", ErrStoreUnavailable, err)
	}

	span.AddEvent("session.created")
	return sess, nil
}

// DeleteSession removes the session record. Idempotent: deleting an
// identifier with no record is not an error.
func (i *Issuer) DeleteSession(ctx context.Context, sessionID string) error {
	ctx, span := middleware.StartSpan(ctx, "issuer.delete_session", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	if sessionID == "" {
		return nil
	}

	if err := i.store.Delete(ctx, sessionID); err != nil {
		span.RecordError(err)
		return fmt.Errorf("delete session: %w: %v", ErrStoreUnavailable, err)
	}

	span.AddEvent("session.deleted")
	return nil
}
