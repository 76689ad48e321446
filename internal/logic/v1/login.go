package v1

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"

	"sessiongate/internal/core/domain"
	"sessiongate/middleware"
)

// LoginService verifies credentials against the user directory. It is thin
// glue around the directory collaborator; the session protocol proper lives
// in Authority and Issuer.
type LoginService struct {
	users domain.UserDirectory
}

// NewLoginService creates a LoginService over the given directory.
func NewLoginService(users domain.UserDirectory) *LoginService {
	return &LoginService{users: users}
}

// Authenticate verifies the username/password pair. Unknown users and bad
// passwords both return ErrInvalidCredentials so the response cannot be
// used to probe for account existence.
func (s *LoginService) Authenticate(ctx context.Context, username, password string) (*domain.UserRow, error) {
	ctx, span := middleware.StartSpan(ctx, "auth.login", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("username", username),
	))
	defer span.End()

	row, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("query user %q: %w", username, err)
	}
	if row == nil {
		span.SetAttributes(attribute.Bool("auth.success", false))
		span.AddEvent("authentication.failed")
		return nil, fmt.Errorf("authenticate user %q: %w", username, ErrInvalidCredentials)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(row.PasswordHash), []byte(password)); err != nil {
		span.SetAttributes(attribute.Bool("auth.success", false))
		span.AddEvent("authentication.failed")
		return nil, fmt.Errorf("authenticate user %q: %w", username, ErrInvalidCredentials)
	}

	span.SetAttributes(
		attribute.String("user.id", row.ID),
		attribute.Bool("auth.success", true),
	)
	span.AddEvent("user.authenticated")

	return row, nil
}
