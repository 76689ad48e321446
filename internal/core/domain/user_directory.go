package domain

import "context"

// UserRow represents a user record returned from the directory.
// It includes the password hash so the Logic layer can verify credentials.
type UserRow struct {
	ID           string
	Username     string
	PasswordHash string
}

// UserDirectory defines the lookup contract against the user collaborator.
// The Logic layer depends on this interface only — never on SQL or pgx
// directly. Credential storage and lifecycle are out of scope here.
type UserDirectory interface {
	// GetByUsername returns the user matching the given username.
	// Returns (nil, nil) when no user is found.
	GetByUsername(ctx context.Context, username string) (*UserRow, error)

	// GetByID returns the user with the given ID.
	// Returns (nil, nil) when no user is found.
	GetByID(ctx context.Context, userID string) (*UserRow, error)
}
