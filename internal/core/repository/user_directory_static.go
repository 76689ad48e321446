package repository

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"sessiongate/internal/core/domain"
)

// StaticUserDirectory implements domain.UserDirectory over a fixed user
// list. It stands in for a real user directory in demos and tests; the
// session authority never depends on where users come from.
type StaticUserDirectory struct {
	users []domain.UserRow
}

// NewStaticUserDirectory creates a directory with the given users.
func NewStaticUserDirectory(users []domain.UserRow) *StaticUserDirectory {
	return &StaticUserDirectory{users: users}
}

// NewDemoUserDirectory creates the demo directory (alice and bob) used when
// USER_DIRECTORY=static.
func NewDemoUserDirectory() *StaticUserDirectory {
	return NewStaticUserDirectory([]domain.UserRow{
		{ID: "user-1", Username: "alice", PasswordHash: mustHash("password123")},
		{ID: "user-2", Username: "bob", PasswordHash: mustHash("secret")},
	})
}

func mustHash(password string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return string(hash)
}

// GetByUsername returns the user matching the given username.
// Returns (nil, nil) when no user is found.
func (d *StaticUserDirectory) GetByUsername(ctx context.Context, username string) (*domain.UserRow, error) {
	for i := range d.users {
		if d.users[i].Username == username {
			row := d.users[i]
			return &row, nil
		}
	}
	return nil, nil
}

// GetByID returns the user with the given ID.
// Returns (nil, nil) when no user is found.
func (d *StaticUserDirectory) GetByID(ctx context.Context, userID string) (*domain.UserRow, error) {
	for i := range d.users {
		if d.users[i].ID == userID {
			row := d.users[i]
			return &row, nil
		}
	}
	return nil, nil
}
