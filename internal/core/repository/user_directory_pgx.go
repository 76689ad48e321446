package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sessiongate/internal/core/domain"
)

// PgxUserDirectory implements domain.UserDirectory using pgxpool.
type PgxUserDirectory struct {
	pool *pgxpool.Pool
}

// NewPgxUserDirectory creates a postgres-backed user directory.
func NewPgxUserDirectory(pool *pgxpool.Pool) *PgxUserDirectory {
	return &PgxUserDirectory{pool: pool}
}

// GetByUsername returns the user matching the given username.
// Returns (nil, nil) when no user is found.
func (d *PgxUserDirectory) GetByUsername(ctx context.Context, username string) (*domain.UserRow, error) {
	query := `SELECT id, username, password_hash FROM users WHERE username = $1`

	var row domain.UserRow
	err := d.pool.QueryRow(ctx, query, username).Scan(&row.ID, &row.Username, &row.PasswordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &row, nil
}

// GetByID returns the user with the given ID.
// Returns (nil, nil) when no user is found.
func (d *PgxUserDirectory) GetByID(ctx context.Context, userID string) (*domain.UserRow, error) {
	query := `SELECT id, username, password_hash FROM users WHERE id = $1`

	var row domain.UserRow
	err := d.pool.QueryRow(ctx, query, userID).Scan(&row.ID, &row.Username, &row.PasswordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &row, nil
}
