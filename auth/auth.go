// Package auth resolves a request credential to a user identity. Token
// issuance and OAuth exchange happen elsewhere; this layer only looks tokens
// up.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrInvalidToken is returned when a session token matches no user.
var ErrInvalidToken = errors.New("invalid session token")

type Authenticator interface {
	UserForToken(ctx context.Context, token string) (uuid.UUID, error)
}

// PostgresAuthenticator resolves session tokens against the users table.
type PostgresAuthenticator struct {
	pool *pgxpool.Pool
}

func NewPostgresAuthenticator(pool *pgxpool.Pool) *PostgresAuthenticator {
	return &PostgresAuthenticator{pool: pool}
}

func (a *PostgresAuthenticator) UserForToken(ctx context.Context, token string) (uuid.UUID, error) {
	if token == "" {
		return uuid.Nil, ErrInvalidToken
	}

	var userID uuid.UUID
	err := a.pool.QueryRow(ctx, "SELECT id FROM users WHERE session_token = $1", token).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, ErrInvalidToken
		}
		return uuid.Nil, fmt.Errorf("look up session token: %w", err)
	}
	return userID, nil
}

var _ Authenticator = (*PostgresAuthenticator)(nil)
