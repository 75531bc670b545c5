// Package reset implements the single-use password-reset token lifecycle:
// at most one live token per user, a strict expiry window, and atomic
// consumption so replay and concurrent use fail.
package reset

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrInvalidToken is returned when a reset token is absent, expired, or was
// already consumed. Callers cannot distinguish the three.
var ErrInvalidToken = errors.New("invalid or expired reset token")

// Token is the persistent reset record. UserID is unique: issuing a new token
// for the same user overwrites and thereby invalidates the previous one.
type Token struct {
	UserID  string
	Token   string
	Expires time.Time
}

// Repository persists reset tokens.
type Repository interface {
	// Upsert stores the token for the user, replacing any prior row.
	Upsert(ctx context.Context, userID, token string, expires time.Time) error
	// Consume atomically deletes the live row for the token and returns the
	// owning user id. Exactly one concurrent caller can succeed; everyone
	// else gets ErrInvalidToken.
	Consume(ctx context.Context, token string) (string, error)
	// FindByUser returns the live token row for a user, if any. Used by tests
	// and store inspection, not by the request path.
	FindByUser(ctx context.Context, userID string) (Token, error)
}

// PostgresRepository stores reset tokens in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Upsert replaces the user's reset token under the user_id unique constraint.
// Last write wins; the displaced token is dead immediately.
func (r *PostgresRepository) Upsert(ctx context.Context, userID, token string, expires time.Time) error {
	ownerID, err := uuid.Parse(userID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO password_reset_tokens (user_id, token, expires)
        VALUES ($1, $2, $3)
        ON CONFLICT (user_id) DO UPDATE SET token = EXCLUDED.token, expires = EXCLUDED.expires`,
		ownerID, token, expires.UTC())
	return err
}

// Consume deletes the row in a single statement conditional on liveness, so
// two racing consumers cannot both observe success.
func (r *PostgresRepository) Consume(ctx context.Context, token string) (string, error) {
	var ownerID uuid.UUID
	err := r.db.QueryRow(ctx, `DELETE FROM password_reset_tokens
        WHERE token = $1 AND expires > now() RETURNING user_id`, token).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrInvalidToken
		}
		return "", err
	}
	return ownerID.String(), nil
}

// FindByUser fetches the live token row for the user.
func (r *PostgresRepository) FindByUser(ctx context.Context, userID string) (Token, error) {
	ownerID, err := uuid.Parse(userID)
	if err != nil {
		return Token{}, ErrInvalidToken
	}
	row := r.db.QueryRow(ctx, `SELECT user_id, token, expires FROM password_reset_tokens
        WHERE user_id = $1`, ownerID)
	var (
		id      uuid.UUID
		expires time.Time
		t       Token
	)
	if err := row.Scan(&id, &t.Token, &expires); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Token{}, ErrInvalidToken
		}
		return Token{}, err
	}
	t.UserID = id.String()
	t.Expires = expires.UTC()
	return t, nil
}
