package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when no session matches the token.
var ErrNotFound = errors.New("session not found")

// Repository persists sessions. Multiple live sessions per user are allowed;
// there is no uniqueness constraint on the user id.
type Repository interface {
	Create(ctx context.Context, userID, token string, ttl time.Duration) (Session, error)
	FindByToken(ctx context.Context, token string) (Session, error)
	// DeleteByToken is idempotent: deleting an absent token is a no-op success.
	DeleteByToken(ctx context.Context, token string) error
	// DeleteExpired removes rows past their expiry and reports how many went.
	// Resolution correctness never depends on this running.
	DeleteExpired(ctx context.Context) (int64, error)
}

// PostgresRepository stores sessions in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a session row expiring at now+ttl.
func (r *PostgresRepository) Create(ctx context.Context, userID, token string, ttl time.Duration) (Session, error) {
	ownerID, err := uuid.Parse(userID)
	if err != nil {
		return Session{}, err
	}
	now := time.Now().UTC()
	s := Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Token:     token,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	_, err = r.db.Exec(ctx, `INSERT INTO sessions (id, user_id, token, created_at, expires_at)
        VALUES ($1, $2, $3, $4, $5)`, uuid.MustParse(s.ID), ownerID, s.Token, s.CreatedAt, s.ExpiresAt)
	if err != nil {
		return Session{}, err
	}
	return s, nil
}

// FindByToken fetches the session for the given token.
func (r *PostgresRepository) FindByToken(ctx context.Context, token string) (Session, error) {
	row := r.db.QueryRow(ctx, `SELECT id, user_id, token, created_at, expires_at
        FROM sessions WHERE token = $1`, token)
	var (
		id        uuid.UUID
		ownerID   uuid.UUID
		createdAt time.Time
		expiresAt time.Time
		s         Session
	)
	if err := row.Scan(&id, &ownerID, &s.Token, &createdAt, &expiresAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Session{}, ErrNotFound
		}
		return Session{}, err
	}
	s.ID = id.String()
	s.UserID = ownerID.String()
	s.CreatedAt = createdAt.UTC()
	s.ExpiresAt = expiresAt.UTC()
	return s, nil
}

// DeleteByToken removes the session for the token. Absence is a no-op success
// so logout stays idempotent even after a sweep already removed the row.
func (r *PostgresRepository) DeleteByToken(ctx context.Context, token string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM sessions WHERE token = $1`, token)
	return err
}

// DeleteExpired sweeps rows whose expiry has passed.
func (r *PostgresRepository) DeleteExpired(ctx context.Context) (int64, error) {
	cmd, err := r.db.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= now()`)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
