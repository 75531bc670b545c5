package user

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when no user matches the lookup.
var ErrNotFound = errors.New("user not found")

// Repository persists users.
type Repository interface {
	Create(ctx context.Context, user User) error
	FindByID(ctx context.Context, id string) (User, error)
	FindByEmail(ctx context.Context, email string) (User, error)
	ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error)
	UpdatePassword(ctx context.Context, id string, passwordHash []byte) error
	UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (User, error)
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed user repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, email, first_name, last_name, username, is_premium,
        wallet_address, display_name, bio, website, password_hash, created_at`

// Create inserts a new user.
func (r *PostgresRepository) Create(ctx context.Context, user User) error {
	userID, err := uuid.Parse(user.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO users (id, email, first_name, last_name, username, is_premium,
        wallet_address, display_name, bio, website, password_hash, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		userID, user.Email, user.FirstName, user.LastName, nullable(user.Username), user.IsPremium,
		nullable(user.WalletAddress), nullable(user.DisplayName), nullable(user.Bio),
		nullable(user.Website), user.PasswordHash, user.CreatedAt.UTC())
	return err
}

// FindByID fetches a user by identifier.
func (r *PostgresRepository) FindByID(ctx context.Context, id string) (User, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return User{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID)
	return scanUser(row)
}

// FindByEmail fetches a user by email address.
func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

// ExistsByEmailOrUsername reports whether any account already claims the email
// or the (optional) username.
func (r *PostgresRepository) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (
        SELECT 1 FROM users WHERE email = $1 OR ($2 <> '' AND username = $2))`,
		email, username).Scan(&exists)
	return exists, err
}

// UpdatePassword replaces the stored credential hash.
func (r *PostgresRepository) UpdatePassword(ctx context.Context, id string, passwordHash []byte) error {
	userID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `UPDATE users SET password_hash = $1 WHERE id = $2`, passwordHash, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateProfile stores the mutable profile fields and returns the updated row.
func (r *PostgresRepository) UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (User, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return User{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `UPDATE users SET display_name = $1, bio = $2, website = $3
        WHERE id = $4 RETURNING `+userColumns,
		nullable(update.DisplayName), nullable(update.Bio), nullable(update.Website), userID)
	return scanUser(row)
}

func scanUser(row pgx.Row) (User, error) {
	var (
		id          uuid.UUID
		username    *string
		walletAddr  *string
		displayName *string
		bio         *string
		website     *string
		createdAt   time.Time
		u           User
	)
	err := row.Scan(&id, &u.Email, &u.FirstName, &u.LastName, &username, &u.IsPremium,
		&walletAddr, &displayName, &bio, &website, &u.PasswordHash, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	u.ID = id.String()
	u.Username = deref(username)
	u.WalletAddress = deref(walletAddr)
	u.DisplayName = deref(displayName)
	u.Bio = deref(bio)
	u.Website = deref(website)
	u.CreatedAt = createdAt.UTC()
	return u, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
