package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ideaboard/ideaboard/internal/session"
	"github.com/ideaboard/ideaboard/internal/token"
	"github.com/ideaboard/ideaboard/internal/user"
)

const (
	bcryptCost   = 12
	storeTimeout = 5 * time.Second
)

// dummyHash keeps the bcrypt compare on the login path even when the email is
// unknown, so both rejection branches have the same timing shape.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("ideaboard-timing-pad"), bcryptCost)

// Service composes the token codec, the session store, and the user store
// into the login/register/logout orchestrations.
type Service struct {
	users      user.Repository
	sessions   session.Repository
	codec      *token.Codec
	sessionTTL time.Duration
}

// NewService builds the auth service. A non-positive sessionTTL defaults to
// the codec's 7-day window.
func NewService(users user.Repository, sessions session.Repository, codec *token.Codec, sessionTTL time.Duration) *Service {
	if sessionTTL <= 0 {
		sessionTTL = token.DefaultTTL
	}
	return &Service{users: users, sessions: sessions, codec: codec, sessionTTL: sessionTTL}
}

// RegisterInput carries the already-validated registration fields.
type RegisterInput struct {
	Email     string
	FirstName string
	LastName  string
	Username  string
	Password  string
}

// Register creates the account, then opens a session exactly like a login.
func (s *Service) Register(ctx context.Context, input RegisterInput) (user.Identity, string, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	exists, err := s.users.ExistsByEmailOrUsername(ctx, input.Email, input.Username)
	if err != nil {
		return user.Identity{}, "", fmt.Errorf("check existing user: %w", err)
	}
	if exists {
		return user.Identity{}, "", ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return user.Identity{}, "", fmt.Errorf("hash password: %w", err)
	}

	u := user.User{
		ID:           uuid.NewString(),
		Email:        input.Email,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Username:     input.Username,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return user.Identity{}, "", fmt.Errorf("create user: %w", err)
	}

	tok, err := s.openSession(ctx, u.ID)
	if err != nil {
		return user.Identity{}, "", err
	}
	return u.Identity(), tok, nil
}

// Login verifies the password against the stored hash and opens a session.
// Failure is uniform across unknown-email and wrong-password.
func (s *Service) Login(ctx context.Context, email, password string) (user.Identity, string, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return user.Identity{}, "", ErrInvalidCredentials
		}
		return user.Identity{}, "", fmt.Errorf("lookup user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)); err != nil {
		return user.Identity{}, "", ErrInvalidCredentials
	}

	tok, err := s.openSession(ctx, u.ID)
	if err != nil {
		return user.Identity{}, "", err
	}
	return u.Identity(), tok, nil
}

// Logout revokes the session behind the token. A token with no session is
// fine: logout is idempotent and always succeeds from the caller's view.
func (s *Service) Logout(ctx context.Context, tok string) error {
	if tok == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	if err := s.sessions.DeleteByToken(ctx, tok); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *Service) openSession(ctx context.Context, userID string) (string, error) {
	tok, err := s.codec.Issue(userID)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	if _, err := s.sessions.Create(ctx, userID, tok, s.sessionTTL); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return tok, nil
}
