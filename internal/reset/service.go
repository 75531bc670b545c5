package reset

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/ideaboard/ideaboard/internal/notification"
	"github.com/ideaboard/ideaboard/internal/user"
)

const (
	tokenBytes   = 32
	storeTimeout = 5 * time.Second
	bcryptCost   = 12
)

// Service orchestrates the reset lifecycle around the token store, the user
// store, and the delivery collaborator.
type Service struct {
	tokens   Repository
	users    user.Repository
	notifier notification.Notifier
	ttl      time.Duration
}

// NewService creates a reset service. A non-positive ttl defaults to one hour.
func NewService(tokens Repository, users user.Repository, notifier notification.Notifier, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Service{tokens: tokens, users: users, notifier: notifier, ttl: ttl}
}

// Request issues a reset token for the account behind email and triggers
// delivery. An unknown email is not an error and leaves no record behind, so
// the caller's response is identical either way.
func (s *Service) Request(ctx context.Context, email string) error {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("lookup user: %w", err)
	}

	tok, err := generateToken()
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}

	if err := s.tokens.Upsert(ctx, u.ID, tok, time.Now().Add(s.ttl)); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	return s.notifier.Send(ctx, notification.Message{
		Kind:        notification.KindPasswordReset,
		Destination: u.Email,
		Body:        "Use this token to reset your password: " + tok,
	})
}

// Consume redeems the token exactly once and replaces the user's credential.
// The token row is deleted before the password write, so a second attempt with
// the same token fails regardless of the outcome of the write.
func (s *Service) Consume(ctx context.Context, token, newPassword string) error {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	userID, err := s.tokens.Consume(ctx, token)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// generateToken returns a high-entropy random hex token. It is deliberately
// not a signed credential: knowing the JWT signing key must not let anyone
// forge a reset token, and a random value can be revoked independently.
func generateToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
