package reset

import (
	"context"
	"sync"
	"time"
)

type memoryRepository struct {
	mu     sync.Mutex
	byUser map[string]Token
}

// NewMemoryRepository builds an in-memory reset token store for testing. The
// mutex gives Consume the same exactly-once behavior as the conditional
// delete in the Postgres implementation.
func NewMemoryRepository() Repository {
	return &memoryRepository{byUser: make(map[string]Token)}
}

func (r *memoryRepository) Upsert(_ context.Context, userID, token string, expires time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byUser[userID] = Token{UserID: userID, Token: token, Expires: expires}
	return nil
}

func (r *memoryRepository) Consume(_ context.Context, token string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for userID, t := range r.byUser {
		if t.Token == token {
			if now.After(t.Expires) {
				return "", ErrInvalidToken
			}
			delete(r.byUser, userID)
			return userID, nil
		}
	}
	return "", ErrInvalidToken
}

func (r *memoryRepository) FindByUser(_ context.Context, userID string) (Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byUser[userID]
	if !ok {
		return Token{}, ErrInvalidToken
	}
	return t, nil
}
