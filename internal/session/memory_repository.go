package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryRepository struct {
	mu      sync.RWMutex
	byToken map[string]Session
}

// NewMemoryRepository builds an in-memory session store for testing.
func NewMemoryRepository() Repository {
	return &memoryRepository{byToken: make(map[string]Session)}
}

func (r *memoryRepository) Create(_ context.Context, userID, token string, ttl time.Duration) (Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	s := Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Token:     token,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	r.byToken[token] = s
	return s, nil
}

func (r *memoryRepository) FindByToken(_ context.Context, token string) (Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byToken[token]
	if !ok {
		return Session{}, ErrNotFound
	}
	return s, nil
}

func (r *memoryRepository) DeleteByToken(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byToken, token)
	return nil
}

func (r *memoryRepository) DeleteExpired(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	var removed int64
	for token, s := range r.byToken {
		if s.Expired(now) {
			delete(r.byToken, token)
			removed++
		}
	}
	return removed, nil
}
