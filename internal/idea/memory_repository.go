package idea

import (
	"context"
	"sort"
	"sync"
)

type memoryRepository struct {
	mu    sync.RWMutex
	ideas []Idea
}

// NewMemoryRepository builds an in-memory idea store for testing.
func NewMemoryRepository() Repository {
	return &memoryRepository{}
}

func (r *memoryRepository) Create(_ context.Context, idea Idea) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ideas = append(r.ideas, idea)
	return nil
}

func (r *memoryRepository) List(_ context.Context) ([]Idea, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Idea, len(r.ideas))
	copy(out, r.ideas)
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
