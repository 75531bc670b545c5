package session

import (
	"context"
	"log/slog"
	"time"
)

// Sweeper periodically deletes expired session rows. It is purely hygienic:
// the identity resolver checks expiry on every lookup, so a late or missing
// sweep never extends a session's life.
type Sweeper struct {
	repo     Repository
	interval time.Duration
	logger   *slog.Logger
}

// NewSweeper builds a sweeper over the given repository. A non-positive
// interval defaults to one hour.
func NewSweeper(repo Repository, interval time.Duration, logger *slog.Logger) *Sweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Sweeper{repo: repo, interval: interval, logger: logger}
}

// Run blocks, sweeping on every tick until the context is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := s.repo.DeleteExpired(ctx)
			if err != nil {
				s.logger.Warn("session sweep failed", "error", err)
				continue
			}
			if removed > 0 {
				s.logger.Info("session sweep", "removed", removed)
			}
		}
	}
}
