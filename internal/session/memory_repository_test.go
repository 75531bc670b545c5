package session

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCreateAndFind(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	s, err := repo.Create(ctx, "user-1", "tok-1", time.Hour)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if s.UserID != "user-1" || s.Token != "tok-1" {
		t.Fatalf("unexpected session: %+v", s)
	}
	if !s.ExpiresAt.After(s.CreatedAt) {
		t.Fatalf("expected expiry after creation: %+v", s)
	}

	found, err := repo.FindByToken(ctx, "tok-1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found.ID != s.ID {
		t.Fatalf("expected session %s, got %s", s.ID, found.ID)
	}
}

func TestDeleteByTokenIdempotent(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	if _, err := repo.Create(ctx, "user-1", "tok-1", time.Hour); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := repo.DeleteByToken(ctx, "tok-1"); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	// Second delete of the same token must still succeed.
	if err := repo.DeleteByToken(ctx, "tok-1"); err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if err := repo.DeleteByToken(ctx, "never-existed"); err != nil {
		t.Fatalf("delete absent: %v", err)
	}

	if _, err := repo.FindByToken(ctx, "tok-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestMultipleSessionsPerUser(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	if _, err := repo.Create(ctx, "user-1", "device-a", time.Hour); err != nil {
		t.Fatalf("create a: %v", err)
	}
	if _, err := repo.Create(ctx, "user-1", "device-b", time.Hour); err != nil {
		t.Fatalf("create b: %v", err)
	}

	for _, tok := range []string{"device-a", "device-b"} {
		if _, err := repo.FindByToken(ctx, tok); err != nil {
			t.Fatalf("find %s: %v", tok, err)
		}
	}
}

func TestDeleteExpired(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	if _, err := repo.Create(ctx, "user-1", "stale", -time.Minute); err != nil {
		t.Fatalf("create stale: %v", err)
	}
	if _, err := repo.Create(ctx, "user-1", "fresh", time.Hour); err != nil {
		t.Fatalf("create fresh: %v", err)
	}

	removed, err := repo.DeleteExpired(ctx)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removed, got %d", removed)
	}
	if _, err := repo.FindByToken(ctx, "fresh"); err != nil {
		t.Fatalf("fresh session should survive sweep: %v", err)
	}
}

func TestExpired(t *testing.T) {
	now := time.Now()
	s := Session{ExpiresAt: now.Add(time.Minute)}
	if s.Expired(now) {
		t.Fatal("session should be live before expiry")
	}
	if !s.Expired(now.Add(time.Minute)) {
		t.Fatal("session should be expired at the boundary")
	}
}
