package reset

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/google/uuid"

	"github.com/ideaboard/ideaboard/internal/logging"
	"github.com/ideaboard/ideaboard/internal/notification"
	"github.com/ideaboard/ideaboard/internal/user"
)

func newFixture(t *testing.T) (*Service, Repository, user.Repository, user.User) {
	t.Helper()
	tokens := NewMemoryRepository()
	users := user.NewMemoryRepository()
	notifier := notification.NewLoggerNotifier(logging.Discard())
	svc := NewService(tokens, users, notifier, time.Hour)

	u := user.User{
		ID:        uuid.NewString(),
		Email:     "a@b.com",
		FirstName: "A",
		LastName:  "B",
		CreatedAt: time.Now().UTC(),
	}
	if err := users.Create(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return svc, tokens, users, u
}

func TestRequestUnknownEmailLeavesNoRecord(t *testing.T) {
	svc, tokens, _, u := newFixture(t)
	ctx := context.Background()

	if err := svc.Request(ctx, "nobody@example.com"); err != nil {
		t.Fatalf("request for unknown email must succeed: %v", err)
	}
	if _, err := tokens.FindByUser(ctx, u.ID); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected no token row, got %v", err)
	}
}

func TestRequestStoresTokenAndExpiry(t *testing.T) {
	svc, tokens, _, u := newFixture(t)
	ctx := context.Background()

	if err := svc.Request(ctx, u.Email); err != nil {
		t.Fatalf("request: %v", err)
	}

	tok, err := tokens.FindByUser(ctx, u.ID)
	if err != nil {
		t.Fatalf("find token: %v", err)
	}
	if len(tok.Token) != tokenBytes*2 {
		t.Fatalf("expected %d hex chars, got %d", tokenBytes*2, len(tok.Token))
	}
	if until := time.Until(tok.Expires); until <= 0 || until > time.Hour {
		t.Fatalf("expiry outside 1h window: %s", until)
	}
}

func TestOnlyLatestTokenIsValid(t *testing.T) {
	svc, tokens, _, u := newFixture(t)
	ctx := context.Background()

	var issued []string
	for i := 0; i < 3; i++ {
		if err := svc.Request(ctx, u.Email); err != nil {
			t.Fatalf("request %d: %v", i, err)
		}
		tok, err := tokens.FindByUser(ctx, u.ID)
		if err != nil {
			t.Fatalf("find token %d: %v", i, err)
		}
		issued = append(issued, tok.Token)
	}

	// Every earlier token was displaced by the upsert and must fail.
	for _, stale := range issued[:len(issued)-1] {
		if err := svc.Consume(ctx, stale, "newpassword1"); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("stale token should be invalid, got %v", err)
		}
	}
	if err := svc.Consume(ctx, issued[len(issued)-1], "newpassword1"); err != nil {
		t.Fatalf("latest token should consume: %v", err)
	}
}

func TestConsumeIsSingleUse(t *testing.T) {
	svc, tokens, _, u := newFixture(t)
	ctx := context.Background()

	if err := svc.Request(ctx, u.Email); err != nil {
		t.Fatalf("request: %v", err)
	}
	tok, err := tokens.FindByUser(ctx, u.ID)
	if err != nil {
		t.Fatalf("find token: %v", err)
	}

	if err := svc.Consume(ctx, tok.Token, "newpassword1"); err != nil {
		t.Fatalf("first consume: %v", err)
	}
	if err := svc.Consume(ctx, tok.Token, "otherpassword"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("replay should fail with ErrInvalidToken, got %v", err)
	}
}

func TestConcurrentConsumeExactlyOnce(t *testing.T) {
	svc, tokens, _, u := newFixture(t)
	ctx := context.Background()

	if err := svc.Request(ctx, u.Email); err != nil {
		t.Fatalf("request: %v", err)
	}
	tok, err := tokens.FindByUser(ctx, u.ID)
	if err != nil {
		t.Fatalf("find token: %v", err)
	}

	const callers = 8
	var wg sync.WaitGroup
	results := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- svc.Consume(ctx, tok.Token, "newpassword1")
		}()
	}
	wg.Wait()
	close(results)

	var succeeded, invalid int
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrInvalidToken):
			invalid++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 || invalid != callers-1 {
		t.Fatalf("expected exactly one success, got %d successes and %d invalid", succeeded, invalid)
	}
}

func TestConsumeExpiredToken(t *testing.T) {
	svc, tokens, _, u := newFixture(t)
	ctx := context.Background()

	if err := tokens.Upsert(ctx, u.ID, "stale-token", time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("seed stale token: %v", err)
	}
	if err := svc.Consume(ctx, "stale-token", "newpassword1"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expired token should be invalid, got %v", err)
	}
}

func TestConsumeUpdatesCredential(t *testing.T) {
	svc, tokens, users, u := newFixture(t)
	ctx := context.Background()

	if err := svc.Request(ctx, u.Email); err != nil {
		t.Fatalf("request: %v", err)
	}
	tok, err := tokens.FindByUser(ctx, u.ID)
	if err != nil {
		t.Fatalf("find token: %v", err)
	}
	if err := svc.Consume(ctx, tok.Token, "brand-new-password"); err != nil {
		t.Fatalf("consume: %v", err)
	}

	updated, err := users.FindByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword(updated.PasswordHash, []byte("brand-new-password")); err != nil {
		t.Fatalf("new password should verify: %v", err)
	}
}
