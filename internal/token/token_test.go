package token

import (
	"errors"
	"testing"
	"time"
)

func TestIssueAndVerifyRoundTrip(t *testing.T) {
	t.Parallel()

	codec := NewCodec("super-secret", time.Hour)

	tok, err := codec.Issue("user-123")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	userID, err := codec.Verify(tok)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if userID != "user-123" {
		t.Fatalf("user id mismatch: got %q want %q", userID, "user-123")
	}
}

func TestVerifyExpired(t *testing.T) {
	t.Parallel()

	codec := NewCodec("secret", time.Hour)

	tok, err := codec.IssueWithTTL("u1", -1*time.Second)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := codec.Verify(tok); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for expired token, got %v", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewCodec("right-secret", time.Hour).Issue("u2")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := NewCodec("wrong-secret", time.Hour).Verify(tok); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for bad signature, got %v", err)
	}
}

func TestVerifyMalformed(t *testing.T) {
	t.Parallel()

	codec := NewCodec("k", time.Hour)
	for _, tok := range []string{"", "not.a.jwt", "a.b"} {
		if _, err := codec.Verify(tok); !errors.Is(err, ErrInvalid) {
			t.Fatalf("expected ErrInvalid for %q, got %v", tok, err)
		}
	}
}

func TestDefaultTTLFallback(t *testing.T) {
	t.Parallel()

	codec := NewCodec("k", 0)
	if codec.ttl != DefaultTTL {
		t.Fatalf("expected default ttl %s, got %s", DefaultTTL, codec.ttl)
	}
}
