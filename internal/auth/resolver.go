package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ideaboard/ideaboard/internal/session"
	"github.com/ideaboard/ideaboard/internal/token"
	"github.com/ideaboard/ideaboard/internal/user"
)

// CookieName is the auth token cookie accepted alongside the Bearer header.
const CookieName = "auth-token"

const resolveTimeout = 5 * time.Second

// Resolver turns an inbound request into a resolved identity, or an explicit
// "no identity". Absent, invalid, or expired credentials are not errors; only
// a store outage is.
type Resolver struct {
	users    user.Repository
	sessions session.Repository
	codec    *token.Codec
}

// NewResolver builds a request identity resolver.
func NewResolver(users user.Repository, sessions session.Repository, codec *token.Codec) *Resolver {
	return &Resolver{users: users, sessions: sessions, codec: codec}
}

// Resolve extracts the credential, verifies its signature, cross-checks the
// session record for liveness, and loads the public user fields. It never
// writes to the response.
func (r *Resolver) Resolve(c *fiber.Ctx) (user.Identity, bool, error) {
	tok := CredentialFromRequest(c)
	if tok == "" {
		return user.Identity{}, false, nil
	}

	userID, err := r.codec.Verify(tok)
	if err != nil {
		return user.Identity{}, false, nil
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), resolveTimeout)
	defer cancel()

	sess, err := r.sessions.FindByToken(ctx, tok)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return user.Identity{}, false, nil
		}
		return user.Identity{}, false, err
	}
	// Session expiry is authoritative even while the token signature is
	// still within its own validity window.
	if sess.Expired(time.Now()) {
		return user.Identity{}, false, nil
	}
	if sess.UserID != userID {
		return user.Identity{}, false, nil
	}

	u, err := r.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.Identity{}, false, nil
		}
		return user.Identity{}, false, err
	}

	return u.Identity(), true, nil
}

// CredentialFromRequest pulls the bearer token from the Authorization header,
// falling back to the auth cookie. Empty string means no credential present.
func CredentialFromRequest(c *fiber.Ctx) string {
	authz := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(strings.ToLower(authz), "bearer ") {
		return strings.TrimSpace(authz[len("Bearer "):])
	}
	return c.Cookies(CookieName)
}
