package middleware

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/ideaboard/ideaboard/internal/auth"
	"github.com/ideaboard/ideaboard/internal/user"
)

const identityKey = "identity"

// Check inspects a resolved identity and either terminates the request with
// an error or returns nil to pass control to the next check.
type Check func(user.Identity) error

// Chain builds a guard middleware: resolve the identity once, run the checks
// in order, then attach the identity to request-scoped locals and forward.
// Absence of an identity terminates with 401 before any check runs; a store
// outage is a 500, never a silent denial.
func Chain(resolver *auth.Resolver, checks ...Check) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok, err := resolver.Resolve(c)
		if err != nil {
			return fiber.NewError(http.StatusInternalServerError, "identity store unavailable")
		}
		if !ok {
			return fiber.NewError(http.StatusUnauthorized, "Authentication required")
		}
		for _, check := range checks {
			if err := check(identity); err != nil {
				return err
			}
		}
		c.Locals(identityKey, identity)
		return c.Next()
	}
}

// PremiumOnly rejects identities without the premium tier.
func PremiumOnly(identity user.Identity) error {
	if !identity.IsPremium {
		return fiber.NewError(http.StatusForbidden, "Premium subscription required")
	}
	return nil
}

// RequireAuthenticated guards a route behind any resolved identity.
func RequireAuthenticated(resolver *auth.Resolver) fiber.Handler {
	return Chain(resolver)
}

// RequirePremium guards a route behind a premium identity.
func RequirePremium(resolver *auth.Resolver) fiber.Handler {
	return Chain(resolver, PremiumOnly)
}

// IdentityFrom returns the identity attached by a guard.
func IdentityFrom(c *fiber.Ctx) (user.Identity, bool) {
	identity, ok := c.Locals(identityKey).(user.Identity)
	return identity, ok
}
