package middleware

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

const (
	allowedMethods = "GET,POST,PUT,PATCH,DELETE,OPTIONS"
	allowedHeaders = "Content-Type,Authorization"
)

// CORSPolicy is the single CORS authority for the process. The allow-list is
// fixed at construction (from the environment-scoped config) and never
// mutated, so every response is stamped by exactly one decision path.
type CORSPolicy struct {
	allowed map[string]struct{}
}

// NewCORSPolicy builds the policy from the configured origin allow-list.
func NewCORSPolicy(origins []string) *CORSPolicy {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}
	return &CORSPolicy{allowed: allowed}
}

// Decision holds the headers derived for one request origin.
type Decision struct {
	Allowed bool
	Origin  string
}

// Decide evaluates the request origin against the allow-list. Absent or
// unknown origins are denied with the literal "null" origin echo.
func (p *CORSPolicy) Decide(origin string) Decision {
	if origin == "" {
		return Decision{}
	}
	if _, ok := p.allowed[origin]; !ok {
		return Decision{}
	}
	return Decision{Allowed: true, Origin: origin}
}

// apply stamps the decision headers. Handler-set headers are preserved; only
// the CORS set is written here.
func (d Decision) apply(c *fiber.Ctx) {
	c.Set(fiber.HeaderVary, fiber.HeaderOrigin)
	if !d.Allowed {
		c.Set(fiber.HeaderAccessControlAllowOrigin, "null")
		return
	}
	c.Set(fiber.HeaderAccessControlAllowOrigin, d.Origin)
	c.Set(fiber.HeaderAccessControlAllowCredentials, "true")
	c.Set(fiber.HeaderAccessControlAllowMethods, allowedMethods)
	c.Set(fiber.HeaderAccessControlAllowHeaders, allowedHeaders)
}

// Handler returns the CORS middleware. Preflight requests terminate here with
// 204 and only the decided headers; no downstream handler ever observes an
// OPTIONS request. For everything else the decision is merged onto whatever
// the handler produces.
func (p *CORSPolicy) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		decision := p.Decide(c.Get(fiber.HeaderOrigin))

		if c.Method() == fiber.MethodOptions {
			decision.apply(c)
			return c.SendStatus(http.StatusNoContent)
		}

		err := c.Next()
		decision.apply(c)
		return err
	}
}
