package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ideaboard/ideaboard/internal/idea"
)

// RegisterIdeaRoutes wires the idea feed. Listing is public, posting requires
// an authenticated session.
func RegisterIdeaRoutes(r fiber.Router, h *idea.Handler, authenticated fiber.Handler) {
	r.Get("/ideas", h.List)
	r.Post("/ideas", authenticated, h.Create)
}
