package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ideaboard/ideaboard/internal/profile"
)

// RegisterUserRoutes wires public profile reads and owner-only profile updates.
func RegisterUserRoutes(r fiber.Router, h *profile.Handler, authenticated fiber.Handler) {
	r.Get("/users/:id", h.Get)
	r.Patch("/users/:id", authenticated, h.Update)
}
