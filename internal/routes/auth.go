package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ideaboard/ideaboard/internal/auth"
)

// RegisterAuthRoutes wires authentication and credential-recovery endpoints.
// Login and forgot-password sit behind per-email rate limiting.
func RegisterAuthRoutes(r fiber.Router, h *auth.Handler, rateLimit func(prefix string) fiber.Handler) {
	grp := r.Group("/auth")
	grp.Post("/register", h.Register)
	grp.Post("/login", rateLimit("login"), h.Login)
	grp.Post("/logout", h.Logout)
	grp.Post("/forgot-password", rateLimit("forgot"), h.ForgotPassword)
	grp.Post("/reset-password", h.ResetPassword)
}
