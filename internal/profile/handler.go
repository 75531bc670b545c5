// Package profile exposes the public user-profile endpoints.
package profile

import (
	"errors"
	"log/slog"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"

	"github.com/ideaboard/ideaboard/internal/content"
	"github.com/ideaboard/ideaboard/internal/middleware"
	"github.com/ideaboard/ideaboard/internal/user"
)

// Handler exposes profile read/update endpoints.
type Handler struct {
	users     user.Repository
	sanitizer content.Sanitizer
	logger    *slog.Logger
}

// NewHandler wires the profile handler.
func NewHandler(users user.Repository, sanitizer content.Sanitizer, logger *slog.Logger) *Handler {
	return &Handler{users: users, sanitizer: sanitizer, logger: logger}
}

// Get returns the public profile for the user id in the path.
func (h *Handler) Get(c *fiber.Ctx) error {
	u, err := h.users.FindByID(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, "User not found")
		}
		h.logger.Error("profile lookup failed", "error", err)
		return fiber.ErrInternalServerError
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"user": u.Profile()})
}

type updateRequest struct {
	DisplayName string `json:"displayName"`
	Bio         string `json:"bio"`
	Website     string `json:"website"`
}

// Validate runs the field rules for a profile update.
func (r updateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.DisplayName, validation.Required, validation.Length(1, 50)),
		validation.Field(&r.Bio, validation.Length(0, 300)),
		validation.Field(&r.Website, is.URL),
	)
}

// Update patches the caller's own profile. Bio may carry limited formatting,
// so it runs through the sanitizer; the display name is escaped the same way.
func (h *Handler) Update(c *fiber.Ctx) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return fiber.ErrUnauthorized
	}
	if identity.ID != c.Params("id") {
		return fiber.NewError(http.StatusForbidden, "Cannot update another user's profile")
	}

	var req updateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := req.Validate(); err != nil {
		var fields validation.Errors
		if errors.As(err, &fields) {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{
				"error":   "validation failed",
				"details": fields,
			})
		}
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	updated, err := h.users.UpdateProfile(c.UserContext(), identity.ID, user.ProfileUpdate{
		DisplayName: h.sanitizer.Sanitize(req.DisplayName),
		Bio:         h.sanitizer.Sanitize(req.Bio),
		Website:     req.Website,
	})
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, "User not found")
		}
		h.logger.Error("profile update failed", "error", err)
		return fiber.ErrInternalServerError
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{"user": updated.Profile()})
}
