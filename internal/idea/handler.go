package idea

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ideaboard/ideaboard/internal/content"
	"github.com/ideaboard/ideaboard/internal/middleware"
)

// Handler exposes the ideas endpoints.
type Handler struct {
	repo      Repository
	sanitizer content.Sanitizer
	logger    *slog.Logger
}

// NewHandler wires the ideas handler.
func NewHandler(repo Repository, sanitizer content.Sanitizer, logger *slog.Logger) *Handler {
	return &Handler{repo: repo, sanitizer: sanitizer, logger: logger}
}

type createRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

// Validate runs the field rules for idea creation.
func (r createRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Content, validation.Required),
		validation.Field(&r.Tags, validation.Length(0, 5), validation.By(validTags)),
	)
}

func validTags(value interface{}) error {
	tags, _ := value.([]string)
	for _, tag := range tags {
		if len(tag) < 1 || len(tag) > 30 {
			return errors.New("each tag must be between 1 and 30 characters")
		}
	}
	return nil
}

// Create stores a new idea authored by the resolved identity. Content passes
// through the sanitizer before it touches the store.
func (h *Handler) Create(c *fiber.Ctx) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	var req createRequest
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

	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}
	created := Idea{
		ID:        uuid.NewString(),
		Title:     req.Title,
		Content:   h.sanitizer.Sanitize(req.Content),
		Tags:      tags,
		AuthorID:  identity.ID,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.repo.Create(c.UserContext(), created); err != nil {
		h.logger.Error("create idea failed", "error", err)
		return fiber.ErrInternalServerError
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{"idea": created})
}

// List returns all ideas, newest first. Public endpoint.
func (h *Handler) List(c *fiber.Ctx) error {
	ideas, err := h.repo.List(c.UserContext())
	if err != nil {
		h.logger.Error("list ideas failed", "error", err)
		return fiber.ErrInternalServerError
	}
	if ideas == nil {
		ideas = []Idea{}
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"ideas": ideas})
}
