package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"

	"github.com/ideaboard/ideaboard/internal/reset"
	"github.com/ideaboard/ideaboard/internal/user"
)

// Handler exposes the auth endpoints: register, login, logout, and the
// password-reset pair.
type Handler struct {
	svc          *Service
	resets       *reset.Service
	logger       *slog.Logger
	secureCookie bool
	cookieMaxAge time.Duration
}

// NewHandler wires the auth handler. secureCookie should be true in
// production so the cookie is HTTPS-only.
func NewHandler(svc *Service, resets *reset.Service, logger *slog.Logger, secureCookie bool, cookieMaxAge time.Duration) *Handler {
	if cookieMaxAge <= 0 {
		cookieMaxAge = 7 * 24 * time.Hour
	}
	return &Handler{svc: svc, resets: resets, logger: logger, secureCookie: secureCookie, cookieMaxAge: cookieMaxAge}
}

type registerRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Password  string `json:"password"`
	Username  string `json:"username"`
}

// Validate runs the field rules for registration.
func (r registerRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.FirstName, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.LastName, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
		validation.Field(&r.Username, validation.Length(3, 50)),
	)
}

type sessionResponse struct {
	User  user.Identity `json:"user"`
	Token string        `json:"token"`
}

// Register creates an account and responds like a successful login.
func (h *Handler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := req.Validate(); err != nil {
		return validationError(c, err)
	}

	identity, tok, err := h.svc.Register(c.UserContext(), RegisterInput{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
		Password:  req.Password,
	})
	if err != nil {
		if errors.Is(err, ErrUserExists) {
			return fiber.NewError(http.StatusBadRequest, ErrUserExists.Error())
		}
		h.logger.Error("register failed", "error", err)
		return fiber.ErrInternalServerError
	}

	h.setAuthCookie(c, tok)
	return c.Status(http.StatusCreated).JSON(sessionResponse{User: identity, Token: tok})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate runs the field rules for login.
func (r loginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

// Login verifies credentials and returns the session token. Rejections are
// one uniform 401 regardless of which check failed.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := req.Validate(); err != nil {
		return validationError(c, err)
	}

	identity, tok, err := h.svc.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return fiber.NewError(http.StatusUnauthorized, ErrInvalidCredentials.Error())
		}
		h.logger.Error("login failed", "error", err)
		return fiber.ErrInternalServerError
	}

	h.setAuthCookie(c, tok)
	return c.Status(http.StatusOK).JSON(sessionResponse{User: identity, Token: tok})
}

// Logout revokes the session behind the presented credential and clears the
// cookie. It responds 200 whether or not a session existed.
func (h *Handler) Logout(c *fiber.Ctx) error {
	tok := CredentialFromRequest(c)
	if err := h.svc.Logout(c.UserContext(), tok); err != nil {
		h.logger.Warn("logout session delete failed", "error", err)
	}

	h.clearAuthCookie(c)
	return c.Status(http.StatusOK).JSON(fiber.Map{"message": "Logged out successfully"})
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// Validate runs the field rules for the reset request.
func (r forgotPasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
	)
}

const resetRequestedMessage = "If the account exists, a reset link will be sent."

// ForgotPassword triggers the reset lifecycle. The response is the same
// generic 200 whether or not the account exists.
func (h *Handler) ForgotPassword(c *fiber.Ctx) error {
	var req forgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := req.Validate(); err != nil {
		return validationError(c, err)
	}

	if err := h.resets.Request(c.UserContext(), req.Email); err != nil {
		h.logger.Error("password reset request failed", "error", err)
		return fiber.ErrInternalServerError
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{"message": resetRequestedMessage})
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

// Validate runs the field rules for reset consumption.
func (r resetPasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Token, validation.Required),
		validation.Field(&r.NewPassword, validation.Required, validation.Length(8, 100)),
	)
}

// ResetPassword consumes the single-use token and updates the credential.
func (h *Handler) ResetPassword(c *fiber.Ctx) error {
	var req resetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := req.Validate(); err != nil {
		return validationError(c, err)
	}

	if err := h.resets.Consume(c.UserContext(), req.Token, req.NewPassword); err != nil {
		if errors.Is(err, reset.ErrInvalidToken) {
			return fiber.NewError(http.StatusBadRequest, reset.ErrInvalidToken.Error())
		}
		h.logger.Error("password reset failed", "error", err)
		return fiber.ErrInternalServerError
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{"message": "Password updated successfully"})
}

func (h *Handler) setAuthCookie(c *fiber.Ctx, tok string) {
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    tok,
		Path:     "/",
		MaxAge:   int(h.cookieMaxAge.Seconds()),
		HTTPOnly: true,
		Secure:   h.secureCookie,
	})
}

func (h *Handler) clearAuthCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   h.secureCookie,
	})
}

// validationError renders ozzo field errors as a 400 with per-field details.
func validationError(c *fiber.Ctx, err error) error {
	var fields validation.Errors
	if errors.As(err, &fields) {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error":   "validation failed",
			"details": fields,
		})
	}
	return fiber.NewError(http.StatusBadRequest, err.Error())
}
