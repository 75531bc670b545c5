package routes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/ideaboard/ideaboard/internal/auth"
	"github.com/ideaboard/ideaboard/internal/config"
	"github.com/ideaboard/ideaboard/internal/content"
	"github.com/ideaboard/ideaboard/internal/idea"
	"github.com/ideaboard/ideaboard/internal/middleware"
	"github.com/ideaboard/ideaboard/internal/notification"
	"github.com/ideaboard/ideaboard/internal/profile"
	"github.com/ideaboard/ideaboard/internal/reset"
	"github.com/ideaboard/ideaboard/internal/session"
	"github.com/ideaboard/ideaboard/internal/token"
	"github.com/ideaboard/ideaboard/internal/user"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes. Without a database
// it falls back to in-memory stores so the HTTP tests run self-contained; the
// server itself always boots with real stores because config requires their
// URLs.
func Setup(app *fiber.App, d Deps) error {
	// Middlewares. Security headers wrap the CORS handler so preflight
	// responses carry both sets; the CORS policy is the only CORS writer.
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))
	app.Use(middleware.SecurityHeaders(d.Cfg.IsProduction()))
	app.Use(middleware.NewCORSPolicy(d.Cfg.AllowedOrigins).Handler())

	// Health
	RegisterHealthRoutes(app, d)

	// Stores
	var (
		userRepo    user.Repository
		sessionRepo session.Repository
		resetRepo   reset.Repository
		ideaRepo    idea.Repository
	)
	if d.DB != nil {
		userRepo = user.NewPostgresRepository(d.DB)
		sessionRepo = session.NewPostgresRepository(d.DB)
		resetRepo = reset.NewPostgresRepository(d.DB)
		ideaRepo = idea.NewPostgresRepository(d.DB)
	} else {
		userRepo = user.NewMemoryRepository()
		sessionRepo = session.NewMemoryRepository()
		resetRepo = reset.NewMemoryRepository()
		ideaRepo = idea.NewMemoryRepository()
	}

	// Services and handlers
	codec := token.NewCodec(d.Cfg.JWTSecret, d.Cfg.SessionTTL)
	notifier := notification.NewLoggerNotifier(d.Logger)
	sanitizer := content.EscapeSanitizer{}

	resetSvc := reset.NewService(resetRepo, userRepo, notifier, d.Cfg.ResetTokenTTL)
	authSvc := auth.NewService(userRepo, sessionRepo, codec, d.Cfg.SessionTTL)
	resolver := auth.NewResolver(userRepo, sessionRepo, codec)

	authHandler := auth.NewHandler(authSvc, resetSvc, d.Logger, d.Cfg.IsProduction(), d.Cfg.SessionTTL)
	ideaHandler := idea.NewHandler(ideaRepo, sanitizer, d.Logger)
	profileHandler := profile.NewHandler(userRepo, sanitizer, d.Logger)

	// API routes
	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	rateLimit := func(prefix string) fiber.Handler {
		return middleware.EmailRateLimit(d.Cache, prefix, d.Cfg.LoginRatePerMin)
	}
	RegisterAuthRoutes(api, authHandler, rateLimit)

	authenticated := middleware.RequireAuthenticated(resolver)
	premium := middleware.RequirePremium(resolver)

	RegisterIdeaRoutes(api, ideaHandler, authenticated)
	RegisterUserRoutes(api, profileHandler, authenticated)

	// Profile echo for the resolved identity
	api.Get("/me", authenticated, func(c *fiber.Ctx) error {
		identity, _ := middleware.IdentityFrom(c)
		return c.Status(http.StatusOK).JSON(fiber.Map{"user": identity})
	})

	// Premium-gated surface
	api.Get("/premium/insights", premium, func(c *fiber.Ctx) error {
		identity, _ := middleware.IdentityFrom(c)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"message": "premium insights",
			"user_id": identity.ID,
		})
	})

	return nil
}
