package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/ledgerbook/ledgerbook/internal/auth"
	"github.com/ledgerbook/ledgerbook/internal/config"
	"github.com/ledgerbook/ledgerbook/internal/middleware"
	"github.com/ledgerbook/ledgerbook/internal/notification"
	"github.com/ledgerbook/ledgerbook/internal/statement"
	"github.com/ledgerbook/ledgerbook/internal/user"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Enforce DB/Redis presence outside of dev, even though main also checks.
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	app.Use(middleware.Audit(d.Logger))
	if d.Cache != nil {
		app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}

	RegisterHealthRoutes(app, d)

	var userRepo user.Repository
	var statementRepo statement.Repository
	if d.DB != nil {
		userRepo = user.NewPostgresRepository(d.DB)
		statementRepo = statement.NewPostgresRepository(d.DB)
	} else {
		userRepo = user.NewMemoryRepository()
		statementRepo = statement.NewMemoryRepository()
	}

	tokens := auth.NewTokenManager(d.Cfg.JWTSecret, d.Cfg.TokenIssuer, d.Cfg.AccessTokenTTL)
	notifier := notification.NewLoggerNotifier(d.Logger)

	userSvc := user.NewService(userRepo)
	authSvc := auth.NewService(userRepo, tokens)
	statementSvc := statement.NewService(userRepo, statementRepo, notifier)

	userHandler := user.NewHandler(userSvc)
	authHandler := auth.NewHandler(authSvc)
	statementHandler := statement.NewHandler(statementSvc)

	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	// Public routes
	RegisterUserRoutes(api, userHandler)
	rateLimiter := middleware.LoginRateLimit(d.Cache, d.Cfg.LoginRatePerMin)
	RegisterSessionRoutes(api, authHandler, rateLimiter)

	// Protected routes
	protected := api.Group("", middleware.JWTAuth(tokens))
	protected.Get("/profile", userHandler.Profile)
	RegisterStatementRoutes(protected, statementHandler)

	return nil
}
