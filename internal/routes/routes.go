package routes

import (
	"time"

	"github.com/cloudvault/backend/internal/handlers"
	"github.com/cloudvault/backend/internal/middleware"
	"github.com/cloudvault/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

func Setup(
	app *fiber.App,
	authService *services.AuthService,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	fileHandler *handlers.FileHandler,
	addressHandler *handlers.AddressHandler,
	statsHandler *handlers.StatsHandler,
	healthHandler *handlers.HealthHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Auth — public, with a stricter limit: 10 req/min per IP
	authLimiter := limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})
	api.Post("/register", authLimiter, authHandler.Register)
	api.Post("/login", authLimiter, authHandler.Login)

	// Everything registered below requires the opaque bearer token.
	api.Use(middleware.TokenProtected(authService))
	protected := api

	protected.Post("/logout", authHandler.Logout)

	protected.Get("/profile", userHandler.Profile)
	protected.Patch("/profile", userHandler.UpdateProfile)
	protected.Get("/users/me", userHandler.Profile)
	protected.Patch("/users/me", userHandler.UpdateProfile)
	protected.Put("/users/me", userHandler.UpdateProfile)

	protected.Get("/dashboard-stats", statsHandler.Dashboard)

	protected.Get("/files", fileHandler.List)
	protected.Post("/files", fileHandler.Upload)
	protected.Get("/files/:id", fileHandler.Get)
	protected.Delete("/files/:id", fileHandler.Delete)

	protected.Get("/addresses", addressHandler.List)
	protected.Post("/addresses", addressHandler.Create)
	protected.Get("/addresses/:id", addressHandler.Get)
	protected.Put("/addresses/:id", addressHandler.Update)
	protected.Patch("/addresses/:id", addressHandler.Update)
	protected.Delete("/addresses/:id", addressHandler.Delete)
}
