package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/user-service/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Users     *handlers.UsersHandler
	RateLimit fiber.Handler
}

// RegisterRoutes wires HTTP routes. RateLimit, when set, guards the user routes only.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/", cfg.Health.Greet)
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Health.Metrics)

	limit := cfg.RateLimit
	if limit == nil {
		limit = func(c *fiber.Ctx) error { return c.Next() }
	}

	app.Get("/users", limit, cfg.Users.List)
	app.Get("/user/:email", limit, cfg.Users.Get)
	app.Post("/user", limit, cfg.Users.Create)
	app.Delete("/user/:email", limit, cfg.Users.Delete)
	app.Patch("/user/:email", limit, cfg.Users.Update)
}
