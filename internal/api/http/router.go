package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/subscriber-service/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health  *handlers.HealthHandler
	Catalog *handlers.CatalogHandler
	Users   *handlers.UsersHandler
	M2M     *handlers.M2MHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Get("/stats", cfg.Catalog.Stats)
	app.Get("/vtubers", cfg.Catalog.Vtubers)

	app.Get("/users", cfg.Users.List)
	app.Post("/users", cfg.Users.Create)
	app.Get("/users/:user", cfg.Users.Get)
	app.Put("/users/:user", cfg.Users.Replace)
	app.Delete("/users/:user", cfg.Users.Delete)

	m2m := app.Group("/m2m")
	m2m.Get("/subs/:topic", cfg.M2M.Subscribers)
	m2m.Get("/get_token/:user", cfg.M2M.IssueToken)
}
