package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/agencydesk/agency-tickets/internal/api/http/handlers"
	"github.com/agencydesk/agency-tickets/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health     *handlers.HealthHandler
	Agents     *handlers.AgentsHandler
	Tickets    *handlers.TicketsHandler
	Statistics *handlers.StatisticsHandler
	// AuthMiddleware is nil when authentication is disabled.
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/", cfg.Health.Root)
	app.Get("/health", cfg.Health.Ready)
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Health.Metrics)

	var guards []fiber.Handler
	if cfg.AuthMiddleware != nil {
		guards = append(guards, cfg.AuthMiddleware.Handle, auth.RequireWriteAccess())
	}

	agents := app.Group("/agents", guards...)
	agents.Post("/", cfg.Agents.Create)
	agents.Get("/", cfg.Agents.List)
	agents.Get("/:id", cfg.Agents.Get)
	agents.Put("/:id", cfg.Agents.Update)
	agents.Patch("/:id", cfg.Agents.Update)
	agents.Delete("/:id", cfg.Agents.Delete)
	agents.Get("/:id/tickets", cfg.Agents.Tickets)
	agents.Get("/:id/statistics", cfg.Agents.Statistics)

	tickets := app.Group("/tickets", guards...)
	tickets.Post("/", cfg.Tickets.Create)
	tickets.Get("/", cfg.Tickets.List)
	tickets.Get("/:id", cfg.Tickets.Get)
	tickets.Put("/:id", cfg.Tickets.Update)
	tickets.Patch("/:id", cfg.Tickets.Update)
	tickets.Delete("/:id", cfg.Tickets.Delete)
	tickets.Get("/:id/status", cfg.Tickets.Status)
	tickets.Post("/:id/status", cfg.Tickets.UpdateStatus)
	tickets.Get("/:id/events", cfg.Tickets.Events)

	app.Group("/statistics", guards...).Get("/global", cfg.Statistics.Global)
}
