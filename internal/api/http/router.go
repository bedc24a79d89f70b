package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-request/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-request/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health            *handlers.HealthHandler
	Sessions          *handlers.SessionHandler
	SessionMiddleware *auth.SessionMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Health.Metrics)

	app.Post("/sessions", cfg.Sessions.Open)

	// Guard each route rather than the group: group middleware is prefix
	// matched and would also run for /sessions.
	guard := cfg.SessionMiddleware.Handle
	protected := app.Group("/session")
	protected.Get("", guard, cfg.Sessions.Get)
	protected.Delete("", guard, cfg.Sessions.Close)
	protected.Put("/description", guard, cfg.Sessions.UpdateDescription)
	protected.Post("/user-info/load", guard, cfg.Sessions.LoadUserInfo)
	protected.Post("/attachments", guard, cfg.Sessions.OfferAttachments)
	protected.Delete("/attachments/:index", guard, cfg.Sessions.RemoveAttachment)
	protected.Post("/submit", guard, cfg.Sessions.Submit)
}
