package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/employee-service/internal/api/http/handlers"
	"github.com/spec-kit/employee-service/internal/auth"
	"github.com/spec-kit/employee-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Employees      *handlers.EmployeesHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")
	api.Post("/login", cfg.Auth.Login)

	// the auth chain is attached per route so it runs exactly once and
	// unmatched /api paths fall through to a 404
	authed := auth.RequireAuthenticated()
	superuser := auth.RequireRole(domain.RoleSuperUser)

	api.Get("/users/me", cfg.AuthMiddleware.Handle, authed, cfg.Auth.Me)
	api.Get("/users", cfg.AuthMiddleware.Handle, authed, superuser, cfg.Employees.List)
	api.Get("/users/:id", cfg.AuthMiddleware.Handle, authed, cfg.Employees.Get)
	api.Post("/password/change", cfg.AuthMiddleware.Handle, authed, cfg.Auth.ChangePassword)
	api.Post("/superuser/signup", cfg.AuthMiddleware.Handle, authed, superuser, cfg.Employees.Create)
}
