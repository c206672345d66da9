package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/EdersonPinheiro/desafio-flugo/internal/api/http/handlers"
	"github.com/EdersonPinheiro/desafio-flugo/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Collaborators  *handlers.CollaboratorsHandler
	Departments    *handlers.DepartmentsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Everything under /api requires an
// authenticated session.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)

	session := authGroup.Group("", cfg.AuthMiddleware.Handle)
	session.Post("/logout", cfg.Auth.Logout)
	session.Get("/me", cfg.Auth.Me)

	api := app.Group("/api", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())

	collaborators := api.Group("/collaborators")
	collaborators.Get("/", cfg.Collaborators.List)
	collaborators.Get("/stream", cfg.Collaborators.Stream)
	collaborators.Post("/", cfg.Collaborators.Create)
	collaborators.Post("/bulk-delete", cfg.Collaborators.BulkDelete)
	collaborators.Get("/:id", cfg.Collaborators.Get)
	collaborators.Put("/:id", cfg.Collaborators.Update)
	collaborators.Delete("/:id", cfg.Collaborators.Delete)

	departments := api.Group("/departments")
	departments.Get("/", cfg.Departments.List)
	departments.Get("/stream", cfg.Departments.Stream)
	departments.Post("/", cfg.Departments.Create)
	departments.Get("/:id", cfg.Departments.Get)
	departments.Put("/:id", cfg.Departments.Update)
	departments.Delete("/:id", cfg.Departments.Delete)
}
