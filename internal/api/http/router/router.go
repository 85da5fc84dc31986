// Package router wires the HTTP endpoints to their handlers.
package router

import (
	"context"

	"github.com/gofiber/fiber/v3"

	"github.com/campusreport/identity-server/internal/api/http/handler"
	"github.com/campusreport/identity-server/internal/api/http/middleware"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// New builds the fiber application with all routes registered.
func New(
	authHandler *handler.Auth,
	authenticate *middleware.Authenticate,
	logging *middleware.Logging,
	db Pinger,
) *fiber.App {
	app := fiber.New()

	app.Use(logging.Handle)

	app.Get("/healthz", func(c fiber.Ctx) error {
		if err := db.Ping(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "unavailable",
			})
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "ok",
		})
	})

	api := app.Group("/api/auth")

	// Public routes
	api.Post("/register", authHandler.Register)
	api.Post("/verify-email", authHandler.VerifyEmail)
	api.Post("/login", authHandler.Login)
	api.Post("/anonymous-login", authHandler.AnonymousLogin)

	// Protected routes
	api.Get("/me", authHandler.Me, authenticate.Handle)

	return app
}
