// Package middleware contains the HTTP middleware for the identity API.
package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/campusreport/identity-server/internal/logger"
	"github.com/campusreport/identity-server/internal/model"
)

// sessionLocalKey is where the validated session lives in the request
// locals for downstream handlers.
const sessionLocalKey = "session"

// SessionValidator checks a session token and returns its claims.
type SessionValidator interface {
	Validate(token string) (model.Session, error)
}

// Authenticate validates bearer tokens and stores the session in the
// request locals.
type Authenticate struct {
	sessions SessionValidator
	logger   *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(sessions SessionValidator, logger *logger.Logger) *Authenticate {
	return &Authenticate{sessions: sessions, logger: logger}
}

// Handle extracts the Authorization bearer token, validates it and passes
// the session to the next handler. Missing, malformed and expired tokens
// all stop the request with 401.
func (m *Authenticate) Handle(c fiber.Ctx) error {
	token := extractToken(c)
	if token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "missing authorization token",
		})
	}

	session, err := m.sessions.Validate(token)
	if err != nil {
		m.logger.Debug("Authenticate middleware: token rejected",
			"error", err.Error())
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	c.Locals(sessionLocalKey, session)

	return c.Next()
}

// SessionFromCtx returns the session stored by Handle.
func SessionFromCtx(c fiber.Ctx) (model.Session, bool) {
	session, ok := c.Locals(sessionLocalKey).(model.Session)
	return session, ok
}

// extractToken reads the bearer token from the Authorization header.
func extractToken(c fiber.Ctx) string {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}
