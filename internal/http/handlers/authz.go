package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "storefront/internal/log"
	"storefront/internal/services"
)

// AttachSession puts the current session, if any, into Locals("session") for
// logging and templates. It never rejects a request.
func AttachSession(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if s, ok, err := auth.CurrentSession(); err == nil && ok {
			c.Locals("session", s)
		}
		return c.Next()
	}
}

// RequireSession enforces that someone is logged in.
func RequireSession(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, ok, err := auth.CurrentSession()
		if err != nil {
			return fail(c, "auth.session.fail", err)
		}
		if !ok {
			applog.Security(c, "access.denied", nil)
			return c.Status(fiber.StatusUnauthorized).JSON(apiError{Error: "unauthorized", Message: "login required"})
		}
		c.Locals("session", s)
		return c.Next()
	}
}
