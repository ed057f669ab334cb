package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	applog "storefront/internal/log"
	"storefront/internal/services"
)

type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// classify maps a service error to an HTTP status and a stable error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound, "not_found"
	case errors.Is(err, services.ErrValidation):
		return fiber.StatusBadRequest, "validation"
	case errors.Is(err, services.ErrConflict):
		return fiber.StatusConflict, "conflict"
	case errors.Is(err, services.ErrInsufficientStock):
		return fiber.StatusConflict, "insufficient_stock"
	case errors.Is(err, services.ErrInvalidTransition):
		return fiber.StatusConflict, "invalid_transition"
	case errors.Is(err, services.ErrAuth):
		return fiber.StatusUnauthorized, "unauthorized"
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		if fe.Code >= fiber.StatusInternalServerError {
			return fe.Code, "internal"
		}
		return fe.Code, strings.ToLower(strings.ReplaceAll(utils.StatusMessage(fe.Code), " ", "_"))
	}
	return fiber.StatusInternalServerError, "internal"
}

// fail writes the JSON error body for err. Server faults are logged with
// their cause and answered with a generic message.
func fail(c *fiber.Ctx, action string, err error) error {
	status, code := classify(err)
	msg := err.Error()
	if status >= fiber.StatusInternalServerError {
		applog.Error(c, action, err, nil)
		msg = "Something went wrong. Please try again."
	} else {
		applog.Security(c, action, map[string]any{"code": code, "error": msg})
	}
	return c.Status(status).JSON(apiError{Error: code, Message: msg})
}

// badRequest rejects malformed input before it reaches a service.
func badRequest(c *fiber.Ctx, field, msg string) error {
	applog.Security(c, "validation.fail", map[string]any{"field": field})
	return c.Status(fiber.StatusBadRequest).JSON(apiError{Error: "validation", Message: msg})
}

// ErrorHandler is the application-wide fallback for errors returned by handlers
// and middleware. API routes get JSON, pages get the notfound template.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status, code := classify(err)
	if status >= fiber.StatusInternalServerError {
		applog.Error(c, "server.error", err, nil)
	}
	msg := "Something went wrong. Please try again."
	if status < fiber.StatusInternalServerError {
		msg = err.Error()
	}
	if strings.HasPrefix(c.Path(), "/api/") {
		return c.Status(status).JSON(apiError{Error: code, Message: msg})
	}
	if rerr := c.Status(status).Render("notfound", fiber.Map{"Message": msg}); rerr != nil {
		return c.Status(status).SendString(msg)
	}
	return nil
}
