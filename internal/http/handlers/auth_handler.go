package handlers

import (
	"github.com/gofiber/fiber/v2"

	"storefront/internal/log"
	"storefront/internal/services"
	"storefront/internal/validate"
)

type AuthHandler struct {
	Auth *services.AuthService
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in services.AccountInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "body", "expected {name, email, password, studentId}")
	}
	var ok bool
	if in.Name, ok = validate.Name(in.Name); !ok {
		return badRequest(c, "name", "name must be at least 2 characters")
	}
	if in.Email, ok = validate.Email(in.Email); !ok {
		return badRequest(c, "email", "invalid email")
	}
	if !validate.Password(in.Password) {
		return badRequest(c, "password", "password must be at least 6 characters and contain a digit")
	}
	if in.StudentID, ok = validate.StudentID(in.StudentID); !ok {
		return badRequest(c, "studentId", "student id must be at least 5 letters or digits")
	}

	acct, err := h.Auth.Register(in)
	if err != nil {
		return fail(c, "auth.register.fail", err)
	}
	log.Audit(c, "auth.register", map[string]any{"email": acct.Email})
	return c.Status(fiber.StatusCreated).JSON(acct.Session(acct.CreatedAt))
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "body", "expected {email, password}")
	}
	email, ok := validate.Email(req.Email)
	if !ok {
		log.Security(c, "auth.login.fail", map[string]any{"email": req.Email, "reason": "bad_format"})
		return c.Status(fiber.StatusUnauthorized).JSON(apiError{Error: "unauthorized", Message: "Invalid email or password"})
	}

	sess, err := h.Auth.Authenticate(email, req.Password)
	if err != nil {
		status, _ := classify(err)
		if status != fiber.StatusUnauthorized {
			return fail(c, "auth.login.fail", err)
		}
		log.Security(c, "auth.login.fail", map[string]any{"email": email})
		return c.Status(fiber.StatusUnauthorized).JSON(apiError{Error: "unauthorized", Message: "Invalid email or password"})
	}
	c.Locals("session", sess)
	log.Audit(c, "auth.login.success", map[string]any{"email": email})
	return c.JSON(sess)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.Auth.Logout(); err != nil {
		return fail(c, "auth.logout.fail", err)
	}
	log.Audit(c, "auth.logout", nil)
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AuthHandler) Session(c *fiber.Ctx) error {
	sess, ok, err := h.Auth.CurrentSession()
	if err != nil {
		return fail(c, "auth.session.fail", err)
	}
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(apiError{Error: "unauthorized", Message: "not logged in"})
	}
	return c.JSON(sess)
}
