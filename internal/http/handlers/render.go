package handlers

import "github.com/gofiber/fiber/v2"

func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	// Inject the session if present
	if s := c.Locals("session"); s != nil {
		data["Session"] = s
	}
	return c.Render(tmpl, data)
}
