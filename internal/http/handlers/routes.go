package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	applog "storefront/internal/log"
)

const LoginWindow = 10 * time.Minute

// Mount registers every route on app. Global middleware (request ids,
// access log, security headers, the global limiter) is the caller's concern.
func (d *Deps) Mount(app *fiber.App) {
	app.Use(AttachSession(d.Auth))
	session := RequireSession(d.Auth)

	api := app.Group("/api/v1")

	availLimiter := limiter.New(limiter.Config{
		Max:        15,
		Expiration: 30 * time.Second,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|avail"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.availability.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(apiError{Error: "rate_limited", Message: "rate limit exceeded, retry soon"})
		},
	})

	// Catalog
	api.Get("/products", d.ProductHandler.List)
	api.Get("/products/:id", d.ProductHandler.Detail)
	api.Get("/products/:id/availability", availLimiter, d.InventoryHandler.Check)
	api.Post("/products", session, d.ProductHandler.Create)
	api.Put("/products/:id", session, d.ProductHandler.Update)
	api.Delete("/products/:id", session, d.ProductHandler.Delete)
	api.Get("/categories", d.ProductHandler.Categories)

	// Cart
	api.Get("/cart", d.CartHandler.View)
	api.Post("/cart", d.CartHandler.Add)
	api.Put("/cart/:productId", d.CartHandler.Update)
	api.Delete("/cart/:productId", d.CartHandler.Remove)
	api.Delete("/cart", d.CartHandler.Clear)

	// Orders
	api.Post("/orders", d.OrderHandler.Checkout)
	api.Get("/orders", session, d.OrderHandler.List)
	api.Get("/orders/:id", d.OrderHandler.Get)
	api.Put("/orders/:id/status", session, d.OrderHandler.UpdateStatus)
	app.Get("/order/:id", d.OrderHandler.Receipt)

	// Auth (login throttled)
	loginMax := d.LoginMax
	if loginMax <= 0 {
		loginMax = 5
	}
	api.Post("/auth/register", d.AuthHandler.Register)
	api.Post("/auth/login", limiter.New(limiter.Config{
		Max:        loginMax,
		Expiration: LoginWindow,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(apiError{Error: "rate_limited", Message: "Too many attempts. Please try again later."})
		},
	}), d.AuthHandler.Login)
	api.Post("/auth/logout", d.AuthHandler.Logout)
	api.Get("/auth/session", d.AuthHandler.Session)

	// Admin
	admin := api.Group("/admin", session)
	admin.Get("/dashboard", d.AdminHandler.Dashboard)
	admin.Get("/analytics", d.AdminHandler.Report)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return fiber.ErrNotFound
	})
}
