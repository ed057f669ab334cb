package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"storefront/internal/services"
)

type AdminHandler struct {
	Analytics *services.AnalyticsService
	Now       func() time.Time
}

func (h *AdminHandler) now() time.Time {
	if h.Now == nil {
		return time.Now().UTC()
	}
	return h.Now()
}

func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	d, err := h.Analytics.Dashboard()
	if err != nil {
		return fail(c, "admin.dashboard.fail", err)
	}
	return c.JSON(d)
}

// Report serves GET /api/v1/admin/analytics?range=&from=&to=
func (h *AdminHandler) Report(c *fiber.Ctx) error {
	from, err := parseDay(c.Query("from"), false)
	if err != nil {
		return badRequest(c, "from", "from must be YYYY-MM-DD or RFC 3339")
	}
	to, err := parseDay(c.Query("to"), false)
	if err != nil {
		return badRequest(c, "to", "to must be YYYY-MM-DD or RFC 3339")
	}
	r, err := services.RangeFor(c.Query("range"), h.now(), from, to)
	if err != nil {
		return fail(c, "admin.analytics.fail", err)
	}
	rep, err := h.Analytics.SalesReport(r)
	if err != nil {
		return fail(c, "admin.analytics.fail", err)
	}
	return c.JSON(rep)
}
