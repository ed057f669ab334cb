package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"storefront/internal/domain"
	applog "storefront/internal/log"
	"storefront/internal/services"
	"storefront/internal/validate"
)

type OrderHandler struct {
	Order *services.OrderService
}

type checkoutRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Address    string `json:"address"`
	City       string `json:"city"`
	Zip        string `json:"zip"`
	Country    string `json:"country"`
	PaymentRef string `json:"paymentRef"`
}

// Checkout places an order for the whole cart and empties it.
func (h *OrderHandler) Checkout(c *fiber.Ctx) error {
	var req checkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "body", "expected customer details")
	}
	email, ok := validate.Email(req.Email)
	if !ok {
		return badRequest(c, "email", "invalid email")
	}
	name, ok := validate.Name(req.Name)
	if !ok {
		return badRequest(c, "name", "name must be 2-60 characters")
	}
	cust := domain.Customer{
		Name: name, Email: email, Address: req.Address, City: req.City,
		Zip: req.Zip, Country: req.Country, PaymentRef: req.PaymentRef,
	}

	o, err := h.Order.Checkout(cust)
	if err != nil {
		return fail(c, "order.place.fail", err)
	}
	applog.Audit(c, "order.place", map[string]any{
		"order_id": o.ID,
		"total":    o.Total.StringFixed(2),
		"items":    o.ItemCount(),
	})
	return c.Status(fiber.StatusCreated).JSON(o)
}

// List serves GET /api/v1/orders?from=&to=&status=&q=&page=&pageSize=
func (h *OrderHandler) List(c *fiber.Ctx) error {
	q, ok := validate.Q(c.Query("q"))
	if !ok {
		return badRequest(c, "q", "search may contain letters, digits, spaces, _ ' and -")
	}
	from, err := parseDay(c.Query("from"), false)
	if err != nil {
		return badRequest(c, "from", "from must be YYYY-MM-DD or RFC 3339")
	}
	to, err := parseDay(c.Query("to"), true)
	if err != nil {
		return badRequest(c, "to", "to must be YYYY-MM-DD or RFC 3339")
	}
	orders, err := h.Order.List(services.OrderFilter{
		From: from, To: to, Status: domain.OrderStatus(c.Query("status")), Search: q,
	})
	if err != nil {
		return fail(c, "order.list.fail", err)
	}
	return c.JSON(services.Paginate(orders, c.QueryInt("page", 1), c.QueryInt("pageSize", 0)))
}

func (h *OrderHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "invalid order id")
	}
	o, err := h.Order.Get(id)
	if err != nil {
		return fail(c, "order.get.fail", err)
	}
	return c.JSON(o)
}

func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "invalid order id")
	}
	var req struct {
		Status domain.OrderStatus `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "body", "expected {status}")
	}
	o, err := h.Order.UpdateStatus(id, req.Status)
	if err != nil {
		return fail(c, "order.status.fail", err)
	}
	applog.Audit(c, "order.status", map[string]any{"order_id": o.ID, "status": string(o.Status)})
	return c.JSON(o)
}

// Receipt renders the order confirmation page.
func (h *OrderHandler) Receipt(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Order not found"})
	}
	o, err := h.Order.Get(id)
	if err != nil {
		if status, _ := classify(err); status != fiber.StatusNotFound {
			applog.Error(c, "order.receipt.fail", err, nil)
		}
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Order not found"})
	}
	return render(c, "order", fiber.Map{"Order": o, "Subtotal": o.Subtotal()})
}

// parseDay accepts a calendar day or an RFC 3339 instant. A bare day used as
// an upper bound covers the whole day.
func parseDay(s string, end bool) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, err
	}
	if end {
		t = t.Add(24*time.Hour - time.Millisecond)
	}
	return t, nil
}
