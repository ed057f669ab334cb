package handlers

import (
	"github.com/gofiber/fiber/v2"

	"storefront/internal/services"
	"storefront/internal/validate"
)

type CartHandler struct {
	Cart *services.CartService
}

type cartLineRequest struct {
	ProductID string `json:"productId"`
	Quantity  *int   `json:"quantity"`
}

func (h *CartHandler) View(c *fiber.Ctx) error {
	cv, err := h.Cart.View()
	if err != nil {
		return fail(c, "cart.view.fail", err)
	}
	return c.JSON(cv)
}

// Add merges into an existing line. A missing quantity means one.
func (h *CartHandler) Add(c *fiber.Ctx) error {
	var req cartLineRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "body", "expected {productId, quantity}")
	}
	productID, ok := validate.ID(req.ProductID)
	if !ok {
		return badRequest(c, "productId", "missing productId")
	}
	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}
	if _, err := h.Cart.Add(productID, qty); err != nil {
		return fail(c, "cart.add.fail", err)
	}
	return h.View(c)
}

// Update sets the quantity; zero or less removes the line.
func (h *CartHandler) Update(c *fiber.Ctx) error {
	productID, ok := validate.ID(c.Params("productId"))
	if !ok {
		return badRequest(c, "productId", "invalid productId")
	}
	var req cartLineRequest
	if err := c.BodyParser(&req); err != nil || req.Quantity == nil {
		return badRequest(c, "quantity", "expected {quantity}")
	}
	if _, err := h.Cart.UpdateQuantity(productID, *req.Quantity); err != nil {
		return fail(c, "cart.update.fail", err)
	}
	return h.View(c)
}

func (h *CartHandler) Remove(c *fiber.Ctx) error {
	productID, ok := validate.ID(c.Params("productId"))
	if !ok {
		return badRequest(c, "productId", "invalid productId")
	}
	if _, err := h.Cart.Remove(productID); err != nil {
		return fail(c, "cart.remove.fail", err)
	}
	return h.View(c)
}

func (h *CartHandler) Clear(c *fiber.Ctx) error {
	if err := h.Cart.Clear(); err != nil {
		return fail(c, "cart.clear.fail", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
