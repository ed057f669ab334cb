package handlers

import (
	"github.com/gofiber/fiber/v2"

	"storefront/internal/services"
	"storefront/internal/validate"
)

type InventoryHandler struct {
	Inv *services.InventoryService
}

func (h *InventoryHandler) Check(c *fiber.Ctx) error {
	productID, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "missing productId")
	}
	avail, err := h.Inv.CheckAvailability(productID)
	if err != nil {
		return fail(c, "inventory.check.fail", err)
	}
	return c.JSON(avail)
}
