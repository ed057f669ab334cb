package handlers

import (
	"github.com/gofiber/fiber/v2"

	"storefront/internal/domain"
	"storefront/internal/log"
	"storefront/internal/services"
	"storefront/internal/validate"
)

type ProductHandler struct {
	Catalog *services.CatalogService
}

// List serves GET /api/v1/products?category=&min=&max=&q=&stock=&page=&pageSize=
func (h *ProductHandler) List(c *fiber.Ctx) error {
	q, ok := validate.Q(c.Query("q"))
	if !ok {
		return badRequest(c, "q", "search may contain letters, digits, spaces, _ ' and -")
	}
	f := services.ProductFilter{
		Category: c.Query("category"),
		Search:   q,
		Stock:    domain.StockState(c.Query("stock")),
	}
	if d, ok, err := validate.Money(c.Query("min")); err != nil {
		return badRequest(c, "min", "min must be a non-negative amount")
	} else if ok {
		f.PriceMin = &d
	}
	if d, ok, err := validate.Money(c.Query("max")); err != nil {
		return badRequest(c, "max", "max must be a non-negative amount")
	} else if ok {
		f.PriceMax = &d
	}

	products, err := h.Catalog.List(f)
	if err != nil {
		return fail(c, "catalog.list.fail", err)
	}
	return c.JSON(services.Paginate(products, c.QueryInt("page", 1), c.QueryInt("pageSize", 0)))
}

func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "invalid product id")
	}
	p, err := h.Catalog.Get(id)
	if err != nil {
		return fail(c, "catalog.get.fail", err)
	}
	return c.JSON(p)
}

func (h *ProductHandler) Categories(c *fiber.Ctx) error {
	cats, err := h.Catalog.Categories()
	if err != nil {
		return fail(c, "catalog.categories.fail", err)
	}
	return c.JSON(cats)
}

func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in services.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "body", "expected a JSON product")
	}
	p, err := h.Catalog.Create(in)
	if err != nil {
		return fail(c, "catalog.create.fail", err)
	}
	log.Audit(c, "catalog.create", map[string]any{"product_id": p.ID})
	return c.Status(fiber.StatusCreated).JSON(p)
}

func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "invalid product id")
	}
	var in services.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "body", "expected a JSON product")
	}
	p, err := h.Catalog.Update(id, in)
	if err != nil {
		return fail(c, "catalog.update.fail", err)
	}
	log.Audit(c, "catalog.update", map[string]any{"product_id": p.ID})
	return c.JSON(p)
}

func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "invalid product id")
	}
	if err := h.Catalog.Delete(id); err != nil {
		return fail(c, "catalog.delete.fail", err)
	}
	log.Audit(c, "catalog.delete", map[string]any{"product_id": id})
	return c.SendStatus(fiber.StatusNoContent)
}
