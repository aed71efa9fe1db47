package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "thebaker/internal/log"
	"thebaker/internal/services"
	"thebaker/internal/validate"
)

type ProductHandler struct {
	Catalog *services.CatalogService
}

// Menu lists the products available on ?date= (default today). This is the
// storefront view; ordering is not re-checked against it.
func (h *ProductHandler) Menu(c *fiber.Ctx) error {
	products, err := h.Catalog.ListAvailable(c.Query("date"))
	if err != nil {
		return fail(c, "products.menu", err)
	}
	return c.JSON(products)
}

func (h *ProductHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid product id"})
	}
	p, err := h.Catalog.Get(id)
	if err != nil {
		return fail(c, "products.get", err)
	}
	return c.JSON(p)
}

func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in services.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad request body"})
	}
	p, err := h.Catalog.Create(in)
	if err != nil {
		return fail(c, "products.create", err)
	}
	applog.Audit(c, "products.create", map[string]any{"product_id": p.ID, "name": p.Name})
	return c.JSON(p)
}

func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid product id"})
	}
	var in services.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad request body"})
	}
	p, err := h.Catalog.Update(id, in)
	if err != nil {
		return fail(c, "products.update", err)
	}
	applog.Audit(c, "products.update", map[string]any{"product_id": id})
	return c.JSON(p)
}

func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid product id"})
	}
	if err := h.Catalog.Delete(id); err != nil {
		return fail(c, "products.delete", err)
	}
	applog.Audit(c, "products.delete", map[string]any{"product_id": id})
	return c.JSON(fiber.Map{"message": "deleted"})
}

type stockUpdateRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// UpdateStock is the staff stocktake endpoint: it sets the count outright.
func (h *ProductHandler) UpdateStock(c *fiber.Ctx) error {
	var req stockUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad request body"})
	}
	if _, ok := validate.ID(req.ProductID); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid product id"})
	}
	if err := h.Catalog.SetStock(req.ProductID, req.Quantity); err != nil {
		return fail(c, "products.stock", err)
	}
	applog.Audit(c, "products.stock", map[string]any{"product_id": req.ProductID, "qty": req.Quantity})
	return c.JSON(fiber.Map{"message": "Stock updated"})
}
