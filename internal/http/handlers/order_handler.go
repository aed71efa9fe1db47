package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "thebaker/internal/log"
	"thebaker/internal/services"
	"thebaker/internal/validate"
)

type OrderHandler struct {
	Orders *services.OrderService
}

func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var req services.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad request body"})
	}
	phone, ok := validate.Phone(req.Phone)
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "phone"})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid phone number"})
	}
	req.Phone = phone
	if name, ok := validate.Name(req.CustomerName); ok {
		req.CustomerName = name
	} else {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name too long"})
	}

	o, err := h.Orders.Create(req)
	if err != nil {
		return fail(c, "orders.create", err)
	}
	applog.Audit(c, "orders.create", map[string]any{
		"order_id": o.ID,
		"total":    o.Total.String(),
		"items":    len(o.Items),
		"points":   o.PointsUsed,
	})
	return c.JSON(o)
}

func (h *OrderHandler) List(c *fiber.Ctx) error {
	orders, err := h.Orders.ListAll()
	if err != nil {
		return fail(c, "orders.list", err)
	}
	return c.JSON(orders)
}

func (h *OrderHandler) Get(c *fiber.Ctx) error {
	o, err := h.Orders.Get(c.Params("id"))
	if err != nil {
		return fail(c, "orders.get", err)
	}
	return c.JSON(o)
}

// Search returns a customer's order history by ?phone=.
func (h *OrderHandler) Search(c *fiber.Ctx) error {
	phone, ok := validate.Phone(c.Query("phone"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid phone number"})
	}
	orders, err := h.Orders.FindByPhone(phone)
	if err != nil {
		return fail(c, "orders.search", err)
	}
	return c.JSON(orders)
}

func (h *OrderHandler) Status(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": h.Orders.Status(c.Params("id"))})
}

func (h *OrderHandler) PendingCount(c *fiber.Ctx) error {
	n, err := h.Orders.CountPending()
	if err != nil {
		return fail(c, "orders.pending", err)
	}
	return c.JSON(fiber.Map{"count": n})
}

func (h *OrderHandler) Confirm(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.Orders.Confirm(id); err != nil {
		return fail(c, "orders.confirm", err)
	}
	applog.Audit(c, "orders.confirm", map[string]any{"order_id": id})
	return c.JSON(fiber.Map{"message": "Order confirmed"})
}

func (h *OrderHandler) Complete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.Orders.Complete(id); err != nil {
		return fail(c, "orders.complete", err)
	}
	applog.Audit(c, "orders.complete", map[string]any{"order_id": id})
	return c.JSON(fiber.Map{"message": "Order completed"})
}

func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.Orders.Cancel(id); err != nil {
		return fail(c, "orders.cancel", err)
	}
	applog.Audit(c, "orders.cancel", map[string]any{"order_id": id})
	return c.JSON(fiber.Map{"message": "Order cancelled and stock restored"})
}

func (h *OrderHandler) Archive(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.Orders.Archive(id); err != nil {
		return fail(c, "orders.archive", err)
	}
	applog.Audit(c, "orders.archive", map[string]any{"order_id": id})
	return c.JSON(fiber.Map{"message": "Order archived"})
}
