package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	applog "thebaker/internal/log"
	"thebaker/internal/services"
	"thebaker/internal/validate"
)

type StaffHandler struct {
	Orders *services.OrderService
	Shop   *services.ShopService
}

func (h *StaffHandler) ShopStatus(c *fiber.Ctx) error {
	return c.JSON(h.Shop.Status())
}

type shopStatusRequest struct {
	Open bool `json:"open"`
}

func (h *StaffHandler) ToggleShop(c *fiber.Ctx) error {
	var req shopStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad request body"})
	}
	h.Shop.SetOpen(req.Open)
	applog.Audit(c, "shop.status", map[string]any{"open": req.Open})
	return c.JSON(fiber.Map{"message": "Status updated", "open": req.Open})
}

func (h *StaffHandler) ToggleReservation(c *fiber.Ctx) error {
	var req shopStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad request body"})
	}
	h.Shop.SetReservation(req.Open)
	applog.Audit(c, "shop.reservation", map[string]any{"open": req.Open})
	return c.JSON(fiber.Map{"message": "Reservation updated", "reservationOpen": req.Open})
}

// Search lists all orders, or one customer's when ?phone= is given.
func (h *StaffHandler) Search(c *fiber.Ctx) error {
	if raw := c.Query("phone"); raw != "" {
		phone, ok := validate.Phone(raw)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid phone number"})
		}
		orders, err := h.Orders.FindByPhone(phone)
		if err != nil {
			return fail(c, "staff.search", err)
		}
		return c.JSON(orders)
	}
	orders, err := h.Orders.ListAll()
	if err != nil {
		return fail(c, "staff.search", err)
	}
	return c.JSON(orders)
}

type addPointsRequest struct {
	Phone  string `json:"phone"`
	Amount string `json:"amount"`
}

// AddPoints credits a walk-in purchase rung up outside the order flow.
func (h *StaffHandler) AddPoints(c *fiber.Ctx) error {
	var req addPointsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad request body"})
	}
	phone, ok := validate.Phone(req.Phone)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid phone number"})
	}
	raw, ok := validate.Money(req.Amount)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid amount"})
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid amount"})
	}

	balance, err := h.Orders.AddPointsManually(phone, amount)
	if err != nil {
		return fail(c, "staff.points", err)
	}
	applog.Audit(c, "staff.points", map[string]any{"phone": phone, "amount": amount.String()})
	return c.JSON(fiber.Map{"message": "Points Added", "currentPoints": balance})
}

// Revert undoes an erroneous credit: claws back earned points and cancels
// the order without touching stock.
func (h *StaffHandler) Revert(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.Orders.Revert(id); err != nil {
		return fail(c, "staff.revert", err)
	}
	applog.Audit(c, "staff.revert", map[string]any{"order_id": id})
	return c.JSON(fiber.Map{"message": "Reverted"})
}
