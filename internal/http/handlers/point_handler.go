package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"thebaker/internal/domain"
	applog "thebaker/internal/log"
	"thebaker/internal/services"
	"thebaker/internal/validate"
)

type PointHandler struct {
	Orders *services.OrderService
}

type paymentRequest struct {
	Phone         string `json:"phone"`
	TotalAmount   string `json:"totalAmount"`
	PointsToUse   int    `json:"pointsToUse"`
	PaymentMethod string `json:"paymentMethod"`
}

// Pay is the counter quick-payment flow: no line items, points settled and
// earned in one step.
func (h *PointHandler) Pay(c *fiber.Ctx) error {
	var req paymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad request body"})
	}
	phone, ok := validate.Phone(req.Phone)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid phone number"})
	}
	amount, ok := validate.Money(req.TotalAmount)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid amount"})
	}
	total, err := decimal.NewFromString(amount)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid amount"})
	}

	method := domain.PaymentMethod(req.PaymentMethod)
	if method == "" {
		method = domain.PayCard
	}

	o, err := h.Orders.PayAndEarn(phone, total, req.PointsToUse, method)
	if err != nil {
		return fail(c, "points.pay", err)
	}
	applog.Audit(c, "points.pay", map[string]any{
		"order_id": o.ID,
		"used":     o.PointsUsed,
		"earned":   o.PointsEarned,
	})
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("used %dP, earned %dP", o.PointsUsed, o.PointsEarned),
		"order":   o,
	})
}

// MyPoints returns the balance and recent point movements for a phone.
func (h *PointHandler) MyPoints(c *fiber.Ctx) error {
	phone, ok := validate.Phone(c.Query("phone"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid phone number"})
	}
	sum, err := h.Orders.Summary(phone)
	if err != nil {
		return fail(c, "points.summary", err)
	}
	return c.JSON(sum)
}
