package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "thebaker/internal/log"
	"thebaker/internal/services"
)

// RequireStaff gates the counter/back-office routes; both STAFF and ADMIN
// qualify.
func RequireStaff(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := c.Cookies("sid")
		if sid == "" {
			return c.Redirect("/login")
		}
		u, err := auth.CurrentUser(sid)
		if err != nil || u == nil {
			applog.Security(c, "access.denied.staff", map[string]any{"sid": sid})
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "staff only"})
		}
		c.Locals("user", u)
		return c.Next()
	}
}

// RequireAdmin gates destructive catalog operations.
func RequireAdmin(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := c.Cookies("sid")
		if sid == "" {
			return c.Redirect("/login")
		}
		u, err := auth.CurrentUser(sid)
		if err != nil || u == nil || u.Role != "ADMIN" {
			applog.Security(c, "access.denied.admin", map[string]any{"sid": sid})
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "admin only"})
		}
		c.Locals("user", u)
		return c.Next()
	}
}
