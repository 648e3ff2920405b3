package handlers

import (
	applog "goodsmgmt/internal/log"
	"goodsmgmt/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AttachIdentity resolves the session cookie to a caller identity and stores
// it in Locals for handlers and the logger. Anonymous requests pass through.
func AttachIdentity(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if sid := c.Cookies("sid"); sid != "" {
			if u, err := auth.CurrentUser(sid); err == nil && u != nil {
				c.Locals("user", u)
				c.Locals("identity", u.ID)
			}
		}
		return c.Next()
	}
}

func callerID(c *fiber.Ctx) string {
	id, _ := c.Locals("identity").(string)
	return id
}

// RequireIdentity rejects anonymous callers.
func RequireIdentity() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if callerID(c) == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "login required"})
		}
		return c.Next()
	}
}

// RequireAdmin enforces the admin gate on catalog/ledger mutation routes.
// The check goes through AccessControl, not a role column.
func RequireAdmin(access *services.AccessService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := callerID(c)
		if id == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "login required"})
		}
		if !access.IsAdmin(id) {
			applog.Security(c, "access.denied.admin", map[string]any{"identity": id})
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "admin privilege required"})
		}
		return c.Next()
	}
}
