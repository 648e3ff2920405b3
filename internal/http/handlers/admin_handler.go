package handlers

import (
	applog "goodsmgmt/internal/log"
	"goodsmgmt/internal/repos"
	"goodsmgmt/internal/services"
	"goodsmgmt/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	Access *services.AccessService
	Users  *repos.UserRepo
}

type setAdminReq struct {
	Identity string `json:"identity"`
	IsAdmin  *bool  `json:"is_admin"`
}

// POST /api/v1/admins — grant or revoke admin privilege.
func (h *AdminHandler) SetAdmin(c *fiber.Ctx) error {
	var req setAdminReq
	if err := c.BodyParser(&req); err != nil || req.IsAdmin == nil {
		return badRequest(c, "expected identity and is_admin")
	}
	target, ok := validate.Identity(req.Identity)
	if !ok {
		return badRequest(c, "invalid identity")
	}
	// The admin set references accounts; an unknown identity is a 404, not
	// a foreign-key failure.
	if _, err := h.Users.ByID(target); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "unknown identity"})
	}

	caller := callerID(c)
	if err := h.Access.SetAdmin(caller, target, *req.IsAdmin); err != nil {
		return fail(c, "admin.set.fail", err)
	}
	applog.Audit(c, "admin.set", map[string]any{"target": target, "is_admin": *req.IsAdmin})
	return c.JSON(fiber.Map{"identity": target, "is_admin": *req.IsAdmin})
}

// GET /api/v1/admins
func (h *AdminHandler) List(c *fiber.Ctx) error {
	rows, err := h.Access.List(callerID(c))
	if err != nil {
		return fail(c, "admin.list.fail", err)
	}
	return c.JSON(fiber.Map{"admins": rows})
}
