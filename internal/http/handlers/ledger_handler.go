package handlers

import (
	applog "goodsmgmt/internal/log"
	"goodsmgmt/internal/services"

	"github.com/gofiber/fiber/v2"
)

type LedgerHandler struct {
	Ledger *services.LedgerService
}

// GET /api/v1/ledger/balance — admin-only.
func (h *LedgerHandler) Balance(c *fiber.Ctx) error {
	b, err := h.Ledger.Balance(callerID(c))
	if err != nil {
		return fail(c, "ledger.balance.fail", err)
	}
	return c.JSON(fiber.Map{"balance_owed": b})
}

type withdrawReq struct {
	Amount uint64 `json:"amount"`
}

// POST /api/v1/ledger/withdraw — admin-only.
func (h *LedgerHandler) Withdraw(c *fiber.Ctx) error {
	var req withdrawReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "malformed body")
	}
	if err := h.Ledger.Withdraw(callerID(c), req.Amount); err != nil {
		return fail(c, "ledger.withdraw.fail", err)
	}
	applog.Audit(c, "ledger.withdraw", map[string]any{"amount": req.Amount})
	return c.JSON(fiber.Map{"withdrawn": req.Amount})
}
