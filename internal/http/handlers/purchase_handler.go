package handlers

import (
	"strings"

	"goodsmgmt/internal/domain"
	applog "goodsmgmt/internal/log"
	"goodsmgmt/internal/services"
	"goodsmgmt/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type PurchaseHandler struct {
	Purchase *services.PurchaseService
	Ledger   *services.LedgerService
}

type purchaseReq struct {
	ItemID        uint64 `json:"item_id"`
	Quantity      uint64 `json:"quantity"`
	AmountOffered uint64 `json:"amount_offered"`
}

// POST /api/v1/purchases — the buyer is the logged-in caller.
func (h *PurchaseHandler) Place(c *fiber.Ctx) error {
	var req purchaseReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "malformed body")
	}
	buyer := callerID(c)

	rec, err := h.Purchase.Purchase(buyer, req.ItemID, req.Quantity, req.AmountOffered)
	if err != nil {
		applog.Security(c, "purchase.fail", map[string]any{
			"buyer": buyer, "item_id": req.ItemID, "quantity": req.Quantity, "error": err.Error(),
		})
		return fail(c, "purchase.fail", err)
	}
	applog.Audit(c, "purchase", map[string]any{
		"seq": rec.Seq, "buyer": rec.Buyer, "item_id": rec.ItemID,
		"quantity": rec.Quantity, "amount_paid": rec.AmountPaid,
	})
	return c.Status(fiber.StatusCreated).JSON(rec)
}

// GET /api/v1/purchases — public history, append order, optional filters.
func (h *PurchaseHandler) History(c *fiber.Ctx) error {
	buyer := strings.TrimSpace(c.Query("buyer"))
	if buyer != "" {
		var ok bool
		buyer, ok = validate.Identity(buyer)
		if !ok {
			return badRequest(c, "invalid buyer filter")
		}
	}
	var itemID uint64
	if raw := strings.TrimSpace(c.Query("itemId")); raw != "" {
		var ok bool
		itemID, ok = validate.ItemID(raw)
		if !ok {
			return badRequest(c, "invalid itemId filter")
		}
	}
	page := validate.Page(c.Query("page"))
	size := validate.PageSize(c.Query("page_size"))

	recs, err := h.Ledger.History(buyer, itemID, page, size)
	if err != nil {
		return fail(c, "purchase.history.fail", err)
	}
	if recs == nil {
		recs = []domain.PurchaseRecord{}
	}
	return c.JSON(fiber.Map{"purchases": recs, "count": len(recs)})
}
