package handlers

import (
	"strings"

	"goodsmgmt/internal/domain"
	applog "goodsmgmt/internal/log"
	"goodsmgmt/internal/services"
	"goodsmgmt/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type CatalogHandler struct {
	Catalog *services.CatalogService
}

type addItemReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       uint64 `json:"price"`
	Stock       uint64 `json:"stock"`
}

// POST /api/v1/catalog — admin-only.
func (h *CatalogHandler) Add(c *fiber.Ctx) error {
	var req addItemReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "malformed body")
	}
	id, err := h.Catalog.AddItem(callerID(c), req.Name, req.Description, req.Price, req.Stock)
	if err != nil {
		return fail(c, "catalog.add.fail", err)
	}
	applog.Audit(c, "catalog.add", map[string]any{"item_id": id, "name": req.Name, "price": req.Price, "stock": req.Stock})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

type updateItemReq struct {
	Price       *uint64 `json:"price"`
	Stock       *uint64 `json:"stock"`
	Description *string `json:"description"`
}

// PATCH /api/v1/catalog/:id — admin-only; omitted fields unchanged.
func (h *CatalogHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ItemID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid item id")
	}
	var req updateItemReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "malformed body")
	}
	patch := services.ItemPatch{Price: req.Price, Stock: req.Stock, Description: req.Description}
	if err := h.Catalog.UpdateItem(callerID(c), id, patch); err != nil {
		return fail(c, "catalog.update.fail", err)
	}
	applog.Audit(c, "catalog.update", map[string]any{"item_id": id})
	return c.JSON(fiber.Map{"id": id})
}

// DELETE /api/v1/catalog/:id — admin-only soft delete.
func (h *CatalogHandler) Remove(c *fiber.Ctx) error {
	id, ok := validate.ItemID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid item id")
	}
	if err := h.Catalog.RemoveItem(callerID(c), id); err != nil {
		return fail(c, "catalog.remove.fail", err)
	}
	applog.Audit(c, "catalog.remove", map[string]any{"item_id": id})
	return c.JSON(fiber.Map{"id": id, "available": false})
}

// GET /api/v1/catalog/:id — public; resolves removed items too.
func (h *CatalogHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ItemID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid item id")
	}
	it, err := h.Catalog.GetItem(id)
	if err != nil {
		return fail(c, "catalog.get.fail", err)
	}
	return c.JSON(it)
}

// GET /api/v1/catalog — public; available items only, insertion order.
func (h *CatalogHandler) List(c *fiber.Ctx) error {
	q := ""
	if raw := strings.TrimSpace(c.Query("q")); raw != "" {
		var ok bool
		q, ok = validate.Q(raw)
		if !ok {
			applog.Security(c, "validation.fail", map[string]any{"field": "q", "value": raw})
			return badRequest(c, "enter a valid keyword (letters/numbers only)")
		}
		q = strings.ToLower(q)
	}
	page := validate.Page(c.Query("page"))
	size := validate.PageSize(c.Query("page_size"))

	items, err := h.Catalog.ListItems(q, page, size)
	if err != nil {
		return fail(c, "catalog.list.fail", err)
	}
	if items == nil {
		items = []domain.Item{}
	}
	return c.JSON(fiber.Map{"items": items, "count": len(items)})
}

// GET /api/v1/availability?itemId= — public, rate-limited at the router.
func (h *CatalogHandler) Availability(c *fiber.Ctx) error {
	id, ok := validate.ItemID(c.Query("itemId"))
	if !ok {
		return badRequest(c, "missing or invalid itemId")
	}
	avail, err := h.Catalog.Availability(id)
	if err != nil {
		return fail(c, "catalog.availability.fail", err)
	}
	return c.JSON(avail)
}
