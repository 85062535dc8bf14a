package api

import "github.com/gofiber/fiber/v2"

func (h *Handler) ListStocks(c *fiber.Ctx) error {
	return ok(c, h.Dashboard.Stocks.Items())
}

func (h *Handler) AddStock(c *fiber.Ctx) error {
	added := h.Dashboard.AddStock(c.Params("symbol"))
	if added {
		c.Status(fiber.StatusCreated)
	}
	return ok(c, fiber.Map{"added": added, "items": h.Dashboard.Stocks.Items()})
}

func (h *Handler) RemoveStock(c *fiber.Ctx) error {
	removed := h.Dashboard.RemoveStock(c.Params("symbol"))
	return ok(c, fiber.Map{"removed": removed, "items": h.Dashboard.Stocks.Items()})
}

func (h *Handler) ListPairs(c *fiber.Ctx) error {
	return ok(c, h.Dashboard.Pairs.Items())
}

func (h *Handler) AddPair(c *fiber.Ctx) error {
	pair, err := pairParam(c)
	if err != nil {
		return fail(c, err)
	}
	added := h.Dashboard.AddPair(pair)
	if added {
		c.Status(fiber.StatusCreated)
	}
	return ok(c, fiber.Map{"added": added, "items": h.Dashboard.Pairs.Items()})
}

func (h *Handler) RemovePair(c *fiber.Ctx) error {
	pair, err := pairParam(c)
	if err != nil {
		return fail(c, err)
	}
	removed := h.Dashboard.RemovePair(pair)
	return ok(c, fiber.Map{"removed": removed, "items": h.Dashboard.Pairs.Items()})
}

func (h *Handler) GetSelection(c *fiber.Ctx) error {
	return ok(c, h.Dashboard.Selected())
}

// SelectStock makes symbol the detail selection. Unknown symbols answer 404 and set the error banner.
func (h *Handler) SelectStock(c *fiber.Ctx) error {
	q, err := h.Dashboard.SelectStock(c.UserContext(), c.Params("symbol"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, q)
}

func (h *Handler) SelectPair(c *fiber.Ctx) error {
	pair, err := pairParam(c)
	if err != nil {
		return fail(c, err)
	}
	q, err := h.Dashboard.SelectPair(c.UserContext(), pair)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, q)
}

func (h *Handler) ClearSelection(c *fiber.Ctx) error {
	h.Dashboard.ClearSelection()
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) GetError(c *fiber.Ctx) error {
	msg, set := h.Dashboard.Errors.Current()
	if !set {
		return ok(c, nil)
	}
	return ok(c, msg)
}

func (h *Handler) ClearError(c *fiber.Ctx) error {
	h.Dashboard.Errors.Clear()
	return c.SendStatus(fiber.StatusNoContent)
}
