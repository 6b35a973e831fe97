package handlers

import (
	"errors"

	"aurelia/internal/domain"
	applog "aurelia/internal/log"
	"aurelia/internal/services"
	"aurelia/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type CartHandler struct {
	Cart     *services.CartService
	Shipping domain.ShippingPolicy
}

func (h *CartHandler) Add(c *fiber.Ctx) error {
	sid := ensureSID(c)
	productID, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		return c.Status(400).SendString("missing productId")
	}
	qty, ok := validate.Qty(c.FormValue("qty"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "qty"})
		return c.Status(400).SendString("quantity must be a positive number")
	}
	if err := h.Cart.Add(sid, productID, qty); err != nil {
		if errors.Is(err, domain.ErrInvalidQuantity) {
			applog.Security(c, "cart.add.reject", map[string]any{"product": productID, "error": err.Error()})
			return c.Status(400).SendString("This item cannot be added to the cart")
		}
		applog.Error(c, "cart.add.fail", err, map[string]any{"product": productID})
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not update your cart"})
	}
	return c.Redirect("/cart")
}

func (h *CartHandler) Update(c *fiber.Ctx) error {
	sid := ensureSID(c)
	lineID, ok := validate.ID(c.FormValue("lineId"))
	if !ok {
		return c.Status(400).SendString("missing lineId")
	}
	// qty <= 0 removes the line, so parse leniently here and let the
	// ledger apply the remove-on-zero rule.
	qty, ok := validate.Qty(c.FormValue("qty"))
	if !ok {
		qty = 0
	}
	if err := h.Cart.SetQuantity(sid, lineID, qty); err != nil {
		applog.Error(c, "cart.update.fail", err, map[string]any{"line": lineID})
		return c.Status(400).SendString("Could not update quantity")
	}
	return c.Redirect("/cart")
}

func (h *CartHandler) Remove(c *fiber.Ctx) error {
	sid := ensureSID(c)
	lineID, ok := validate.ID(c.FormValue("lineId"))
	if !ok {
		return c.Status(400).SendString("missing lineId")
	}
	if err := h.Cart.RemoveLine(sid, lineID); err != nil {
		applog.Error(c, "cart.remove.fail", err, map[string]any{"line": lineID})
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not update your cart"})
	}
	return c.Redirect("/cart")
}

func (h *CartHandler) View(c *fiber.Ctx) error {
	sid := ensureSID(c)
	cv, err := h.Cart.View(sid)
	if err != nil {
		applog.Error(c, "cart.view.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load your cart"})
	}
	return render(c, "cart", fiber.Map{
		"Cart":      cv,
		"Remaining": cv.Remaining(h.Shipping),
	})
}
