package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"aurelia/internal/domain"
	applog "aurelia/internal/log"
	"aurelia/internal/repos"
	"aurelia/internal/services"
	"aurelia/internal/validate"
)

type OrderHandler struct {
	Cart  *services.CartService
	Order *services.OrderService
	Repo  *repos.OrderRepo
	Auth  *services.AuthService
}

func (h *OrderHandler) Checkout(c *fiber.Ctx) error {
	cv, err := h.Cart.View(ensureSID(c))
	if err != nil {
		applog.Error(c, "checkout.load", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load your cart"})
	}
	return render(c, "checkout", fiber.Map{"Cart": cv})
}

func (h *OrderHandler) Place(c *fiber.Ctx) error {
	sid := ensureSID(c)

	name, ok := validate.Name(c.FormValue("name"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "name"})
		return c.Status(fiber.StatusBadRequest).SendString("name must be 1-40 characters")
	}
	email, ok := validate.Email(c.FormValue("email"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "email"})
		return c.Status(fiber.StatusBadRequest).SendString("invalid email")
	}
	address, ok := validate.Address(c.FormValue("address"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "address"})
		return c.Status(fiber.StatusBadRequest).SendString("invalid shipping address")
	}
	payment, ok := validate.Payment(c.FormValue("payment"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "payment"})
		return c.Status(fiber.StatusBadRequest).SendString("invalid payment method")
	}

	orderID, err := h.Order.Checkout(sid, services.Contact{Name: name, Email: email}, address, payment)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyCart) {
			applog.Security(c, "order.place.empty", map[string]any{"sid": sid})
			return c.Status(fiber.StatusBadRequest).SendString("Your cart is empty")
		}
		applog.Error(c, "order.place.fail", err, map[string]any{"sid": sid})
		return c.Status(fiber.StatusBadRequest).SendString("Could not place order. Please review your cart and try again.")
	}
	applog.Audit(c, "order.place", map[string]any{"order_id": orderID})

	// Show detailed confirmation page
	return c.Redirect("/order/" + orderID)
}

func (h *OrderHandler) View(c *fiber.Ctx) error {
	oid := c.Params("id")
	if oid == "" {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Order not found"})
	}

	o, items, err := h.Repo.Get(oid)
	if err != nil {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Order not found"})
	}

	// Ownership check: session owner or same user via sessions.user_id; admins allowed
	sid := c.Cookies("sid")
	var uID string
	var uRole string
	if h.Auth != nil && sid != "" {
		if u, err := h.Auth.CurrentUser(sid); err == nil && u != nil {
			uID = u.ID
			uRole = u.Role
		}
	}
	if !(sid != "" && sid == o.SessionID) && !(uID != "" && uID == o.UserID) {
		if uRole == "ADMIN" {
			return render(c, "order", fiber.Map{"Order": o, "Items": items})
		}
		applog.Security(c, "access.denied.order", map[string]any{"order_id": oid})
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Order not found"})
	}

	return render(c, "order", fiber.Map{"Order": o, "Items": items})
}

// History lists orders for the current logged-in user.
func (h *OrderHandler) History(c *fiber.Ctx) error {
	u, _ := c.Locals("user").(*domain.User)
	// If RequireUser is used, user is guaranteed; fallback to 404
	if u == nil {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Orders not available"})
	}
	orders, err := h.Repo.ListByUser(u.ID)
	if err != nil {
		applog.Error(c, "orders.history.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load orders"})
	}
	// Fallback: show session orders if none linked to user (e.g., pre-login)
	if len(orders) == 0 {
		if sid := c.Cookies("sid"); sid != "" {
			if sessOrders, err := h.Repo.ListBySession(sid); err == nil && len(sessOrders) > 0 {
				orders = sessOrders
			}
		}
	}
	return render(c, "order_history", fiber.Map{"Orders": orders})
}
