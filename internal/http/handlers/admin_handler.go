package handlers

import (
	"encoding/json"
	"errors"
	"strings"

	"aurelia/internal/domain"
	applog "aurelia/internal/log"
	"aurelia/internal/repos"
	"aurelia/internal/services"
	"aurelia/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	Order   *services.OrderService
	Reports *services.ReportService
	Prods   *repos.ProductRepo
	Cats    *repos.CategoryRepo
	Users   *repos.UserRepo
}

// GET /admin
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	stats, err := h.Reports.Dashboard()
	if err != nil {
		applog.Error(c, "admin.dashboard.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load dashboard"})
	}
	return render(c, "admin_dashboard", fiber.Map{"Stats": stats})
}

// GET /admin/orders
func (h *AdminHandler) OrdersPage(c *fiber.Ctx) error {
	all, err := h.Reports.Orders.ListAll()
	if err != nil {
		applog.Error(c, "admin.orders.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load orders"})
	}
	statusFilter := strings.TrimSpace(c.Query("status"))
	filtered := services.FilterByStatus(statusFilter, all)
	return render(c, "admin_orders", fiber.Map{
		"Orders":   filtered,
		"Stats":    services.CountByStatus(all),
		"Statuses": domain.AllStatuses,
		"Filter":   statusFilter,
	})
}

// POST /admin/orders/:id/status
func (h *AdminHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	id := c.Params("id")
	status, ok := validate.Status(c.FormValue("status"))
	if id == "" || !ok {
		return c.Status(400).SendString("missing id or status")
	}
	if _, err := h.Order.Transition(id, status); err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) {
			applog.Security(c, "admin.orders.transition.reject", map[string]any{"order_id": id, "status": status})
			return c.Status(400).SendString("status change not allowed from the order's current state")
		}
		applog.Error(c, "admin.orders.update.fail", err, map[string]any{"order_id": id})
		return c.Status(400).SendString("could not update status")
	}
	applog.Audit(c, "admin.orders.update", map[string]any{"order_id": id, "status": status})
	return c.Redirect("/admin/orders")
}

// GET /admin/products
func (h *AdminHandler) ProductsPage(c *fiber.Ctx) error {
	prods, err := h.Prods.ListAll()
	if err != nil {
		applog.Error(c, "admin.products.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load products"})
	}
	cats, _ := h.Cats.List()
	return render(c, "admin_products", fiber.Map{"Products": prods, "Categories": cats})
}

// POST /admin/products — create or update depending on whether the id exists.
func (h *AdminHandler) SaveProduct(c *fiber.Ctx) error {
	id, okID := validate.ID(c.FormValue("id"))
	catID, okCat := validate.ID(c.FormValue("category"))
	name := strings.TrimSpace(c.FormValue("name"))
	price, okPrice := validate.PriceBound(c.FormValue("price"))
	if !okID || !okCat || name == "" || len(name) > 80 || !okPrice || price == nil {
		return c.Status(400).SendString("invalid input")
	}

	materials := strings.TrimSpace(c.FormValue("materials")) // comma separated
	var labels []string
	for _, m := range strings.Split(materials, ",") {
		if m = strings.TrimSpace(m); m != "" {
			labels = append(labels, m)
		}
	}
	materialsJSON, _ := json.Marshal(labels)

	p := domain.Product{
		ID:            id,
		CategoryID:    catID,
		Name:          name,
		Description:   strings.TrimSpace(c.FormValue("description")),
		Price:         *price,
		MaterialsJSON: string(materialsJSON),
		Dimensions:    strings.TrimSpace(c.FormValue("dimensions")),
		InStock:       c.FormValue("in_stock") == "on",
		Featured:      c.FormValue("featured") == "on",
	}

	existing, err := h.Prods.Get(id)
	if err == nil && existing.ID != "" {
		if err := h.Prods.Update(p); err != nil {
			applog.Error(c, "admin.products.update.fail", err, map[string]any{"product": id})
			return c.Status(400).SendString("could not save product")
		}
	} else {
		p.ImagesJSON = `["products/` + id + `/1.jpg"]`
		if err := h.Prods.Create(p); err != nil {
			applog.Error(c, "admin.products.create.fail", err, map[string]any{"product": id})
			return c.Status(400).SendString("could not save product")
		}
	}
	applog.Audit(c, "admin.products.save", map[string]any{"product": id})
	return c.Redirect("/admin/products")
}

// POST /admin/products/:id/delete — soft delete; snapshots in orders survive.
func (h *AdminHandler) DeactivateProduct(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(400).SendString("missing id")
	}
	if err := h.Prods.Deactivate(id); err != nil {
		applog.Error(c, "admin.products.delete.fail", err, map[string]any{"product": id})
		return c.Status(400).SendString("could not remove product")
	}
	applog.Audit(c, "admin.products.delete", map[string]any{"product": id})
	return c.Redirect("/admin/products")
}

// GET /admin/customers
func (h *AdminHandler) CustomersPage(c *fiber.Ctx) error {
	customers, err := h.Reports.Customers()
	if err != nil {
		applog.Error(c, "admin.customers.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load customers"})
	}
	return render(c, "admin_customers", fiber.Map{"Customers": customers})
}

// DeleteUser deletes a user and related data; only their still-open orders
// are cancelled.
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(400).SendString("missing id")
	}
	if err := h.Users.DeleteUserCascade(id); err != nil {
		applog.Error(c, "admin.users.delete.fail", err, map[string]any{"user_id": id})
		return c.Status(400).SendString("could not delete user")
	}
	applog.Audit(c, "admin.users.delete", map[string]any{"user_id": id})
	return c.Redirect("/admin/customers")
}
