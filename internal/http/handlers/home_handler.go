package handlers

import (
	applog "aurelia/internal/log"
	"aurelia/internal/services"

	"github.com/gofiber/fiber/v2"
)

type HomeHandler struct {
	Catalog *services.CatalogService
}

func (h *HomeHandler) Home(c *fiber.Ctx) error {
	cats, err := h.Catalog.ListCategories()
	if err != nil {
		applog.Error(c, "home.categories.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load the shop"})
	}
	featured, err := h.Catalog.Featured(4)
	if err != nil {
		applog.Error(c, "home.featured.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load the shop"})
	}
	return render(c, "home", fiber.Map{"Categories": cats, "Featured": featured})
}
