package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"aurelia/internal/services"
	"aurelia/internal/validate"
)

type AvailabilityHandler struct {
	Catalog *services.CatalogService
}

// Check reports the stock flag for one product as JSON.
func (h *AvailabilityHandler) Check(c *fiber.Ctx) error {
	productID := strings.TrimSpace(c.Query("productId"))
	if _, ok := validate.ID(productID); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "missing or invalid productId",
		})
	}

	avail, err := h.Catalog.Availability(productID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "unknown product",
		})
	}
	return c.JSON(avail)
}
