package handlers

import (
	"errors"
	"strings"

	"aurelia/internal/domain"
	"aurelia/internal/log"
	"aurelia/internal/services"
	"aurelia/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type CatalogHandler struct {
	Catalog *services.CatalogService
}

// Browse runs the full catalog pipeline: search term, category filter,
// inclusive price range, sort. An empty term matches everything.
func (h *CatalogHandler) Browse(c *fiber.Ctx) error {
	q := strings.TrimSpace(c.Query("q"))
	if q != "" {
		var ok bool
		if q, ok = validate.Q(q); !ok {
			log.Security(c, "validation.fail", map[string]any{"field": "q"})
			return c.Status(fiber.StatusBadRequest).Render("products", fiber.Map{
				"Q": "", "Products": []any{}, "Count": 0, "Err": "Enter a valid keyword (letters/numbers only)",
			})
		}
	}

	category := strings.TrimSpace(c.Query("category"))
	if category != "" && category != domain.CategoryAll {
		if _, ok := validate.ID(category); !ok {
			log.Security(c, "validation.fail", map[string]any{"field": "category"})
			return c.Status(fiber.StatusBadRequest).Render("products", fiber.Map{
				"Q": q, "Products": []any{}, "Count": 0, "Err": "Invalid category",
			})
		}
	}

	minP, okMin := validate.PriceBound(c.Query("min"))
	maxP, okMax := validate.PriceBound(c.Query("max"))
	if !okMin || !okMax {
		log.Security(c, "validation.fail", map[string]any{"field": "price"})
		return c.Status(fiber.StatusBadRequest).Render("products", fiber.Map{
			"Q": q, "Products": []any{}, "Count": 0, "Err": "Price bounds must be whole non-negative amounts",
		})
	}

	sortKey, ok := validate.SortKey(c.Query("sort"))
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "sort"})
		return c.Status(fiber.StatusBadRequest).Render("products", fiber.Map{
			"Q": q, "Products": []any{}, "Count": 0, "Err": "Invalid sort",
		})
	}

	query := domain.CatalogQuery{
		Term:     q,
		Category: category,
		Price:    domain.PriceRange{Min: minP, Max: maxP},
		Sort:     sortKey,
	}
	products, err := h.Catalog.Browse(query)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRange) {
			return c.Status(fiber.StatusBadRequest).Render("products", fiber.Map{
				"Q": q, "Products": []any{}, "Count": 0, "Err": "Minimum price cannot exceed maximum",
			})
		}
		log.Error(c, "catalog.browse.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load products. Please retry."})
	}

	cats, _ := h.Catalog.ListCategories()
	return render(c, "products", fiber.Map{
		"Q": q, "CategoryID": category, "Sort": string(sortKey),
		"Categories": cats,
		"Products":   products, "Count": len(products),
	})
}

// List shows one category page.
func (h *CatalogHandler) List(c *fiber.Ctx) error {
	catID, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Category not found"})
	}
	products, err := h.Catalog.Browse(domain.CatalogQuery{Category: catID, Sort: domain.SortNameAsc})
	if err != nil {
		log.Error(c, "catalog.category.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load products. Please retry."})
	}
	return render(c, "category", fiber.Map{"CategoryID": catID, "Products": products, "Count": len(products)})
}
