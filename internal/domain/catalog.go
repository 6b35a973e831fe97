package domain

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type SortKey string

const (
	SortNameAsc   SortKey = "name-asc" // default
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
)

// CategoryAll is the identity category filter.
const CategoryAll = "all"

// PriceRange holds inclusive bounds; a nil bound is unbounded on that side.
type PriceRange struct {
	Min *Money
	Max *Money
}

// CatalogQuery is the composed catalog pipeline. Stages apply in a fixed
// order: search, category, price, sort.
type CatalogQuery struct {
	Term     string
	Category string
	Price    PriceRange
	Sort     SortKey
}

var nameCollator = collate.New(language.English, collate.IgnoreCase)

// SearchProducts matches term case-insensitively against name or
// description. An empty term matches everything. Input order is preserved.
func SearchProducts(term string, products []Product) []Product {
	term = strings.ToLower(strings.TrimSpace(term))
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if term == "" ||
			strings.Contains(strings.ToLower(p.Name), term) ||
			strings.Contains(strings.ToLower(p.Description), term) {
			out = append(out, p)
		}
	}
	return out
}

// FilterByCategory keeps products in the given category; CategoryAll (or
// empty) is the identity filter.
func FilterByCategory(categoryID string, products []Product) []Product {
	if categoryID == "" || categoryID == CategoryAll {
		return append([]Product(nil), products...)
	}
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if p.CategoryID == categoryID {
			out = append(out, p)
		}
	}
	return out
}

// FilterByPriceRange keeps products whose price lies within the inclusive
// bounds. Negative bounds and min > max are rejected.
func FilterByPriceRange(r PriceRange, products []Product) ([]Product, error) {
	if r.Min != nil && *r.Min < 0 {
		return nil, fmt.Errorf("%w: min %d is negative", ErrInvalidRange, *r.Min)
	}
	if r.Max != nil && *r.Max < 0 {
		return nil, fmt.Errorf("%w: max %d is negative", ErrInvalidRange, *r.Max)
	}
	if r.Min != nil && r.Max != nil && *r.Min > *r.Max {
		return nil, fmt.Errorf("%w: min %d > max %d", ErrInvalidRange, *r.Min, *r.Max)
	}
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if r.Min != nil && p.Price < *r.Min {
			continue
		}
		if r.Max != nil && p.Price > *r.Max {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// SortProducts returns a sorted copy. The sort is stable: equal keys keep
// their original relative order, so price ties never reshuffle.
func SortProducts(key SortKey, products []Product) []Product {
	out := append([]Product(nil), products...)
	switch key {
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	default: // SortNameAsc
		sort.SliceStable(out, func(i, j int) bool {
			return nameCollator.CompareString(out[i].Name, out[j].Name) < 0
		})
	}
	return out
}

// Apply runs the full pipeline over the given collection.
func (q CatalogQuery) Apply(products []Product) ([]Product, error) {
	out := SearchProducts(q.Term, products)
	out = FilterByCategory(q.Category, out)
	out, err := FilterByPriceRange(q.Price, out)
	if err != nil {
		return nil, err
	}
	return SortProducts(q.Sort, out), nil
}
