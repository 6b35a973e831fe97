package services

import (
	"aurelia/internal/domain"
	"aurelia/internal/repos"
)

type CatalogService struct {
	Cats  *repos.CategoryRepo
	Prods *repos.ProductRepo
}

func NewCatalogService(cats *repos.CategoryRepo, prods *repos.ProductRepo) *CatalogService {
	return &CatalogService{Cats: cats, Prods: prods}
}

func (s *CatalogService) ListCategories() ([]domain.Category, error) {
	return s.Cats.List()
}

func (s *CatalogService) GetProduct(id string) (domain.Product, error) {
	return s.Prods.Get(id)
}

func (s *CatalogService) Featured(limit int) ([]domain.Product, error) {
	return s.Prods.ListFeatured(limit)
}

// Browse loads the live collection and runs the catalog pipeline over it:
// search, category filter, price filter, sort.
func (s *CatalogService) Browse(q domain.CatalogQuery) ([]domain.Product, error) {
	products, err := s.Prods.ListActive()
	if err != nil {
		return nil, err
	}
	return q.Apply(products)
}

// Availability reports the stock flag for one product as a small JSON shape.
func (s *CatalogService) Availability(productID string) (domain.Availability, error) {
	p, err := s.Prods.Get(productID)
	if err != nil {
		return domain.Availability{}, err
	}
	status := "OUT_OF_STOCK"
	if p.InStock && p.Active {
		status = "IN_STOCK"
	}
	return domain.Availability{Status: status, ProductID: p.ID}, nil
}
