package handlers

import (
	"aurelia/internal/config"
	"aurelia/internal/repos"
	"aurelia/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	HomeHandler         *HomeHandler
	ProductHandler      *ProductHandler
	CatalogHandler      *CatalogHandler
	AvailabilityHandler *AvailabilityHandler
	CartHandler         *CartHandler
	OrderHandler        *OrderHandler
	WishlistHandler     *WishlistHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, auth *services.AuthService) *Deps {
	catRepo := repos.NewCategoryRepo(db)
	prodRepo := repos.NewProductRepo(db)
	cartRepo := repos.NewCartRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	wishRepo := repos.NewWishlistRepo(db)

	catalogSvc := services.NewCatalogService(catRepo, prodRepo)
	cartSvc := services.NewCartService(cartRepo, prodRepo, cfg.Shipping)
	orderSvc := services.NewOrderService(cartRepo, prodRepo, orderRepo, cfg.Shipping)
	wishSvc := services.NewWishlistService(wishRepo)

	return &Deps{
		HomeHandler:         &HomeHandler{Catalog: catalogSvc},
		ProductHandler:      &ProductHandler{Catalog: catalogSvc},
		CatalogHandler:      &CatalogHandler{Catalog: catalogSvc},
		AvailabilityHandler: &AvailabilityHandler{Catalog: catalogSvc},
		CartHandler:         &CartHandler{Cart: cartSvc, Shipping: cfg.Shipping},
		OrderHandler:        &OrderHandler{Cart: cartSvc, Order: orderSvc, Repo: orderRepo, Auth: auth},
		WishlistHandler:     &WishlistHandler{Wish: wishSvc},
	}
}
