package handlers

import (
	"storefront/internal/events"
	"storefront/internal/repos"
	"storefront/internal/services"
)

type Deps struct {
	Auth *services.AuthService

	ProductHandler   *ProductHandler
	InventoryHandler *InventoryHandler
	CartHandler      *CartHandler
	OrderHandler     *OrderHandler
	AuthHandler      *AuthHandler
	AdminHandler     *AdminHandler

	// LoginMax is the number of login attempts allowed per client every LoginWindow.
	LoginMax int
}

func NewDeps(store repos.Store, pub events.Publisher) *Deps {
	prodRepo := repos.NewProductRepo(store)
	cartRepo := repos.NewCartRepo(store)
	orderRepo := repos.NewOrderRepo(store)
	userRepo := repos.NewUserRepo(store)
	sessRepo := repos.NewSessionRepo(store)

	catalogSvc := services.NewCatalogService(prodRepo)
	invSvc := services.NewInventoryService(catalogSvc)
	cartSvc := services.NewCartService(cartRepo, catalogSvc)
	orderSvc := services.NewOrderService(orderRepo, catalogSvc, cartSvc, pub)
	authSvc := services.NewAuthService(userRepo, sessRepo)
	analyticsSvc := services.NewAnalyticsService(catalogSvc, orderSvc, invSvc)

	return &Deps{
		Auth:             authSvc,
		ProductHandler:   &ProductHandler{Catalog: catalogSvc},
		InventoryHandler: &InventoryHandler{Inv: invSvc},
		CartHandler:      &CartHandler{Cart: cartSvc},
		OrderHandler:     &OrderHandler{Order: orderSvc},
		AuthHandler:      &AuthHandler{Auth: authSvc},
		AdminHandler:     &AdminHandler{Analytics: analyticsSvc},
		LoginMax:         5,
	}
}
