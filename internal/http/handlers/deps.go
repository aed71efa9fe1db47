package handlers

import (
	"time"

	"github.com/jmoiron/sqlx"

	"thebaker/internal/config"
	"thebaker/internal/repos"
	"thebaker/internal/services"
)

type Deps struct {
	ProductHandler *ProductHandler
	OrderHandler   *OrderHandler
	PointHandler   *PointHandler
	StaffHandler   *StaffHandler
	SalesHandler   *SalesHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, loc *time.Location) *Deps {
	prodRepo := repos.NewProductRepo(db)
	custRepo := repos.NewCustomerRepo(db)
	orderRepo := repos.NewOrderRepo(db)

	catalogSvc := services.NewCatalogService(prodRepo, loc)
	orderSvc := services.NewOrderService(db, prodRepo, custRepo, orderRepo, loc)
	shopSvc := services.NewShopService(loc)
	predictSvc := services.NewPredictionService(cfg.ModelPath)

	return &Deps{
		ProductHandler: &ProductHandler{Catalog: catalogSvc},
		OrderHandler:   &OrderHandler{Orders: orderSvc},
		PointHandler:   &PointHandler{Orders: orderSvc},
		StaffHandler:   &StaffHandler{Orders: orderSvc, Shop: shopSvc},
		SalesHandler:   &SalesHandler{Catalog: catalogSvc, Predict: predictSvc},
	}
}
