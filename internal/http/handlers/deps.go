package handlers

import (
	"goodsmgmt/internal/repos"
	"goodsmgmt/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	AuthHandler     *AuthHandler
	AdminHandler    *AdminHandler
	CatalogHandler  *CatalogHandler
	PurchaseHandler *PurchaseHandler
	LedgerHandler   *LedgerHandler

	Auth   *services.AuthService
	Access *services.AccessService
}

func NewDeps(db *sqlx.DB) *Deps {
	userRepo := repos.NewUserRepo(db)
	adminRepo := repos.NewAdminRepo(db)
	catalogRepo := repos.NewCatalogRepo(db)
	ledgerRepo := repos.NewLedgerRepo(db)

	authSvc := &services.AuthService{Users: userRepo}
	accessSvc := services.NewAccessService(adminRepo)
	catalogSvc := services.NewCatalogService(accessSvc, catalogRepo)
	ledgerSvc := services.NewLedgerService(accessSvc, ledgerRepo)
	purchaseSvc := services.NewPurchaseService(db, catalogRepo, ledgerRepo)

	return &Deps{
		AuthHandler:     &AuthHandler{Auth: authSvc},
		AdminHandler:    &AdminHandler{Access: accessSvc, Users: userRepo},
		CatalogHandler:  &CatalogHandler{Catalog: catalogSvc},
		PurchaseHandler: &PurchaseHandler{Purchase: purchaseSvc, Ledger: ledgerSvc},
		LedgerHandler:   &LedgerHandler{Ledger: ledgerSvc},
		Auth:            authSvc,
		Access:          accessSvc,
	}
}
