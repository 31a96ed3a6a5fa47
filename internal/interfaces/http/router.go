package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/compras-api/internal/application/auth"
	"github.com/jhoicas/compras-api/internal/application/usecase"
	"github.com/jhoicas/compras-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	CompanyUC      *usecase.CompanyUseCase
	UserUC         *usecase.UserUseCase
	ItemUC         *usecase.CatalogUseCase
	UnitUC         *usecase.CatalogUseCase
	MoneyTypeUC    *usecase.CatalogUseCase
	DepotUC        *usecase.DepotUseCase
	PurchaseLineUC *usecase.PurchaseLineUseCase
	LedgerUC       *usecase.LedgerUseCase
	ScanUC         *usecase.ScanUseCase
	MaxImageBytes  int64
}

// Router registra las rutas de la API.
// Todo lo que no es login ni verificación de email exige Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	authMW := AuthMiddleware(deps.AuthUC)

	// Auth
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/login", authHandler.LoginWithoutCompany)
	authGroup.Get("/verify-email/:token", authHandler.VerifyEmail)
	authGroup.Post("/logout", authMW, authHandler.Logout)
	authGroup.Post("/change-password", authMW, authHandler.ChangePassword)
	authGroup.Post("/:company_token/login", authHandler.Login)

	// Companies (mutaciones solo superadmin)
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies := api.Group("/companies", authMW)
	companies.Get("/", companyHandler.List)
	companies.Post("/", RequireRole(entity.RoleSuperadmin), companyHandler.Create)
	companies.Get("/:id", companyHandler.GetByID)
	companies.Put("/:id", RequireRole(entity.RoleSuperadmin), companyHandler.Update)
	companies.Delete("/:id", RequireRole(entity.RoleSuperadmin), companyHandler.Delete)

	// Users
	userHandler := NewUserHandler(deps.UserUC)
	users := api.Group("/users", authMW)
	users.Get("/", userHandler.List)
	users.Post("/", RequireRole(entity.RoleAdmin, entity.RoleSuperadmin), userHandler.Create)
	users.Get("/me", userHandler.Me)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)

	// Catálogo
	mountCatalog(api.Group("/items", authMW), NewCatalogHandler(deps.ItemUC))
	mountCatalog(api.Group("/units", authMW), NewCatalogHandler(deps.UnitUC))
	mountCatalog(api.Group("/money-types", authMW), NewCatalogHandler(deps.MoneyTypeUC))

	// Depots
	depotHandler := NewDepotHandler(deps.DepotUC)
	depots := api.Group("/depots", authMW)
	depots.Get("/", depotHandler.List)
	depots.Post("/", depotHandler.Create)
	depots.Get("/:id", depotHandler.GetByID)
	depots.Put("/:id", depotHandler.Update)
	depots.Delete("/:id", depotHandler.Delete)

	// Libro de compras: las rutas fijas van antes de /:id
	lineHandler := NewPurchaseLineHandler(deps.PurchaseLineUC, deps.LedgerUC)
	lines := api.Group("/purchase-lines", authMW)
	lines.Get("/total", lineHandler.Total)
	lines.Get("/total-by-depot", lineHandler.TotalByDepot)
	lines.Get("/export", lineHandler.Export)
	lines.Get("/", lineHandler.List)
	lines.Post("/", lineHandler.Create)
	lines.Get("/:id", lineHandler.GetByID)
	lines.Put("/:id", lineHandler.Update)
	lines.Delete("/:id", lineHandler.Delete)

	// Scan
	scanHandler := NewScanHandler(deps.ScanUC, deps.MaxImageBytes)
	api.Post("/scan", authMW, scanHandler.Scan)
}

func mountCatalog(g fiber.Router, h *CatalogHandler) {
	g.Get("/", h.List)
	g.Post("/", h.Create)
	g.Get("/:id", h.GetByID)
	g.Put("/:id", h.Update)
	g.Delete("/:id", h.Delete)
}
