package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/talegos/bagmfg-api/internal/application/auth"
	"github.com/talegos/bagmfg-api/internal/application/inventory"
	"github.com/talegos/bagmfg-api/internal/application/production"
	"github.com/talegos/bagmfg-api/internal/application/purchasing"
	"github.com/talegos/bagmfg-api/internal/application/usecase"
	"github.com/talegos/bagmfg-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	PartnerUC    *usecase.PartnerUseCase
	ProductUC    *usecase.ProductUseCase
	DashboardUC  *usecase.DashboardUseCase
	MaterialUC   *inventory.MaterialUseCase
	ProductionUC *production.ProductionUseCase
	PurchasingUC *purchasing.PurchasingUseCase
	ExportUC     *purchasing.ExportUseCase
	JWTSecret    string
}

// Router registra las rutas de la API. Las lecturas requieren solo un token
// válido; las mutaciones además exigen el rol del área correspondiente.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	inventoryRoles := RequireRole(entity.RoleAdmin, entity.RoleInventoryManager)
	productionRoles := RequireRole(entity.RoleAdmin, entity.RoleProductionManager)

	// Auth (solo login es público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Users (solo admin). El alta de usuarios define el rol de la cuenta,
	// así que queda detrás del mismo gate que el listado.
	protected.Post("/auth/register", RequireRole(entity.RoleAdmin), authHandler.Register)
	protected.Get("/users", RequireRole(entity.RoleAdmin), authHandler.ListUsers)

	// Partners
	partners := protected.Group("/partners")
	partnerHandler := NewPartnerHandler(deps.PartnerUC, deps.MaterialUC)
	partners.Get("/", partnerHandler.List)
	partners.Get("/:id", partnerHandler.GetByID)
	partners.Get("/:id/materials", partnerHandler.ListMaterials)
	partners.Post("/", inventoryRoles, partnerHandler.Create)
	partners.Put("/:id", inventoryRoles, partnerHandler.Update)

	// Raw materials
	materials := protected.Group("/materials")
	materialHandler := NewMaterialHandler(deps.MaterialUC)
	materials.Get("/", materialHandler.List)
	materials.Get("/:id", materialHandler.GetByID)
	materials.Get("/:id/ledger", materialHandler.Ledger)
	materials.Get("/:id/audit", materialHandler.Audit)
	materials.Post("/", inventoryRoles, materialHandler.Create)
	materials.Put("/:id", inventoryRoles, materialHandler.Update)
	materials.Post("/:id/adjust", inventoryRoles, materialHandler.AdjustStock)

	// Finished products + BOM
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", productionRoles, productHandler.Create)
	products.Put("/:id", productionRoles, productHandler.Update)

	// Production orders
	productionGroup := protected.Group("/production-orders")
	productionHandler := NewProductionHandler(deps.ProductionUC)
	productionGroup.Get("/", productionHandler.List)
	productionGroup.Get("/:id", productionHandler.GetByID)
	productionGroup.Get("/:id/consumptions", productionHandler.Consumptions)
	productionGroup.Post("/", productionRoles, productionHandler.Create)
	productionGroup.Post("/:id/release", inventoryRoles, productionHandler.ReleaseRM)
	productionGroup.Post("/:id/reject", inventoryRoles, productionHandler.RejectRM)
	productionGroup.Patch("/:id/status", productionRoles, productionHandler.UpdateStatus)
	productionGroup.Post("/:id/complete", productionRoles, productionHandler.Complete)
	productionGroup.Post("/:id/cancel", productionRoles, productionHandler.Cancel)

	// Purchase orders
	purchases := protected.Group("/purchase-orders")
	purchasingHandler := NewPurchasingHandler(deps.PurchasingUC, deps.ExportUC)
	purchases.Get("/", purchasingHandler.List)
	purchases.Get("/:id", purchasingHandler.GetByID)
	purchases.Get("/:id/export/pdf", purchasingHandler.ExportPDF)
	purchases.Get("/:id/export/excel", purchasingHandler.ExportExcel)
	purchases.Post("/", productionRoles, purchasingHandler.Create)
	purchases.Post("/:id/receive", inventoryRoles, purchasingHandler.Receive)
	purchases.Post("/:id/cancel", productionRoles, purchasingHandler.Cancel)
	purchases.Post("/:id/reopen", productionRoles, purchasingHandler.Reopen)

	// Dashboard
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard", dashboardHandler.Summary)
}
