package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/restaurante-inventario/internal/application/analytics"
	"github.com/jhoicas/restaurante-inventario/internal/application/auth"
	"github.com/jhoicas/restaurante-inventario/internal/application/billing"
	appinv "github.com/jhoicas/restaurante-inventario/internal/application/inventory"
	"github.com/jhoicas/restaurante-inventario/internal/application/usecase"
	"github.com/jhoicas/restaurante-inventario/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	SessionUC    *auth.SessionUseCase
	Ledger       *appinv.LedgerUseCase
	Shopping     *appinv.ReplenishmentUseCase
	Requisitions *appinv.RequisitionUseCase
	Productions  *appinv.ProductionUseCase
	Invoices     *billing.InvoiceUseCase
	Providers    *billing.ProviderUseCase
	Dashboard    *analytics.DashboardUseCase
	Assistant    *usecase.AssistantUseCase
	Logger       zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	log := deps.Logger

	// Auth (público)
	authHandler := NewAuthHandler(deps.SessionUC, log)
	api.Post("/auth/session", authHandler.Session)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.SessionUC))
	protected.Get("/auth/me", authHandler.Me)

	// Products
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.Ledger, deps.Shopping, log)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Delete("/:id", productHandler.Delete)
	products.Get("/:id/history", productHandler.History)
	products.Post("/:id/quick-update", productHandler.QuickUpdate)
	products.Post("/:id/movements/:movementId/cancel", productHandler.CancelMovement)
	products.Get("/:id/audit",
		RequirePermission("can_view_full_history", func(p entity.Permissions) bool { return p.CanViewFullHistory }),
		productHandler.Audit,
	)
	protected.Get("/shopping-list", productHandler.ShoppingList)

	// Requisitions
	requisitions := protected.Group("/requisitions")
	requisitionHandler := NewRequisitionHandler(deps.Requisitions, log)
	requisitions.Post("/", requisitionHandler.Create)
	requisitions.Get("/", requisitionHandler.List)
	requisitions.Get("/:id", requisitionHandler.GetByID)
	requisitions.Post("/:id/process", requisitionHandler.Process)

	// Productions
	productions := protected.Group("/productions")
	productionHandler := NewProductionHandler(deps.Productions, log)
	productions.Post("/", productionHandler.Create)
	productions.Get("/", productionHandler.List)
	productions.Get("/:id", productionHandler.GetByID)

	// Invoices y proveedores
	invoiceHandler := NewInvoiceHandler(deps.Invoices, deps.Providers, log)
	invoices := protected.Group("/invoices")
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Patch("/:id/status", invoiceHandler.UpdateStatus)
	providers := protected.Group("/providers")
	providers.Get("/", invoiceHandler.ListProviders)
	providers.Post("/orders", invoiceHandler.PurchaseOrder)

	// Dashboard (solo lectura)
	dashboard := protected.Group("/dashboard")
	dashboardHandler := NewDashboardHandler(deps.Dashboard, log)
	dashboard.Get("/summary", dashboardHandler.Summary)
	dashboard.Get("/statistics", dashboardHandler.Statistics)
	dashboard.Get("/weekly", dashboardHandler.Weekly)

	// Asistente IA
	ai := protected.Group("/ai")
	aiHandler := NewAIHandler(deps.Assistant, log)
	ai.Post("/chat", aiHandler.Chat)
	ai.Post("/execute", aiHandler.Execute)
	ai.Post("/recommendations", aiHandler.Recommend)
}
