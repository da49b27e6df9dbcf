package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jmcasares/tienda-api/internal/application/checkout"
	"github.com/jmcasares/tienda-api/internal/application/inventory"
	"github.com/jmcasares/tienda-api/internal/application/orders"
	"github.com/jmcasares/tienda-api/internal/domain/repository"
	"github.com/jmcasares/tienda-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CreateOrder  *checkout.CreateOrderUseCase
	UpdateOrder  *checkout.UpdateOrderStatusUseCase
	Webhook      *checkout.PaymentWebhookUseCase
	Query        *orders.QueryService
	Ledger       *inventory.StockLedger
	LowStock     *inventory.LowStockUseCase
	MovementRepo repository.StockMovementRepository
	Receipts     ReceiptGenerator
	JWTSecret    string
	Log          *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Checkout y consulta pública (autenticada solo por el token de la orden)
	orderHandler := NewOrderHandler(deps.CreateOrder, deps.UpdateOrder, deps.Query, deps.Receipts)
	api.Post("/orders", orderHandler.Create)
	api.Get("/orders/:accessToken", orderHandler.GetByToken)
	api.Get("/orders/:accessToken/receipt", orderHandler.Receipt)

	// Notificaciones del proveedor de pagos (público, sin auth: el id de pago
	// se verifica contra la API del proveedor antes de tocar la orden)
	webhookHandler := NewWebhookHandler(deps.Webhook, deps.Log)
	api.Post("/webhooks/pagos", webhookHandler.HandlePayment)

	// Panel admin (requiere Bearer Token con rol admin)
	admin := api.Group("/admin", AuthMiddleware(deps.JWTSecret), RequireRole("admin"))

	admin.Get("/orders", orderHandler.Search)
	admin.Patch("/orders/:id", orderHandler.Update)

	stockHandler := NewStockHandler(deps.Ledger, deps.LowStock, deps.MovementRepo)
	admin.Put("/stock", stockHandler.UpdateStock)
	admin.Get("/stock-movements", stockHandler.ListMovements)
	admin.Get("/inventory/low-stock", stockHandler.LowStock)
}
