package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jmcasares/tienda-api/internal/application/checkout"
	"github.com/jmcasares/tienda-api/internal/application/inventory"
	"github.com/jmcasares/tienda-api/internal/application/orders"
	inframailer "github.com/jmcasares/tienda-api/internal/infrastructure/mailer"
	"github.com/jmcasares/tienda-api/internal/infrastructure/mercadopago"
	infrapdf "github.com/jmcasares/tienda-api/internal/infrastructure/pdf"
	"github.com/jmcasares/tienda-api/internal/infrastructure/postgres"
	httpRouter "github.com/jmcasares/tienda-api/internal/interfaces/http"
	"github.com/jmcasares/tienda-api/pkg/config"
	"github.com/jmcasares/tienda-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	orderRepo := postgres.NewOrderRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	gateway := mercadopago.New(cfg.MP, cfg.URLs, log)
	mailer := inframailer.New(cfg.SMTP, cfg.URLs, log)
	receipts := infrapdf.NewReceiptGenerator(cfg.App.Name)

	ledger := inventory.NewStockLedger(txRunner, log)
	lowStockUC := inventory.NewLowStockUseCase(productRepo)

	validator := checkout.NewCartValidator(productRepo)
	createOrderUC := checkout.NewCreateOrderUseCase(
		txRunner, orderRepo, validator, gateway, mailer, cfg.URLs.PublicBaseURL, log,
	)
	updateOrderUC := checkout.NewUpdateOrderStatusUseCase(orderRepo, ledger, log)
	webhookUC := checkout.NewPaymentWebhookUseCase(orderRepo, gateway, log)
	queryService := orders.NewQueryService(orderRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    cfg.App.Name,
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CreateOrder:  createOrderUC,
		UpdateOrder:  updateOrderUC,
		Webhook:      webhookUC,
		Query:        queryService,
		Ledger:       ledger,
		LowStock:     lowStockUC,
		MovementRepo: movementRepo,
		Receipts:     receipts,
		JWTSecret:    cfg.JWT.Secret,
		Log:          log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
