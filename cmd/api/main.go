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
	"github.com/talegos/bagmfg-api/internal/application/auth"
	"github.com/talegos/bagmfg-api/internal/application/inventory"
	"github.com/talegos/bagmfg-api/internal/application/production"
	"github.com/talegos/bagmfg-api/internal/application/purchasing"
	"github.com/talegos/bagmfg-api/internal/application/usecase"
	"github.com/talegos/bagmfg-api/internal/infrastructure/document"
	"github.com/talegos/bagmfg-api/internal/infrastructure/postgres"
	httpRouter "github.com/talegos/bagmfg-api/internal/interfaces/http"
	"github.com/talegos/bagmfg-api/pkg/config"
	"github.com/talegos/bagmfg-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
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

	partnerRepo := postgres.NewPartnerRepository(pool)
	materialRepo := postgres.NewMaterialRepository(pool)
	ledgerRepo := postgres.NewLedgerRepository(pool)
	productRepo := postgres.NewFinishedProductRepository(pool)
	orderRepo := postgres.NewProductionOrderRepository(pool)
	poRepo := postgres.NewPurchaseOrderRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	dashRepo := postgres.NewDashboardRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	partnerUC := usecase.NewPartnerUseCase(partnerRepo)
	materialUC := inventory.NewMaterialUseCase(txRunner, materialRepo, partnerRepo, ledgerRepo)
	productUC := usecase.NewProductUseCase(productRepo, materialRepo)
	productionUC := production.NewProductionUseCase(txRunner, productRepo, orderRepo)
	purchasingUC := purchasing.NewPurchasingUseCase(txRunner, partnerRepo, materialRepo, poRepo)
	dashboardUC := usecase.NewDashboardUseCase(dashRepo, materialRepo, ledgerRepo)

	// Exportación de órdenes de compra (PDF Maroto / Excel excelize)
	docGenerator := document.NewGenerator()
	exportUC := purchasing.NewExportUseCase(poRepo, partnerRepo, materialRepo, docGenerator)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "BagMfg API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		PartnerUC:    partnerUC,
		ProductUC:    productUC,
		DashboardUC:  dashboardUC,
		MaterialUC:   materialUC,
		ProductionUC: productionUC,
		PurchasingUC: purchasingUC,
		ExportUC:     exportUC,
		JWTSecret:    cfg.JWT.Secret,
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
