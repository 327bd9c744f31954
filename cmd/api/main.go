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
	appanalytics "github.com/jhoicas/restaurante-inventario/internal/application/analytics"
	"github.com/jhoicas/restaurante-inventario/internal/application/auth"
	"github.com/jhoicas/restaurante-inventario/internal/application/billing"
	"github.com/jhoicas/restaurante-inventario/internal/application/inventory"
	"github.com/jhoicas/restaurante-inventario/internal/application/usecase"
	"github.com/jhoicas/restaurante-inventario/internal/domain/repository"
	infraai "github.com/jhoicas/restaurante-inventario/internal/infrastructure/ai"
	"github.com/jhoicas/restaurante-inventario/internal/infrastructure/memory"
	"github.com/jhoicas/restaurante-inventario/internal/infrastructure/postgres"
	"github.com/jhoicas/restaurante-inventario/internal/infrastructure/seed"
	httpRouter "github.com/jhoicas/restaurante-inventario/internal/interfaces/http"
	"github.com/jhoicas/restaurante-inventario/pkg/config"
	"github.com/jhoicas/restaurante-inventario/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

// store todo lo que la API necesita del almacenamiento; lo cumplen memory.Store y postgres.Store.
type store interface {
	repository.LedgerStore
	repository.InvoiceRepository
	repository.ProviderRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()

	// Sin base de datos configurada el inventario vive en memoria (modo demo).
	var st store
	if cfg.DB.Enabled() {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		pg := postgres.NewStore(pool)
		if err := pg.Migrate(ctx); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		st = pg
	} else {
		log.Warn().Msg("DATABASE_URL/DB_HOST vacíos: usando almacenamiento en memoria")
		st = memory.New()
	}

	if cfg.App.SeedDemo {
		seeded, err := seed.Load(ctx, st, time.Now())
		if err != nil {
			log.Fatal().Err(err).Msg("datos de ejemplo")
		}
		if seeded {
			log.Info().Msg("datos de ejemplo cargados")
		}
	}

	opts := inventory.Options{
		Logger:     log.Component("ledger"),
		MaxRetries: cfg.Ledger.MaxRetries,
	}
	ledgerUC := inventory.NewLedgerUseCase(st, opts)
	requisitionUC := inventory.NewRequisitionUseCase(st, opts)
	productionUC := inventory.NewProductionUseCase(st, opts)
	replenishmentUC := inventory.NewReplenishmentUseCase(st)
	invoiceUC := billing.NewInvoiceUseCase(st, log.Component("billing"))
	providerUC := billing.NewProviderUseCase(st)
	dashboardUC := appanalytics.NewDashboardUseCase(st)

	geminiSvc := infraai.NewGeminiService(cfg.AI.APIKey, cfg.AI.Model)
	if cfg.AI.APIKey == "" {
		log.Warn().Msg("GEMINI_API_KEY vacío: el asistente responderá 503")
	}
	assistantUC := usecase.NewAssistantUseCase(geminiSvc, ledgerUC, requisitionUC, invoiceUC, log.Component("assistant"))

	sessionUC := auth.NewSessionUseCase(auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs (generar con `swag init -g cmd/api/main.go`)
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Inventario Restaurante API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		SessionUC:    sessionUC,
		Ledger:       ledgerUC,
		Shopping:     replenishmentUC,
		Requisitions: requisitionUC,
		Productions:  productionUC,
		Invoices:     invoiceUC,
		Providers:    providerUC,
		Dashboard:    dashboardUC,
		Assistant:    assistantUC,
		Logger:       log.Component("http"),
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
