package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/Almacen-api/internal/application/reconcile"
	"github.com/jhoicas/Almacen-api/internal/application/transfer"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/events"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Almacen-api/internal/interfaces/http"
	"github.com/jhoicas/Almacen-api/pkg/config"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

// runMigrations aplica las migraciones goose al arrancar, vía el driver
// database/sql de pgx.
func runMigrations(dsn string) error {
	sqlDB, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()
	return goose.Up(sqlDB, "migrations")
}

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

	if err := runMigrations(cfg.DB.ConnectionString()); err != nil {
		log.Fatal().Err(err).Msg("aplicar migraciones")
	}
	log.Info().Msg("migraciones aplicadas")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	warehouseRepo := postgres.NewWarehouseRepository(pool)
	binRepo := postgres.NewBinRepository(pool)
	inventoryRepo := postgres.NewInventoryRepository(pool)
	demandRepo := postgres.NewDemandRepository(pool)
	transferRepo := postgres.NewTransferRepository(pool)
	lockRegistry := postgres.NewBinLockRegistry(pool)
	txRunner := postgres.NewTxRunner(pool)
	reconcileTxRunner := postgres.NewReconcileTxRunner(pool)

	notifier := events.NewLogNotifier(log)

	matcher := transfer.NewMatcher(inventoryRepo, binRepo, lockRegistry, txRunner, notifier)
	lifecycle := transfer.NewLifecycle(transferRepo, lockRegistry, notifier)
	batchSvc := transfer.NewBatchService(transferRepo, lifecycle)
	binProducts := reconcile.NewBinProducts(binRepo, notifier)
	inventoryRows := reconcile.NewInventoryRows(inventoryRepo, reconcileTxRunner, notifier)

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
		Title:    "Almacen Core API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	if cfg.Metrics.Enabled {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		Matcher:       matcher,
		Lifecycle:     lifecycle,
		Batches:       batchSvc,
		BinProducts:   binProducts,
		InventoryRows: inventoryRows,
		Warehouses:    warehouseRepo,
		Bins:          binRepo,
		Inventory:     inventoryRepo,
		Demand:        demandRepo,
		Transfers:     transferRepo,
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
