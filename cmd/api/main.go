package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/dryfruits/inventory-api/internal/application/inventory"
	"github.com/dryfruits/inventory-api/internal/domain/repository"
	"github.com/dryfruits/inventory-api/internal/infrastructure/memory"
	infranats "github.com/dryfruits/inventory-api/internal/infrastructure/nats"
	"github.com/dryfruits/inventory-api/internal/infrastructure/postgres"
	httpRouter "github.com/dryfruits/inventory-api/internal/interfaces/http"
	"github.com/dryfruits/inventory-api/pkg/config"
	"github.com/dryfruits/inventory-api/pkg/logger"
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

	// Almacenamiento: PostgreSQL si hay configuración de DB; si no, el store
	// en memoria (desarrollo local sin base de datos).
	var (
		records   repository.StockRecordRepository
		movements repository.StockMovementRepository
		txRunner  inventory.TxRunner
	)
	if cfg.DB.DatabaseURL != "" || cfg.App.Env != "development" {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		records = postgres.NewStockRecordRepository(pool)
		movements = postgres.NewStockMovementRepository(pool)
		txRunner = postgres.NewTxRunner(pool, cfg.Lock.Timeout)
	} else {
		store := memory.NewStore(cfg.Lock.Timeout)
		records = store
		movements = store.Movements()
		txRunner = memory.NewTxRunner(store)
		log.Warn().Msg("usando almacenamiento en memoria (sin PostgreSQL)")
	}

	// Eventos de stock: NATS si está configurado, si no publicador nulo.
	var events inventory.EventPublisher = inventory.NopEventPublisher{}
	if cfg.NATS.URL != "" {
		pub, err := infranats.Connect(cfg.NATS.URL, cfg.NATS.Subject, log)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a NATS")
		}
		defer pub.Close()
		events = pub
	}

	lifecycleUC := inventory.NewLifecycleUseCase(records, movements, txRunner, events, log)
	reservationUC := inventory.NewReservationUseCase(txRunner, events, log)
	reportingUC := inventory.NewReportingUseCase(records)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Lifecycle:   lifecycleUC,
		Reservation: reservationUC,
		Reporting:   reportingUC,
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
