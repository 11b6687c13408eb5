package main

import (
	"context"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/tu-usuario/logistica-pro/internal/application/deliveries"
	"github.com/tu-usuario/logistica-pro/internal/application/fleet"
	"github.com/tu-usuario/logistica-pro/internal/application/inventory"
	"github.com/tu-usuario/logistica-pro/internal/application/routes"
	"github.com/tu-usuario/logistica-pro/internal/application/usecase"
	infrapdf "github.com/tu-usuario/logistica-pro/internal/infrastructure/pdf"
	"github.com/tu-usuario/logistica-pro/internal/infrastructure/postgres"
	"github.com/tu-usuario/logistica-pro/internal/infrastructure/tracking"
	"github.com/tu-usuario/logistica-pro/internal/interfaces/http"
	"github.com/tu-usuario/logistica-pro/internal/jobs"
	"github.com/tu-usuario/logistica-pro/pkg/config"
	"github.com/tu-usuario/logistica-pro/pkg/logger"
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

	productRepo := postgres.NewProductRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	vehicleRepo := postgres.NewVehicleRepository(pool)
	routeRepo := postgres.NewRouteRepository(pool)
	deliveryRepo := postgres.NewDeliveryRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	txRunner := postgres.NewTxRunner(pool, cfg.DB)

	productUC := usecase.NewProductUseCase(productRepo, warehouseRepo)
	warehouseUC := usecase.NewWarehouseUseCase(warehouseRepo)
	userUC := usecase.NewUserUseCase(userRepo)
	registerMovementUC := inventory.NewRegisterMovementUseCase(txRunner, productRepo, userRepo, warehouseRepo)
	historyUC := inventory.NewHistoryUseCase(movementRepo, productRepo)
	fleetUC := fleet.NewUseCase(vehicleRepo, userRepo)
	routeUC := routes.NewUseCase(txRunner, routeRepo, vehicleRepo, userRepo, productRepo)

	// rng exclusivo de las entregas; las etiquetas viales tienen el suyo propio.
	// Compartir un rand.Rand entre componentes con mutex distintos sería una
	// carrera de datos.
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	names := tracking.NewLocationNames(time.Now().UnixNano())
	receipts := infrapdf.NewReceiptGenerator(productRepo, userRepo)
	deliveryUC := deliveries.NewUseCase(
		txRunner, deliveryRepo, vehicleRepo, userRepo, productRepo,
		names, receipts, rng,
	)

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
		Title:    "Logística Pro API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	http.Router(app, http.RouterDeps{
		ProductUC:        productUC,
		WarehouseUC:      warehouseUC,
		UserUC:           userUC,
		RegisterMovement: registerMovementUC,
		History:          historyUC,
		FleetUC:          fleetUC,
		RouteUC:          routeUC,
		DeliveryUC:       deliveryUC,
	})

	// El dominio no tiene timers: el rastreo simulado avanza solo cuando este
	// job (o un cliente) lo pide.
	var simulator *jobs.TrackingSimulatorJob
	if cfg.Simulator.Enabled {
		simulator = jobs.NewTrackingSimulatorJob(deliveryUC, cfg.Simulator.IntervalSeconds,
			log.WithComponent("simulador-rastreo"))
		if err := simulator.Start(); err != nil {
			log.Fatal().Err(err).Msg("iniciar simulador de rastreo")
		}
	}

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	if simulator != nil {
		simulator.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
