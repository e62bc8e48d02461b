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

	"github.com/jhoicas/tenders-api/internal/application/access"
	"github.com/jhoicas/tenders-api/internal/application/audit"
	"github.com/jhoicas/tenders-api/internal/application/auth"
	"github.com/jhoicas/tenders-api/internal/application/lifecycle"
	"github.com/jhoicas/tenders-api/internal/application/usecase"
	"github.com/jhoicas/tenders-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/tenders-api/internal/interfaces/http"
	"github.com/jhoicas/tenders-api/pkg/config"
	"github.com/jhoicas/tenders-api/pkg/logger"
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

	if err := postgres.RunMigrations(ctx, cfg.DB.ConnectionString()); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	// Repositorios atados al pool (las escrituras transaccionales usan TxRunner)
	tenantRepo := postgres.NewTenantRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	tenderRepo := postgres.NewTenderRepository(pool)
	assignmentRepo := postgres.NewAssignmentRepository(pool)
	transitionRepo := postgres.NewTransitionRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	recorder := audit.NewLogRecorder(log.Zerolog(), cfg.Audit.BufferSize)
	defer recorder.Close()

	accessFacade := access.NewFacade(tenderRepo, userRepo, assignmentRepo, txRunner, recorder)
	engine := lifecycle.NewEngine(accessFacade, transitionRepo, txRunner, recorder)
	tenderUC := usecase.NewTenderUseCase(accessFacade, tenderRepo, txRunner, recorder)
	authUC := auth.NewAuthUseCase(userRepo, tenantRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

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
		Title:    "Tenders API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthHandler:       httpRouter.NewAuthHandler(authUC),
		TenderHandler:     httpRouter.NewTenderHandler(tenderUC),
		AssignmentHandler: httpRouter.NewAssignmentHandler(accessFacade),
		LifecycleHandler:  httpRouter.NewLifecycleHandler(engine),
		JWTSecret:         cfg.JWT.Secret,
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
