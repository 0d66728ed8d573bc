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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "github.com/jhoicas/inventario-console/docs"
	"github.com/jhoicas/inventario-console/internal/application/access"
	"github.com/jhoicas/inventario-console/internal/application/auth"
	"github.com/jhoicas/inventario-console/internal/application/backup"
	"github.com/jhoicas/inventario-console/internal/application/usecase"
	"github.com/jhoicas/inventario-console/internal/application/workspace"
	"github.com/jhoicas/inventario-console/internal/domain/catalog"
	"github.com/jhoicas/inventario-console/internal/domain/category"
	"github.com/jhoicas/inventario-console/internal/infrastructure/report"
	"github.com/jhoicas/inventario-console/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/inventario-console/internal/interfaces/http"
	"github.com/jhoicas/inventario-console/pkg/config"
	"github.com/jhoicas/inventario-console/pkg/logger"
	"github.com/jhoicas/inventario-console/pkg/metrics"
)

// @title                       Inventario Console API
// @version                     1.0
// @description                 Consola de inventario: categorías jerárquicas, campos personalizados, productos y control de acceso por roles.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
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
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	policy, err := category.ParseDeletePolicy(cfg.Console.CategoryDeletePolicy)
	if err != nil {
		log.Fatal().Err(err).Msg("CATEGORY_DELETE_POLICY")
	}

	ctx := context.Background()
	backend, err := storage.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacenamiento")
	}
	defer backend.Close()

	m := metrics.New(prometheus.DefaultRegisterer)
	runner := workspace.NewTxRunner(backend.Store, workspace.Options{
		DeletePolicy:     policy,
		Thresholds:       catalog.Thresholds{LowMax: cfg.Console.StockLowMax},
		ActivityCapacity: cfg.Console.ActivityLogCapacity,
	}, log, m)
	if backend.Locker != nil {
		runner.UseLocker(backend.Locker)
	}

	empty, err := runner.Empty(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("consultar almacenamiento")
	}
	if empty {
		docs, err := workspace.Seed(runner.Options(), usecase.BcryptHash, cfg.Console.SeedSampleData)
		if err != nil {
			log.Fatal().Err(err).Msg("generar datos iniciales")
		}
		if err := runner.Initialize(ctx, docs); err != nil {
			log.Fatal().Err(err).Msg("escribir datos iniciales")
		}
		log.Info().Bool("sample", cfg.Console.SeedSampleData).Msg("almacenamiento vacío: datos iniciales escritos")
	} else if err := runner.Load(ctx); err != nil {
		log.Fatal().Err(err).Msg("cargar datos")
	}

	ac := access.NewController(runner, log, m)
	authUC := auth.NewAuthUseCase(runner, backend.Sessions, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log, m)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    16 * 1024 * 1024, // respaldos grandes
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Named("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Inventario Console API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": cfg.Store.Driver})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		CategoryUC:   usecase.NewCategoryUseCase(ac),
		FieldUC:      usecase.NewFieldUseCase(ac),
		ProductUC:    usecase.NewProductUseCase(ac),
		ReportUC:     usecase.NewReportUseCase(ac, report.NewGenerator()),
		UserUC:       usecase.NewUserUseCase(ac, usecase.BcryptHash),
		PermissionUC: usecase.NewPermissionUseCase(ac),
		SettingsUC:   usecase.NewSettingsUseCase(ac),
		ActivityUC:   usecase.NewActivityUseCase(ac),
		DashboardUC:  usecase.NewDashboardUseCase(ac),
		Backup:       backup.NewService(ac, runner),
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
