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
	"golang.org/x/text/language"

	"github.com/jhoicas/hospedagem-api/docs"
	appcontract "github.com/jhoicas/hospedagem-api/internal/application/contract"
	"github.com/jhoicas/hospedagem-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/hospedagem-api/internal/infrastructure/pdf"
	"github.com/jhoicas/hospedagem-api/internal/infrastructure/postgres"
	"github.com/jhoicas/hospedagem-api/internal/infrastructure/postgres/migrations"
	httpRouter "github.com/jhoicas/hospedagem-api/internal/interfaces/http"
	"github.com/jhoicas/hospedagem-api/pkg/config"
	"github.com/jhoicas/hospedagem-api/pkg/logger"
)

// @title                       Hospedagem API
// @version                     1.0
// @description                 Ciclo de vida y precio de contratos de hospedagem de pets.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
// @description                 Token JWT con el prefijo Bearer.
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
		Str("timezone", cfg.App.Timezone).
		Msg("iniciando aplicación")

	loc, err := cfg.App.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("zona horaria")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.MigrateOnStart {
		m, err := migrations.New(postgres.OpenDB(pool))
		if err != nil {
			log.Fatal().Err(err).Msg("inicializar migraciones")
		}
		if err := m.Up(); err != nil {
			log.Fatal().Err(err).Msg("aplicar migraciones")
		}
		v, _, _ := m.Version()
		log.Info().Uint("version", v).Msg("migraciones aplicadas")
	}

	recorder := metrics.NewRecorder(cfg.App.Name)
	opts := appcontract.Options{
		Location:         loc,
		StatementTimeout: cfg.Contract.StatementTimeout,
		Recorder:         recorder,
	}
	txRunner := postgres.NewTxRunner(pool, cfg.Contract.StatementTimeout)

	lang, err := language.Parse(cfg.App.Locale)
	if err != nil {
		log.Warn().Err(err).Str("locale", cfg.App.Locale).Msg("locale inválido, usando pt-BR")
		lang = language.BrazilianPortuguese
	}
	statements := infrapdf.NewStatementGenerator(lang, "R$")

	contractUC := appcontract.NewContractUseCase(txRunner, statements, opts)
	compositionUC := appcontract.NewCompositionUseCase(txRunner, opts)
	statusUC := appcontract.NewStatusUseCase(txRunner, opts)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: cfg.Contract.StatementTimeout + 5*time.Second,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI: http://localhost:<port>/docs
	if swaggerFile := cfg.HTTP.SwaggerFile; swaggerFile != "" {
		if _, err := os.Stat(swaggerFile); err != nil {
			log.Warn().Err(err).Str("file", swaggerFile).Msg("swagger deshabilitado")
		} else {
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: swaggerFile,
				Path:     "docs",
				Title:    docs.SwaggerInfo.Title,
			}))
		}
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	deps := httpRouter.RouterDeps{
		Contracts:   contractUC,
		Composition: compositionUC,
		Status:      statusUC,
		JWTSecret:   cfg.JWT.Secret,
	}
	if cfg.Metrics.Enabled {
		deps.Metrics = recorder.Handler()
	}
	httpRouter.Router(app, deps)

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
