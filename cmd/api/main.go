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

	"github.com/jhoicas/Gudang-api/docs"
	"github.com/jhoicas/Gudang-api/internal/application/usecase"
	"github.com/jhoicas/Gudang-api/internal/application/validation"
	"github.com/jhoicas/Gudang-api/internal/domain/entity"
	infrapdf "github.com/jhoicas/Gudang-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Gudang-api/internal/infrastructure/store"
	httpRouter "github.com/jhoicas/Gudang-api/internal/interfaces/http"
	"github.com/jhoicas/Gudang-api/pkg/config"
	"github.com/jhoicas/Gudang-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

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

	ctx := context.Background()
	factory, closeStore, err := store.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("store", cfg.Store.Driver).Msg("abrir almacén")
	}
	defer closeStore()

	validator := validation.New()
	paginator := usecase.NewPaginator(cfg.Pagination.DefaultLimit, cfg.Pagination.MaxLimit, validator.Engine())
	reports := infrapdf.NewRegisterGenerator(cfg.App.Name)

	var records []*usecase.RecordUseCase
	for _, schema := range entity.Schemas() {
		repo, err := factory(schema)
		if err != nil {
			log.Fatal().Err(err).Str("resource", schema.Collection).Msg("inicializar repositorio")
		}
		records = append(records, usecase.NewRecordUseCase(usecase.RecordUseCaseConfig{
			Schema:       schema,
			Repo:         repo,
			Validator:    validator,
			Paginator:    paginator,
			Reports:      reports,
			StoreTimeout: cfg.Store.Timeout,
		}))
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	docs.SwaggerInfo.Host = cfg.HTTP.Addr()
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    docs.SwaggerInfo.Title,
		}))
	} else {
		log.Warn().Str("file", swaggerFile).Msg("swagger.json no encontrado; /docs deshabilitado")
	}

	if cfg.JWT.Secret == "" {
		log.Warn().Msg("JWT_SECRET vacío: /api sin autenticación")
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		Records:   records,
		Metrics:   httpRouter.NewMetrics("gudang"),
		Logger:    log,
		JWTSecret: cfg.JWT.Secret,
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
