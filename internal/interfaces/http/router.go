package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Gudang-api/internal/application/usecase"
	"github.com/jhoicas/Gudang-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Records   []*usecase.RecordUseCase // uno por recurso (ins, outs, retur-gudangs, retur-pabriks)
	Store     Pinger                   // para /health/ready; por defecto el primer recurso
	Metrics   *Metrics                 // opcional
	Logger    *logger.Logger
	JWTSecret string // vacío = /api sin autenticación
}

// Router registra middlewares y rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}

	app.Use(RequestID())
	if deps.Metrics != nil {
		app.Use(deps.Metrics.Middleware())
		app.Get("/metrics", deps.Metrics.Handler())
	}
	app.Use(AccessLog(log, "/health", "/health/ready", "/metrics"))

	store := deps.Store
	if store == nil && len(deps.Records) > 0 {
		store = deps.Records[0]
	}
	health := NewHealthHandler(store)
	app.Get("/health", health.Live)
	app.Get("/health/ready", health.Ready)

	api := app.Group("/api")
	if deps.JWTSecret != "" {
		api = app.Group("/api", AuthMiddleware(deps.JWTSecret), RequireRole(RoleAdmin, RoleOperator))
	}

	for _, uc := range deps.Records {
		path := uc.Schema().Path
		h := NewRecordHandler(uc, log)
		api.Get(path, h.List)
		api.Post(path, h.Create)
		api.Put(path, h.Update)
		api.Delete(path, h.Delete)
		api.Get(path+"/report.pdf", h.Report)
	}
}
