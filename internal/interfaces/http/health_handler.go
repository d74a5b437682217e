package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Pinger cualquier dependencia que se pueda sondear (almacén de registros).
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler expone /health (proceso) y /health/ready (almacén).
type HealthHandler struct {
	store   Pinger
	timeout time.Duration
}

// NewHealthHandler construye el handler.
func NewHealthHandler(store Pinger) *HealthHandler {
	return &HealthHandler{store: store, timeout: 3 * time.Second}
}

// Live godoc
// @Summary  Estado del proceso
// @Tags     health
// @Produce  json
// @Success  200  {object}  map[string]string
// @Router   /health [get]
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Ready godoc
// @Summary  Disponibilidad del almacén
// @Tags     health
// @Produce  json
// @Success  200  {object}  map[string]string
// @Failure  503  {object}  map[string]string
// @Router   /health/ready [get]
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	if h.store == nil {
		return c.JSON(fiber.Map{"status": "ok"})
	}
	ctx, cancel := context.WithTimeout(c.UserContext(), h.timeout)
	defer cancel()
	if err := h.store.Ping(ctx); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable", "error": err.Error()})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
