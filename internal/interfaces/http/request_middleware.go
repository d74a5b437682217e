package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/Gudang-api/pkg/logger"
)

// HeaderRequestID cabecera con el id de la petición.
const HeaderRequestID = "X-Request-ID"

// LocalRequestID key en c.Locals para el id de la petición.
const LocalRequestID = "request_id"

// RequestID propaga X-Request-ID o genera uno nuevo, y lo devuelve en la respuesta.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(HeaderRequestID)
		if id == "" {
			id = uuid.New().String()
		}
		c.Locals(LocalRequestID, id)
		c.Set(HeaderRequestID, id)
		return c.Next()
	}
}

// RequestIDFrom devuelve el id de la petición (después de RequestID).
func RequestIDFrom(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalRequestID).(string)
	return s
}

// AccessLog registra cada petición con su ruta, estado y latencia.
// El nivel depende del estado: 5xx error, 4xx warn, resto info.
func AccessLog(log *logger.Logger, skip ...string) fiber.Handler {
	skipMap := make(map[string]bool, len(skip))
	for _, p := range skip {
		skipMap[p] = true
	}
	return func(c *fiber.Ctx) error {
		if skipMap[c.Path()] {
			return c.Next()
		}
		start := time.Now()
		err := c.Next()
		if err != nil {
			// deja que el ErrorHandler fije el estado antes de registrar
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		status := c.Response().StatusCode()

		ev := log.Info()
		switch {
		case status >= 500:
			ev = log.Error()
		case status >= 400:
			ev = log.Warn()
		}
		ev.Str("request_id", RequestIDFrom(c)).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("route", routePattern(c)).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("ip", c.IP()).
			Msg("HTTP request")
		return nil
	}
}

// routePattern devuelve el patrón de la ruta (no la URL concreta) para no disparar la cardinalidad.
func routePattern(c *fiber.Ctx) string {
	if r := c.Route(); r != nil && r.Path != "" && r.Path != "/" {
		return r.Path
	}
	return "unmatched"
}
