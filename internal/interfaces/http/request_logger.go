package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/compras-api/pkg/logger"
)

// RequestLogger registra cada petición: método, ruta, status, latencia y empresa del llamador.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status, _ = errorResponse(err)
		}
		ev := log.Info()
		switch {
		case status >= fiber.StatusInternalServerError:
			ev = log.Error()
		case status >= fiber.StatusBadRequest:
			ev = log.Warn()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("company_id", GetCompanyID(c)).
			Msg("request")
		return err
	}
}
