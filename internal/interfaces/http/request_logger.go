package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/hospedagem-api/pkg/logger"
)

// RequestLogger registra método, ruta, status y latencia de cada petición.
func RequestLogger(l *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		started := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		ev := l.Info()
		if err != nil || status >= fiber.StatusInternalServerError {
			ev = l.Error().Err(err)
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(started)).
			Str("user_id", GetUserID(c)).
			Msg("http request")
		return err
	}
}
