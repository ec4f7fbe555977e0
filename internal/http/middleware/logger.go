package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"userfeed/internal/logging"
)

// Logger logs request_id, method, path, status and latency (ms) for each request.
func Logger(base *logging.Logger) fiber.Handler {
	log := base.With("http")

	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		rid, _ := c.Locals(RequestIDLocalKey).(string)
		status := c.Response().StatusCode()
		level := logging.LevelInfo
		if status >= fiber.StatusInternalServerError {
			level = logging.LevelError
		}

		log.Log(level, "http_request", logging.Fields{
			"request_id": rid,
			"method":     c.Method(),
			"path":       c.Path(),
			"status":     status,
			"latency":    float64(time.Since(start).Microseconds()) / 1000,
		})

		return err
	}
}
