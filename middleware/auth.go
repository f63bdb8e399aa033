// mystery-tiles/middleware/auth.go
package middleware

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
)

// RequestLogMiddleware logs every REST request with its status and latency.
// Websocket frames are logged by the game service, not here.
func RequestLogMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		started := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		log.Printf("🌐 [HTTP] %s %s -> %d (%s)", c.Method(), c.Path(), status, time.Since(started).Round(time.Microsecond))
		return err
	}
}
