package middleware

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// RecoverMiddleware turns a panicking REST handler into a 500 and logs the stack.
func RecoverMiddleware() fiber.Handler {
	return recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
			log.Printf("❌ [HTTP] Panic in %s %s: %v", c.Method(), c.Path(), e)
		},
	})
}
