// mystery-tiles/middleware/ws_upgrade.go
package middleware

import (
	"log"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

const RemoteAddrLocalKey = "remote_addr"

// WebSocketUpgradeMiddleware lets only websocket upgrade requests through to
// the game socket. The remote address is attached for connection logs.
//
// Usage:
//
//	app.Use("/ws", middleware.WebSocketUpgradeMiddleware())
func WebSocketUpgradeMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			log.Printf("[WS] ❌ Non-upgrade request to %s from %s", c.Path(), c.IP())
			return fiber.ErrUpgradeRequired
		}

		c.Locals(RemoteAddrLocalKey, c.IP())
		return c.Next()
	}
}
