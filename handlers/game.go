// handlers/game.go
package handlers

import (
	"context"
	"log"
	"time"

	"mystery-tiles/middleware"
	"mystery-tiles/repository"
	"mystery-tiles/services"

	"github.com/gofiber/fiber/v2"
)

// Flusher is the store surface the admin routes need.
type Flusher interface {
	Flush(ctx context.Context) error
	Dirty() bool
}

type RouteConfig struct {
	AdminToken   string
	WSReadLimit  int64
	FlushTimeout time.Duration
	// OnFault runs before a panic in a socket goroutine is re-raised.
	OnFault func(where string, r any)
}

func SetupGameRoutes(app *fiber.App, gameService *services.GameService, store Flusher, cfg RouteConfig) {
	// 🔓 Public read-only routes
	app.Get("/healthz", func(c *fiber.Ctx) error {
		stats := gameService.Stats()
		return c.JSON(fiber.Map{
			"status":      "ok",
			"dirty":       store.Dirty(),
			"connections": stats.Connections,
			"sessions":    stats.Sessions,
		})
	})
	app.Get("/tiles", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"tiles": gameService.PublicTiles()})
	})
	app.Get("/leaderboard", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"leaderBoard": gameService.Leaderboard()})
	})

	// 🎮 Game socket
	app.Use("/ws", middleware.WebSocketUpgradeMiddleware())
	app.Get("/ws", GameSocket(gameService, cfg.WSReadLimit, cfg.OnFault))

	// 🔐 Operator routes
	admin := app.Group("/admin", middleware.AdminTokenMiddleware(cfg.AdminToken))
	admin.Post("/flush", func(c *fiber.Ctx) error {
		timeout := cfg.FlushTimeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()

		if err := store.Flush(ctx); err != nil {
			log.Printf("❌ [ADMIN] Manual flush failed: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		log.Println("💾 [ADMIN] Manual flush completed")
		return c.JSON(fiber.Map{"flushed": true})
	})
}

// compile-time check that the store satisfies the admin routes.
var _ Flusher = (*repository.Store)(nil)
