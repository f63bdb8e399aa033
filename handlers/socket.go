package handlers

import (
	"context"
	"log"

	"mystery-tiles/middleware"
	"mystery-tiles/services"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// wsConn adapts a websocket connection to services.Conn. Every frame is a text
// frame carrying one JSON envelope.
type wsConn struct {
	conn *websocket.Conn
}

func (w wsConn) Send(b []byte) error {
	return w.conn.WriteMessage(websocket.TextMessage, b)
}

func (w wsConn) Close() error {
	return w.conn.Close()
}

// GameSocket serves one game connection: frames are handled in arrival order
// and the session is torn down when the read loop ends. A panic outside frame
// handling is passed to onFault and re-raised.
func GameSocket(gameService *services.GameService, readLimit int64, onFault func(where string, r any)) fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		defer func() {
			if r := recover(); r != nil {
				if onFault != nil {
					onFault("game socket", r)
				}
				panic(r)
			}
		}()

		if readLimit > 0 {
			conn.SetReadLimit(readLimit)
		}

		client := gameService.Connect(wsConn{conn: conn})
		log.Printf("[WS] Client %s connected from %v", client.ID, conn.Locals(middleware.RemoteAddrLocalKey))
		defer gameService.Disconnect(client)

		ctx := context.Background()
		for {
			msgType, frame, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					log.Printf("[WS] ⚠️ Client %s read error: %v", client.ID, err)
				}
				return
			}
			if msgType != websocket.TextMessage {
				continue
			}
			gameService.HandleFrame(ctx, client, frame)
		}
	})
}
