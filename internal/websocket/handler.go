package websocket

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/404-t/lotobot-backend/internal/pkg/logger"
	"github.com/404-t/lotobot-backend/internal/service"
)

// UpgradeMiddleware rejects plain HTTP requests on websocket routes.
func UpgradeMiddleware(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// ChatHandler returns the websocket handler for the chat endpoint. Each
// connection gets its own session with a fresh id.
func ChatHandler(chat service.IChatService, log logger.ILogger) fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		NewSession(conn, chat, log).Run()
	})
}
