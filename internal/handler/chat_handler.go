package handler

import (
	"tubemind-be/internal/pkg/logger"
	"tubemind-be/internal/pkg/serverutils"
	internalWS "tubemind-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// ChatHandler upgrades chat connections and hands them to the hub.
type ChatHandler struct {
	hub     *internalWS.Hub
	handler internalWS.MessageHandler
	logger  logger.ILogger
}

func NewChatHandler(hub *internalWS.Hub, handler internalWS.MessageHandler, log logger.ILogger) *ChatHandler {
	return &ChatHandler{
		hub:     hub,
		handler: handler,
		logger:  log,
	}
}

func (h *ChatHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/chat/v1/ws/:session_id", h.ServeWs)
}

// ServeWs handles websocket requests from the peer.
func (h *ChatHandler) ServeWs(c *fiber.Ctx) error {
	// Token source priority: query param (browser standard), then header.
	tokenStr := c.Query("token")
	if tokenStr == "" {
		authHeader := c.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		}
	}
	if tokenStr == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing token (Query 'token' or Header 'Authorization')"})
	}

	userIDStr, err := serverutils.ParseToken(tokenStr)
	if err != nil {
		h.logger.Warn("ChatHandler", "Invalid token in WS handshake", map[string]interface{}{"session_id": c.Params("session_id")})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID format in token"})
	}

	sessionID, err := uuid.Parse(c.Params("session_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session id"})
	}

	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			h.logger.Info("ChatHandler", "Starting chat session", map[string]interface{}{"session_id": sessionID, "user_id": userID})
			internalWS.ServeWs(h.hub, conn, sessionID, userID, h.handler)
			h.logger.Info("ChatHandler", "Chat session ended", map[string]interface{}{"session_id": sessionID})
		})(c)
	}
	return fiber.ErrUpgradeRequired
}
