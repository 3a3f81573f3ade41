package websocket

import (
	"context"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// ServeWs attaches an upgraded connection to a chat session and blocks until
// the peer disconnects.
func ServeWs(hub *Hub, c *websocket.Conn, sessionID, userID uuid.UUID, handler MessageHandler) {
	ctx, cancel := context.WithCancel(context.Background())
	client := &Client{
		Hub:       hub,
		Conn:      c,
		SessionID: sessionID,
		UserID:    userID,
		Send:      make(chan []byte, 256),
		handler:   handler,
		ctx:       ctx,
		cancel:    cancel,
	}
	client.Hub.register <- client

	go client.writePump()
	client.readPump() // Run readPump in current goroutine (handler)
}
