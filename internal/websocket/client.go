package websocket

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"tubemind-be/internal/dto"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
)

// MessageHandler processes one inbound chat turn. Implementations emit
// thought and result events through the hub; Handle returns when the turn
// is fully answered so turns on one socket stay ordered.
type MessageHandler interface {
	Handle(ctx context.Context, sessionID, userID uuid.UUID, inbound dto.ChatInbound)
}

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	Hub *Hub

	// The websocket connection.
	Conn *websocket.Conn

	// SessionID this connection is attached to
	SessionID uuid.UUID

	// UserID associated with this connection
	UserID uuid.UUID

	// Buffered channel of outbound messages.
	Send chan []byte

	handler MessageHandler

	// ctx is cancelled when the connection dies, so an in-flight turn can
	// abandon its work instead of persisting for a client that left.
	ctx    context.Context
	cancel context.CancelFunc
}

// readPump pumps inbound chat turns from the websocket connection into the
// message handler, one at a time.
func (c *Client) readPump() {
	defer func() {
		c.cancel()
		c.Hub.unregister <- c
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("readPump error for session %s: %v", c.SessionID, err)
			}
			break
		}

		var inbound dto.ChatInbound
		if err := json.Unmarshal(raw, &inbound); err != nil || inbound.Message == "" {
			c.Hub.Send(c.SessionID, dto.WsEvent{Type: dto.WsEventError, Data: "invalid message payload"})
			continue
		}

		// A new turn only starts once the previous one finished.
		c.handler.Handle(c.ctx, c.SessionID, c.UserID, inbound)
	}
}

// writePump pumps messages from the hub to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	// A write or ping failure is the disconnect signal while readPump is
	// busy inside a turn, so the cancel lives here too.
	defer func() {
		ticker.Stop()
		c.cancel()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
