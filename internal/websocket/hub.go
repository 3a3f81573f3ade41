package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"tubemind-be/internal/dto"
	"tubemind-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const relayChannel = "chat_events"

// Hub tracks live chat connections keyed by session, so every device
// watching a session sees the same thought and result stream. Redis relays
// events between instances when the socket and the worker land on
// different nodes.
type Hub struct {
	// Registered clients map: SessionID -> List of Clients (multi-device)
	clients map[uuid.UUID][]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Lock for safe map access
	mu sync.RWMutex

	// Redis connection for cross-instance communication
	rdb *redis.Client

	// Dedicated Logger
	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[uuid.UUID][]*Client),
		rdb:        rdb,
		logger:     log,
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.SessionID] = append(h.clients[client.SessionID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"session_id": client.SessionID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.SessionID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.SessionID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.SessionID]) == 0 {
					delete(h.clients, client.SessionID)
					h.logger.Info("Hub", "Session fully disconnected", map[string]interface{}{"session_id": client.SessionID})
				}
			}
			h.mu.Unlock()
		}
	}
}

// Send delivers one event to every client on a session. With Redis
// configured the event goes through the relay channel so every instance,
// including this one, delivers exactly once.
func (h *Hub) Send(sessionID uuid.UUID, event dto.WsEvent) {
	data, _ := json.Marshal(event)

	if h.rdb != nil {
		payload, _ := json.Marshal(map[string]interface{}{
			"target_session_id": sessionID.String(),
			"message":           json.RawMessage(data),
		})
		err := h.rdb.Publish(context.Background(), relayChannel, payload).Err()
		if err == nil {
			return
		}
		// The relay is down; local clients still get their frames.
		h.logger.Warn("Hub", "Redis publish failed, delivering locally", map[string]interface{}{
			"session_id": sessionID, "error": err.Error(),
		})
	}

	h.deliverLocal(sessionID, data)
}

func (h *Hub) deliverLocal(sessionID uuid.UUID, data []byte) {
	h.mu.RLock()
	clients, ok := h.clients[sessionID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	for _, client := range clients {
		select {
		case client.Send <- data:
		default:
			// Run owns the channel close; just hand the client back.
			h.logger.Warn("Hub", "Client Send buffer full, dropping connection", map[string]interface{}{"session_id": sessionID})
			h.unregister <- client
		}
	}
}

func (h *Hub) subscribeToRedis() {
	// Every instance subscribes to the relay channel and delivers to the
	// sessions it holds locally.
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, relayChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var payload struct {
			TargetSessionID string          `json:"target_session_id"`
			Message         json.RawMessage `json:"message"`
		}
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			log.Printf("Redis msg parse error: %v", err)
			continue
		}

		sid, err := uuid.Parse(payload.TargetSessionID)
		if err != nil {
			continue
		}
		h.deliverLocal(sid, payload.Message)
	}
}
