package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"cargo-chatbot-be/internal/dto"
	"cargo-chatbot-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const escalationChannel = "escalation_events"

type Hub struct {
	// Registered agents map: AgentID -> List of Clients (multi-device)
	clients map[uuid.UUID][]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Lock for safe map access
	mu sync.RWMutex

	// Redis connection for cross-instance fanout
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
	// Start Redis subscriber if Redis is available
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.AgentID] = append(h.clients[client.AgentID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Agent connected", map[string]interface{}{"agent_id": client.AgentID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.AgentID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.AgentID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.AgentID]) == 0 {
					delete(h.clients, client.AgentID)
					h.logger.Info("Hub", "Agent fully disconnected", map[string]interface{}{"agent_id": client.AgentID})
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast pushes an escalation alert to ALL connected agents.
func (h *Hub) Broadcast(alert dto.EscalationAlert) {
	data, _ := json.Marshal(map[string]interface{}{
		"type": "escalation",
		"data": alert,
	})

	// With Redis the alert comes back through the subscription, which also
	// covers the local clients. Without Redis we deliver locally ourselves.
	if h.rdb == nil {
		h.broadcastLocal(data)
	}

	if h.rdb != nil {
		payload := map[string]interface{}{
			"message": json.RawMessage(data),
		}
		jsonPayload, _ := json.Marshal(payload)
		h.rdb.Publish(context.Background(), escalationChannel, jsonPayload)
	}
}

func (h *Hub) broadcastLocal(data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, clients := range h.clients {
		for _, client := range clients {
			select {
			case client.Send <- data:
			default:
				// The unregister path closes Send.
				h.logger.Warn("Hub", "Agent send buffer full, dropping message", map[string]interface{}{"agent_id": client.AgentID})
				go func(c *Client) { h.unregister <- c }(client)
			}
		}
	}
}

// AgentCount reports the number of distinct agents currently connected.
func (h *Hub) AgentCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) subscribeToRedis() {
	// All instances subscribe to the escalation channel and deliver to their
	// own connected agents.
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, escalationChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()

	for msg := range ch {
		var payload struct {
			Message json.RawMessage `json:"message"`
		}
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			log.Printf("Redis msg parse error: %v", err)
			continue
		}

		h.broadcastLocal(payload.Message)
	}
}
