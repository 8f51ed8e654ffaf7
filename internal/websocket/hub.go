package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"auraflux-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const clusterChannel = "cluster_events"

// PushMessage is the client-facing envelope for every realtime push. The
// status field carries the stream lifecycle (RUNNING/COMPLETE) for dialogue
// fragments and success/error for everything else.
type PushMessage struct {
	EventType string      `json:"event_type"`
	Status    string      `json:"status"`
	Payload   interface{} `json:"payload"`
}

type Hub struct {
	// Registered clients map: UserID -> List of Clients (multi-device)
	clients map[uuid.UUID][]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Lock for safe map access
	mu sync.RWMutex

	// Redis connection for cross-instance relay. Nil in single-instance mode.
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
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"user_id": client.UserID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.UserID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.UserID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.UserID]) == 0 {
					delete(h.clients, client.UserID)
					h.logger.Info("Hub", "Client completely unregistered", map[string]interface{}{"user_id": client.UserID})
				}
			}
			h.mu.Unlock()
		}
	}
}

// Push delivers an envelope to every device of one user, locally and via
// the Redis relay for other instances.
func (h *Hub) Push(userID uuid.UUID, eventType, status string, payload interface{}) {
	data, err := json.Marshal(PushMessage{
		EventType: eventType,
		Status:    status,
		Payload:   payload,
	})
	if err != nil {
		h.logger.Error("Hub", "Failed to marshal push message", map[string]interface{}{
			"user_id":    userID,
			"event_type": eventType,
			"error":      err.Error(),
		})
		return
	}

	h.sendLocal(userID, data)

	if h.rdb != nil {
		relay := map[string]interface{}{
			"target_user_id": userID.String(),
			"message":        json.RawMessage(data),
		}
		jsonPayload, _ := json.Marshal(relay)
		h.rdb.Publish(context.Background(), clusterChannel, jsonPayload)
	}
}

// Broadcast delivers an envelope to ALL connected clients.
func (h *Hub) Broadcast(eventType, status string, payload interface{}) {
	data, err := json.Marshal(PushMessage{
		EventType: eventType,
		Status:    status,
		Payload:   payload,
	})
	if err != nil {
		return
	}

	h.mu.RLock()
	for _, clients := range h.clients {
		for _, client := range clients {
			h.deliver(client, data)
		}
	}
	h.mu.RUnlock()

	if h.rdb != nil {
		relay := map[string]interface{}{
			"target_user_id": "*",
			"message":        json.RawMessage(data),
		}
		jsonPayload, _ := json.Marshal(relay)
		h.rdb.Publish(context.Background(), clusterChannel, jsonPayload)
	}
}

func (h *Hub) sendLocal(userID uuid.UUID, data []byte) {
	h.mu.RLock()
	clients, ok := h.clients[userID]
	h.mu.RUnlock()
	if !ok {
		return
	}
	for _, client := range clients {
		h.deliver(client, data)
	}
}

func (h *Hub) deliver(client *Client, data []byte) {
	select {
	case client.Send <- data:
	default:
		h.logger.Warn("Hub", "Client Send buffer full, dropping connection", map[string]interface{}{"user_id": client.UserID})
		h.unregister <- client
	}
}

// subscribeToRedis relays envelopes published by other instances to the
// clients connected here. Every instance subscribes to the same channel and
// filters by target user.
func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()

	for msg := range ch {
		var payload struct {
			TargetUserID string          `json:"target_user_id"`
			Message      json.RawMessage `json:"message"`
		}
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			log.Printf("Redis msg parse error: %v", err)
			continue
		}

		if payload.TargetUserID == "*" {
			h.mu.RLock()
			for _, clients := range h.clients {
				for _, client := range clients {
					h.deliver(client, payload.Message)
				}
			}
			h.mu.RUnlock()
			continue
		}

		uid, err := uuid.Parse(payload.TargetUserID)
		if err != nil {
			continue
		}
		h.sendLocal(uid, payload.Message)
	}
}
