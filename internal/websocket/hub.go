package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"ai-assistant-be/internal/pkg/logger"
)

// clusterChannel is the Redis pub/sub channel used to fan events out to
// other instances. target_user_id "*" means broadcast.
const clusterChannel = "cluster_events"

// Hub fans assistant lifecycle events out to connected clients. A user may
// hold several connections (multi-device), so the map value is a slice.
type Hub struct {
	clients map[uuid.UUID][]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	// rdb is optional; nil means single-instance mode with no cross-node
	// fan-out.
	rdb *redis.Client

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
		go h.subscribeToCluster()
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
				}
			}
			h.mu.Unlock()
		}
	}
}

// Send delivers one event payload to every connection of a user, locally and
// via Redis for connections held by other instances.
func (h *Hub) Send(userID uuid.UUID, eventType string, data map[string]interface{}) {
	payload, err := json.Marshal(map[string]interface{}{
		"type": eventType,
		"data": data,
	})
	if err != nil {
		h.logger.Error("Hub", "Failed to marshal event payload", map[string]interface{}{
			"event": eventType,
			"error": err.Error(),
		})
		return
	}

	h.deliverLocal(userID, payload)
	h.publishToCluster(userID.String(), payload)
}

// Broadcast delivers an event payload to every connected client.
func (h *Hub) Broadcast(eventType string, data map[string]interface{}) {
	payload, err := json.Marshal(map[string]interface{}{
		"type": eventType,
		"data": data,
	})
	if err != nil {
		return
	}

	h.mu.RLock()
	for _, clients := range h.clients {
		for _, client := range clients {
			h.trySend(client, payload)
		}
	}
	h.mu.RUnlock()

	h.publishToCluster("*", payload)
}

func (h *Hub) deliverLocal(userID uuid.UUID, payload []byte) {
	h.mu.RLock()
	clients, ok := h.clients[userID]
	h.mu.RUnlock()
	if !ok {
		return
	}
	for _, client := range clients {
		h.trySend(client, payload)
	}
}

// trySend drops the connection instead of blocking when its buffer is full.
func (h *Hub) trySend(client *Client, payload []byte) {
	select {
	case client.Send <- payload:
	default:
		h.logger.Warn("Hub", "Client send buffer full, dropping connection", map[string]interface{}{
			"user_id": client.UserID,
		})
		close(client.Send)
		h.unregister <- client
	}
}

func (h *Hub) publishToCluster(targetUserID string, payload []byte) {
	if h.rdb == nil {
		return
	}
	envelope, _ := json.Marshal(map[string]interface{}{
		"target_user_id": targetUserID,
		"message":        json.RawMessage(payload),
	})
	if err := h.rdb.Publish(context.Background(), clusterChannel, envelope).Err(); err != nil {
		h.logger.Warn("Hub", "Cluster publish failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// subscribeToCluster receives envelopes published by other instances and
// delivers the ones whose target user is connected here.
func (h *Hub) subscribeToCluster() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var envelope struct {
			TargetUserID string          `json:"target_user_id"`
			Message      json.RawMessage `json:"message"`
		}
		if err := json.Unmarshal([]byte(msg.Payload), &envelope); err != nil {
			h.logger.Warn("Hub", "Malformed cluster envelope", map[string]interface{}{
				"error": err.Error(),
			})
			continue
		}

		if envelope.TargetUserID == "*" {
			h.mu.RLock()
			for _, clients := range h.clients {
				for _, client := range clients {
					h.trySend(client, envelope.Message)
				}
			}
			h.mu.RUnlock()
			continue
		}

		uid, err := uuid.Parse(envelope.TargetUserID)
		if err != nil {
			continue
		}
		h.deliverLocal(uid, envelope.Message)
	}
}
