package handlers

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/events"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/middleware"
	"go.uber.org/zap"
)

type messageWriter interface {
	WriteMessage(messageType int, data []byte) error
}

// wsClient serializes writes; a websocket connection allows one writer.
type wsClient struct {
	mu   sync.Mutex
	conn messageWriter
}

func (c *wsClient) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// WSHub pushes user notifications to the live connections of their target
// user.
type WSHub struct {
	authn      middleware.Authenticator
	subscriber events.Subscriber
	log        *zap.Logger
	mu         sync.RWMutex
	clients    map[uuid.UUID][]*wsClient
}

func NewWSHub(authn middleware.Authenticator, subscriber events.Subscriber, log *zap.Logger) *WSHub {
	return &WSHub{
		authn:      authn,
		subscriber: subscriber,
		log:        log,
		clients:    make(map[uuid.UUID][]*wsClient),
	}
}

// Start subscribes to user notifications until ctx is done.
func (h *WSHub) Start(ctx context.Context) {
	err := h.subscriber.Subscribe(ctx, events.ChannelNotifications, h.dispatch)
	if err != nil && ctx.Err() == nil {
		h.log.Error("ws subscription stopped", zap.Error(err))
	}
}

func (h *WSHub) dispatch(event events.Event) {
	raw, _ := event.Payload["user_id"].(string)
	userID, err := uuid.Parse(raw)
	if err != nil {
		h.log.Warn("notification without target user", zap.String("type", event.Type))
		return
	}
	h.SendToUser(userID, event)
}

func (h *WSHub) SendToUser(userID uuid.UUID, event events.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	h.mu.RLock()
	clients := append([]*wsClient(nil), h.clients[userID]...)
	h.mu.RUnlock()

	for _, c := range clients {
		if err := c.write(data); err != nil {
			h.log.Debug("ws write failed", zap.String("user_id", userID.String()), zap.Error(err))
		}
	}
}

func (h *WSHub) register(userID uuid.UUID, c *wsClient) {
	h.mu.Lock()
	h.clients[userID] = append(h.clients[userID], c)
	h.mu.Unlock()
}

func (h *WSHub) unregister(userID uuid.UUID, c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	clients := h.clients[userID]
	for i, existing := range clients {
		if existing == c {
			h.clients[userID] = append(clients[:i], clients[i+1:]...)
			break
		}
	}
	if len(h.clients[userID]) == 0 {
		delete(h.clients, userID)
	}
}

// Connections returns the number of open connections for userID.
func (h *WSHub) Connections(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// WSUpgradeMiddleware rejects plain HTTP requests to the websocket route.
func WSUpgradeMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}
}

// HandleWS authenticates the access token passed as ?token= and keeps the
// connection registered until the client goes away.
func (h *WSHub) HandleWS(conn *websocket.Conn) {
	token := conn.Query("token")
	if token == "" {
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"missing token"}`))
		_ = conn.Close()
		return
	}

	user, err := h.authn.Authenticate(context.Background(), token)
	if err != nil {
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"invalid token"}`))
		_ = conn.Close()
		return
	}

	client := &wsClient{conn: conn}
	h.register(user.ID, client)
	defer func() {
		h.unregister(user.ID, client)
		_ = conn.Close()
	}()

	// read loop, only to notice the close
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
