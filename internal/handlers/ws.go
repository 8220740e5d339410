package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/Lanszs/QuickDART/internal/memdb"
	"github.com/Lanszs/QuickDART/internal/models"
	"github.com/Lanszs/QuickDART/internal/types"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
)

// wsClient serializes writes; the ping goroutine, broadcasts, and the
// welcome message all write to the same connection.
type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsClient) writeJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteJSON(v)
}

func (c *wsClient) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.PingMessage, nil)
}

var (
	allClients  = make(map[*wsClient]bool)
	roomClients = make(map[string]map[*wsClient]bool)
	clientsMu   sync.RWMutex
)

func registerClient(c *wsClient) {
	clientsMu.Lock()
	allClients[c] = true
	clientsMu.Unlock()
}

func unregisterClient(c *wsClient) {
	clientsMu.Lock()
	delete(allClients, c)
	for room, clients := range roomClients {
		delete(clients, c)
		if len(clients) == 0 {
			delete(roomClients, room)
		}
	}
	clientsMu.Unlock()
}

func joinRoom(c *wsClient, room string) {
	clientsMu.Lock()
	if roomClients[room] == nil {
		roomClients[room] = make(map[*wsClient]bool)
	}
	roomClients[room][c] = true
	clientsMu.Unlock()
}

// BroadcastEvent sends an envelope to every connected client. Report and
// resource events are global; room scoping only applies to chat.
func BroadcastEvent(event string, data interface{}) {
	clientsMu.RLock()
	clients := make([]*wsClient, 0, len(allClients))
	for c := range allClients {
		clients = append(clients, c)
	}
	clientsMu.RUnlock()

	broadcast(clients, event, data)
}

// BroadcastToRoom sends an envelope to the clients subscribed to one room.
func BroadcastToRoom(room, event string, data interface{}) {
	clientsMu.RLock()
	members, exists := roomClients[room]
	if !exists || len(members) == 0 {
		clientsMu.RUnlock()
		return
	}
	clients := make([]*wsClient, 0, len(members))
	for c := range members {
		clients = append(clients, c)
	}
	clientsMu.RUnlock()

	broadcast(clients, event, data)
}

func broadcast(clients []*wsClient, event string, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", event, err)
		return
	}
	envelope := types.Envelope{Event: event, Data: payload}

	for _, c := range clients {
		if err := c.writeJSON(envelope); err != nil {
			log.Printf("Failed to broadcast %s to client: %v", event, err)
			unregisterClient(c)
			c.conn.Close()
		}
	}
}

func WebSocket(c *gin.Context) {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			for _, allowed := range types.AllowedOrigins {
				if origin == allowed {
					return true
				}
			}
			return false
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := &wsClient{conn: conn}
	clientID := c.GetHeader("X-Client-ID")

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Printf("Failed to set initial read deadline: %v", err)
		conn.Close()
		return
	}
	conn.SetPongHandler(func(string) error {
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.Printf("Failed to set read deadline in pong handler: %v", err)
		}
		return nil
	})

	registerClient(client)

	defer func() {
		unregisterClient(client)
		conn.Close()
		log.Printf("WebSocket connection closed for client %s", clientID)
	}()

	// Send welcome message
	err = client.writeJSON(map[string]string{
		"event":   "connected",
		"message": "Channel connection established",
	})
	if err != nil {
		log.Printf("Failed to send welcome message: %v", err)
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	go func() {
		for range ticker.C {
			if err := client.ping(); err != nil {
				log.Printf("Ping failed for client %s: %v", clientID, err)
				return
			}
		}
	}()

	for {
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.Printf("Failed to set read deadline for client %s: %v", clientID, err)
			break
		}

		var envelope types.Envelope
		if err := conn.ReadJSON(&envelope); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error for client %s: %v", clientID, err)
			}
			break
		}

		handleClientEvent(client, clientID, envelope)
	}
}

func handleClientEvent(client *wsClient, clientID string, envelope types.Envelope) {
	switch envelope.Event {
	case types.EmitJoinRoom:
		var payload types.JoinRoomPayload
		if err := json.Unmarshal(envelope.Data, &payload); err != nil || payload.Room == "" {
			log.Printf("Ignoring malformed join_room from client %s", clientID)
			return
		}
		joinRoom(client, payload.Room)
		log.Printf("Client %s joined room %s", clientID, payload.Room)

	case types.EmitSendMessage:
		var msg models.ChatMessage
		if err := json.Unmarshal(envelope.Data, &msg); err != nil || msg.TargetRoom == "" {
			log.Printf("Ignoring malformed send_message from client %s", clientID)
			return
		}
		stored := memdb.DB.AppendMessage(msg)
		BroadcastToRoom(stored.TargetRoom, types.EventReceiveMessage, stored)

	default:
		log.Printf("Ignoring unknown event %q from client %s", envelope.Event, clientID)
	}
}
