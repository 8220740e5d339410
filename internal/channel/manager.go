// Package channel maintains the client's long-lived websocket to the
// collaboration server: one physical connection per session, logical rooms
// multiplexed over it, automatic reconnection with room re-subscription.
package channel

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Lanszs/QuickDART/internal/types"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// Push payloads carry full entity snapshots, so the limit is far above
	// the transport default.
	maxMessageSize = 64 * 1024

	initialBackoff = time.Second
	maxBackoff     = 30 * time.Second
)

// Handler receives the raw data payload of one event. Handlers run on the
// read loop goroutine in arrival order.
type Handler func(data json.RawMessage)

// Manager owns the websocket connection. All methods are safe for concurrent
// use.
type Manager struct {
	url      string
	clientID string

	mu        sync.Mutex
	conn      *websocket.Conn
	connected bool
	started   bool
	rooms     map[string]bool
	handlers  map[string]map[int]Handler
	nextID    int
	done      chan struct{}

	// Serializes frames: Emit and the ping ticker write concurrently.
	wmu sync.Mutex
}

func NewManager(url string) *Manager {
	return &Manager{
		url:      url,
		clientID: uuid.NewString(),
		rooms:    make(map[string]bool),
		handlers: make(map[string]map[int]Handler),
		done:     make(chan struct{}),
	}
}

// Connect starts the connection loop. Calling it again while running is a
// no-op.
func (m *Manager) Connect() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.started {
		return
	}
	m.started = true
	go m.run()
}

// Close tears the connection down permanently.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	select {
	case <-m.done:
		return
	default:
	}
	close(m.done)
	if m.conn != nil {
		m.conn.Close()
	}
}

// Connected reports transport state for UI indicators. A false value is not
// an error condition; the polling fallback covers the gap.
func (m *Manager) Connected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected
}

// JoinRoom records interest in a room and sends the join intent if currently
// connected. Membership does not survive a reconnect server-side, so the
// recorded set is re-sent after every successful dial.
func (m *Manager) JoinRoom(room string) {
	m.mu.Lock()
	m.rooms[room] = true
	connected := m.connected
	m.mu.Unlock()

	if connected {
		if err := m.Emit(types.EmitJoinRoom, types.JoinRoomPayload{Room: room}); err != nil {
			log.Printf("Failed to send join for room %s: %v", room, err)
		}
	}
}

// LeaveRoom drops a room from the re-subscription set. Already-subscribed
// membership lapses naturally at the next reconnect.
func (m *Manager) LeaveRoom(room string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rooms, room)
}

// Rooms returns the rooms currently subscribed to.
func (m *Manager) Rooms() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, 0, len(m.rooms))
	for room := range m.rooms {
		out = append(out, room)
	}
	return out
}

// On registers a handler for an event and returns its remove function.
// Multiple handlers may watch the same event; removing one never disturbs
// the others.
func (m *Manager) On(event string, fn Handler) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.handlers[event] == nil {
		m.handlers[event] = make(map[int]Handler)
	}
	id := m.nextID
	m.nextID++
	m.handlers[event][id] = fn

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.handlers[event], id)
	}
}

// Emit sends one event frame. It fails when disconnected; nothing is
// buffered client-side, the poll fallback reconciles missed state.
func (m *Manager) Emit(event string, payload interface{}) error {
	m.mu.Lock()
	conn := m.conn
	m.mu.Unlock()

	if conn == nil {
		return ErrNotConnected
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	m.wmu.Lock()
	defer m.wmu.Unlock()

	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteJSON(types.Envelope{Event: event, Data: data})
}

func (m *Manager) run() {
	backoff := initialBackoff

	for {
		select {
		case <-m.done:
			return
		default:
		}

		header := http.Header{"X-Client-ID": []string{m.clientID}}
		conn, resp, err := websocket.DefaultDialer.Dial(m.url, header)
		if resp != nil && resp.Body != nil {
			resp.Body.Close()
		}
		if err != nil {
			log.Printf("Channel dial failed: %v (retrying in %v)", err, backoff)
			select {
			case <-m.done:
				return
			case <-time.After(backoff):
			}
			backoff *= 2
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
			continue
		}

		backoff = initialBackoff

		m.mu.Lock()
		m.conn = conn
		m.connected = true
		rooms := make([]string, 0, len(m.rooms))
		for room := range m.rooms {
			rooms = append(rooms, room)
		}
		m.mu.Unlock()

		log.Printf("Channel connected to %s", m.url)

		// Room membership is connection-scoped on the server, so every
		// successful dial re-joins everything we care about.
		for _, room := range rooms {
			if err := m.Emit(types.EmitJoinRoom, types.JoinRoomPayload{Room: room}); err != nil {
				log.Printf("Failed to rejoin room %s: %v", room, err)
			}
		}

		m.readLoop(conn)

		m.mu.Lock()
		m.connected = false
		m.conn = nil
		m.mu.Unlock()
		conn.Close()

		log.Printf("Channel disconnected from %s", m.url)
	}
}

func (m *Manager) readLoop(conn *websocket.Conn) {
	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Printf("Failed to set initial read deadline: %v", err)
		return
	}
	conn.SetPongHandler(func(string) error {
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.Printf("Failed to set read deadline in pong handler: %v", err)
		}
		return nil
	})

	stopPing := make(chan struct{})
	defer close(stopPing)

	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-stopPing:
				return
			case <-ticker.C:
				m.wmu.Lock()
				if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err == nil {
					if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
						log.Printf("Ping failed: %v", err)
					}
				}
				m.wmu.Unlock()
			}
		}
	}()

	for {
		var env types.Envelope
		if err := conn.ReadJSON(&env); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("Channel read error: %v", err)
			}
			return
		}
		m.dispatch(env)
	}
}

func (m *Manager) dispatch(env types.Envelope) {
	m.mu.Lock()
	fns := make([]Handler, 0, len(m.handlers[env.Event]))
	for _, fn := range m.handlers[env.Event] {
		fns = append(fns, fn)
	}
	m.mu.Unlock()

	for _, fn := range fns {
		fn(env.Data)
	}
}
