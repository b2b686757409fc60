package websocket

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"procureflow/procurement-portal/procurement-portal-backend/internal/notifications"
)

// Manager handles WebSocket connections and message fan-out
type Manager struct {
	connections map[string]*Connection
	mu          sync.RWMutex
	hub         *Hub
	upgrader    websocket.Upgrader
	logger      *zap.Logger
}

// Connection represents a connected dashboard client
type Connection struct {
	ID           string
	UserID       string
	Conn         *websocket.Conn
	Send         chan notifications.WebSocketMessage
	LastActivity time.Time
	mu           sync.Mutex
}

// Hub manages broadcast of messages to all connections
type Hub struct {
	connections map[*Connection]bool
	broadcast   chan notifications.WebSocketMessage
	register    chan *Connection
	unregister  chan *Connection
	stop        chan struct{}
}

// NewManager creates a WebSocket manager and starts its hub
func NewManager(logger *zap.Logger) *Manager {
	hub := &Hub{
		connections: make(map[*Connection]bool),
		broadcast:   make(chan notifications.WebSocketMessage, 256),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		stop:        make(chan struct{}),
	}

	go hub.run()

	return &Manager{
		connections: make(map[string]*Connection),
		hub:         hub,
		logger:      logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// In production, implement proper origin checking
				return true
			},
		},
	}
}

// HandleConnection upgrades an HTTP request and registers the client
func (m *Manager) HandleConnection(w http.ResponseWriter, r *http.Request, userID string) (*Connection, error) {
	conn, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to upgrade connection: %w", err)
	}

	if userID == "" {
		userID = uuid.New().String()
	}

	connection := &Connection{
		ID:           uuid.New().String(),
		UserID:       userID,
		Conn:         conn,
		Send:         make(chan notifications.WebSocketMessage, 256),
		LastActivity: time.Now(),
	}

	m.hub.register <- connection

	m.mu.Lock()
	m.connections[connection.ID] = connection
	m.mu.Unlock()

	go m.readPump(connection)
	go m.writePump(connection)

	confirm := notifications.WebSocketMessage{
		Type:      notifications.WSMessageTypeStatus,
		Data:      map[string]interface{}{"status": "connected", "connection_id": connection.ID},
		Timestamp: time.Now(),
	}
	select {
	case connection.Send <- confirm:
	default:
	}

	return connection, nil
}

// Broadcast queues a message for every connected client
func (m *Manager) Broadcast(msg notifications.WebSocketMessage) {
	select {
	case m.hub.broadcast <- msg:
	default:
		m.logger.Warn("websocket broadcast queue full, dropping message",
			zap.String("type", msg.Type))
	}
}

// ConnectionCount returns the number of live connections
func (m *Manager) ConnectionCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.connections)
}

// Close stops the hub
func (m *Manager) Close() {
	close(m.hub.stop)
}

func (m *Manager) readPump(conn *Connection) {
	defer func() {
		m.hub.unregister <- conn
		m.mu.Lock()
		delete(m.connections, conn.ID)
		m.mu.Unlock()
		conn.Conn.Close()
	}()

	conn.Conn.SetReadLimit(512)
	conn.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.Conn.SetPongHandler(func(string) error {
		conn.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		// Clients are read-only subscribers; incoming frames only refresh activity
		if _, _, err := conn.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				m.logger.Debug("websocket read error", zap.Error(err))
			}
			break
		}
		conn.mu.Lock()
		conn.LastActivity = time.Now()
		conn.mu.Unlock()
	}
}

func (m *Manager) writePump(conn *Connection) {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		conn.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			conn.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				conn.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.Conn.WriteJSON(message); err != nil {
				return
			}

		case <-ticker.C:
			conn.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.connections[conn] = true

		case conn := <-h.unregister:
			if _, ok := h.connections[conn]; ok {
				delete(h.connections, conn)
				close(conn.Send)
			}

		case msg := <-h.broadcast:
			for conn := range h.connections {
				select {
				case conn.Send <- msg:
				default:
					delete(h.connections, conn)
					close(conn.Send)
				}
			}

		case <-h.stop:
			for conn := range h.connections {
				close(conn.Send)
			}
			return
		}
	}
}
