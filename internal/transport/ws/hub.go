package ws

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"mindscreen/internal/model"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	MsgRiskAlert MessageType = "risk_alert"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub fans raised alerts out to connected reviewers
type Hub struct {
	// Reviewer connections, optionally scoped to one subject
	conns map[*Connection]bool

	mu sync.RWMutex

	// Channels for coordination
	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
	done       chan struct{}

	log *zap.Logger
}

// Connection represents a reviewer WebSocket connection
type Connection struct {
	SubjectID string // Empty receives alerts for every subject
	Send      chan []byte
	Hub       *Hub
}

// BroadcastMessage is a message to broadcast
type BroadcastMessage struct {
	SubjectID string
	Message   *Message
}

// NewHub creates a new WebSocket hub
func NewHub(log *zap.Logger) *Hub {
	h := &Hub{
		conns:      make(map[*Connection]bool),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *BroadcastMessage, 256),
		done:       make(chan struct{}),
		log:        log,
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			h.conns[conn] = true
			h.mu.Unlock()
			h.log.Debug("reviewer connected", zap.String("subject", conn.SubjectID))

		case conn := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.conns[conn]; ok {
				delete(h.conns, conn)
				close(conn.Send)
				h.log.Debug("reviewer disconnected", zap.String("subject", conn.SubjectID))
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			data, _ := json.Marshal(msg.Message)
			for conn := range h.conns {
				if conn.SubjectID != "" && conn.SubjectID != msg.SubjectID {
					continue
				}
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
				}
			}
			h.mu.RUnlock()

		case <-h.done:
			h.mu.Lock()
			for conn := range h.conns {
				delete(h.conns, conn)
				close(conn.Send)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	select {
	case h.register <- conn:
	case <-h.done:
		close(conn.Send)
	}
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

// Connections returns the number of live reviewer connections
func (h *Hub) Connections() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// BroadcastAlert pushes a raised alert to reviewers (implements service.AlertBroadcaster).
// Never blocks the caller; alerts are dropped when the queue is full.
func (h *Hub) BroadcastAlert(alert *model.AlertRecord) {
	data, err := json.Marshal(alert)
	if err != nil {
		h.log.Warn("marshal alert", zap.Error(err))
		return
	}
	msg := &BroadcastMessage{
		SubjectID: alert.SubjectID,
		Message: &Message{
			Type:    MsgRiskAlert,
			Payload: data,
		},
	}
	select {
	case h.broadcast <- msg:
	case <-h.done:
	default:
		h.log.Warn("alert feed queue full, dropping alert", zap.String("alert", alert.ID))
	}
}

// Close disconnects every reviewer and stops the hub
func (h *Hub) Close() {
	select {
	case <-h.done:
	default:
		close(h.done)
	}
}
