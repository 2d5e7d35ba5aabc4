package ws

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS is enforced by the REST layer
	},
}

// Handler handles WebSocket connections
type Handler struct {
	hub *Hub
	log *zap.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, log *zap.Logger) *Handler {
	return &Handler{
		hub: hub,
		log: log,
	}
}

// AlertsWS handles GET /v1/ws/alerts?user_id=
func (h *Handler) AlertsWS(w http.ResponseWriter, r *http.Request) {
	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade", zap.Error(err))
		return
	}

	conn := &Connection{
		SubjectID: r.URL.Query().Get("user_id"),
		Send:      make(chan []byte, 256),
		Hub:       h.hub,
	}

	h.hub.Register(conn)

	go h.push(wsConn, conn)
	go h.awaitClose(wsConn, conn)
}

// push forwards queued alerts to the reviewer and pings on idle. It owns the socket and
// closes it once the hub drops the connection or a write fails.
func (h *Handler) push(wsConn *websocket.Conn, conn *Connection) {
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ping.Stop()
		wsConn.Close()
	}()

	for {
		var err error
		select {
		case msg, ok := <-conn.Send:
			if !ok {
				write(wsConn, websocket.CloseMessage, nil)
				return
			}
			err = write(wsConn, websocket.TextMessage, msg)
		case <-ping.C:
			err = write(wsConn, websocket.PingMessage, nil)
		}
		if err != nil {
			h.log.Debug("alert feed write", zap.String("subject", conn.SubjectID), zap.Error(err))
			return
		}
	}
}

// awaitClose blocks until the reviewer goes away. Reviewers send nothing the feed acts on,
// so frames are discarded and reading only services pongs and the close handshake.
func (h *Handler) awaitClose(wsConn *websocket.Conn, conn *Connection) {
	defer h.hub.Unregister(conn)

	extend := func(string) error { return wsConn.SetReadDeadline(time.Now().Add(pongWait)) }
	extend("")
	wsConn.SetReadLimit(maxMessageSize)
	wsConn.SetPongHandler(extend)

	for {
		if _, _, err := wsConn.NextReader(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.Warn("alert feed read", zap.String("subject", conn.SubjectID), zap.Error(err))
			}
			return
		}
	}
}

func write(wsConn *websocket.Conn, messageType int, data []byte) error {
	wsConn.SetWriteDeadline(time.Now().Add(writeWait))
	return wsConn.WriteMessage(messageType, data)
}
