package ws

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	general_i "github.com/beka-birhanu/vinom-common/interfaces/general"
	"github.com/beka-birhanu/vinom-snake-server/event"
	"github.com/beka-birhanu/vinom-snake-server/service/i"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Handler serves one snake game per websocket connection.
type Handler struct {
	manager  i.GameSessionManager
	logger   general_i.Logger
	upgrader websocket.Upgrader
}

func NewHandler(manager i.GameSessionManager, logger general_i.Logger) *Handler {
	return &Handler{
		manager: manager,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Routes returns the HTTP routes: /ws for games and /health.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.serveWS)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

func (h *Handler) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warning(fmt.Sprintf("upgrading connection from %s: %s", r.RemoteAddr, err))
		return
	}

	id := uuid.New()
	c := newClient(conn)
	done := make(chan struct{})
	defer func() {
		close(done)
		h.manager.Disconnect(id)
		_ = conn.Close()
		h.logger.Info(fmt.Sprintf("client disconnected: %s", id))
	}()

	h.logger.Info(fmt.Sprintf("client connected: %s (%s)", id, r.RemoteAddr))
	h.manager.Connect(id, c)
	go c.ping(done)

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			h.logger.Warning(fmt.Sprintf("discarding malformed message from %s: %s", id, err))
			continue
		}

		switch msg.Type {
		case event.ChangeDirection:
			dx, dy := msg.direction()
			h.manager.ChangeDirection(id, dx, dy)
		case event.Restart:
			h.manager.Restart(id)
		default:
			h.logger.Warning(fmt.Sprintf("unknown message type %q from %s", msg.Type, id))
		}
	}
}
