package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/beka-birhanu/vinom-snake-server/event"
	"github.com/beka-birhanu/vinom-snake-server/snake"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// client is the state sink for one websocket. Writes from the game loop
// and the event handlers are serialized by mu.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func newClient(conn *websocket.Conn) *client {
	return &client{conn: conn}
}

func (c *client) SendState(s snake.State) error {
	data, err := json.Marshal(serverMessage{Type: event.State, Payload: s})
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// ping keeps the connection alive until done is closed or a ping fails.
func (c *client) ping(done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
