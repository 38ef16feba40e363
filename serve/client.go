package serve

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

type client struct {
	ID uuid.UUID

	ws   *websocket.Conn
	send chan []byte

	done     chan struct{}
	stopOnce sync.Once
}

func newClient(id uuid.UUID, ws *websocket.Conn) *client {
	return &client{
		ID:   id,
		ws:   ws,
		send: make(chan []byte, clientBuffer),
		done: make(chan struct{}),
	}
}

// stop ends the write loop, which closes the connection.
func (c *client) stop() {
	c.stopOnce.Do(func() { close(c.done) })
}

func (c *client) writeLoop(log zerolog.Logger) {
	defer c.close(websocket.CloseNormalClosure, "bye")

	for {
		select {
		case <-c.done:
			return
		case data := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Warn().Err(err).Msg("write failed")
				return
			}
		}
	}
}

func (c *client) close(code int, reason string) error {
	deadline := time.Now().Add(100 * time.Millisecond)
	msg := websocket.FormatCloseMessage(code, reason)

	c.ws.WriteControl(websocket.CloseMessage, msg, deadline)

	return c.ws.Close()
}
