package stream

import (
	"time"

	"github.com/gorilla/websocket"

	"github.com/penwyp/go-flight-monitor/internal/core/constants"
)

// client is a single websocket connection.
type client struct {
	socket *websocket.Conn
	// send is closed by the hub when the client is removed.
	send chan []byte
}

// read discards incoming frames and returns when the connection fails or
// the peer closes it.
func (c *client) read() {
	defer c.socket.Close()
	for {
		if _, _, err := c.socket.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) write() {
	defer c.socket.Close()
	for msg := range c.send {
		_ = c.socket.SetWriteDeadline(time.Now().Add(constants.StreamWriteTimeout))
		if err := c.socket.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
	_ = c.socket.SetWriteDeadline(time.Now().Add(constants.StreamWriteTimeout))
	_ = c.socket.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
