package websocket

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/iamasit07/connect4-ai/internal/service/relay"
	"github.com/iamasit07/connect4-ai/pkg/uid"
)

const writeWait = 10 * time.Second

// Client wraps one relay socket and satisfies relay.Peer.
type Client struct {
	id   string
	conn *websocket.Conn

	// writeMu ensures only one goroutine writes to the socket at a time,
	// conn.WriteJSON is not safe for concurrent use
	writeMu   sync.Mutex
	closeOnce sync.Once
	done      chan struct{}
}

func NewClient(conn *websocket.Conn) *Client {
	return &Client{
		id:   uid.GeneratePeerID(),
		conn: conn,
		done: make(chan struct{}),
	}
}

func (c *Client) ID() string {
	return c.id
}

// Send writes msg as JSON. Writes after Close are dropped.
func (c *Client) Send(msg relay.ServerMessage) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	select {
	case <-c.done:
		return nil
	default:
	}

	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(msg)
}

func (c *Client) ping() error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

// Close sends a close frame and shuts the socket. Safe to call more than once.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		c.writeMu.Lock()
		c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
		close(c.done)
		c.writeMu.Unlock()
		c.conn.Close()
	})
}
