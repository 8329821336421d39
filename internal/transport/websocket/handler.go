package websocket

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/iamasit07/connect4-ai/internal/service/relay"
)

// Handler manages WebSocket dependencies
type Handler struct {
	Hub          *relay.Hub
	Upgrader     websocket.Upgrader
	ReadTimeout  time.Duration
	PingInterval time.Duration
}

// NewHandler creates the relay endpoint. originAllowed decides the upgrade origin check;
// requests without an Origin header (non-browser clients) are always accepted.
func NewHandler(hub *relay.Hub, originAllowed func(string) bool, readTimeout, pingInterval time.Duration) *Handler {
	if readTimeout <= 0 {
		readTimeout = 60 * time.Second
	}
	if pingInterval <= 0 || pingInterval >= readTimeout {
		pingInterval = readTimeout * 9 / 10
	}
	return &Handler{
		Hub:          hub,
		ReadTimeout:  readTimeout,
		PingInterval: pingInterval,
		Upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || originAllowed == nil || originAllowed(origin)
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// HandleRelay upgrades the connection and seats it in the hub.
func (h *Handler) HandleRelay(c *gin.Context) {
	conn, err := h.Upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Msg("[WS] Upgrade error")
		return
	}

	h.handleConnection(NewClient(conn))
}

// handleConnection manages the lifecycle of a single relay connection
func (h *Handler) handleConnection(client *Client) {
	conn := client.conn
	conn.SetReadLimit(4096)
	conn.SetReadDeadline(time.Now().Add(h.ReadTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(h.ReadTimeout))
		return nil
	})

	// Keep-alive pinger
	go func() {
		ticker := time.NewTicker(h.PingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-client.done:
				return
			case <-ticker.C:
				if err := client.ping(); err != nil {
					return
				}
			}
		}
	}()

	defer func() {
		log.Debug().Str("peer", client.ID()).Msg("[WS] Connection closed")
		h.Hub.Leave(client.ID())
		client.Close()
	}()

	h.Hub.Join(client)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Info().Err(err).Str("peer", client.ID()).Msg("[WS] Peer disconnected unexpectedly")
			}
			return
		}

		var msg relay.ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			client.Send(relay.ServerMessage{Type: relay.MsgError, Message: "invalid message format"})
			continue
		}

		h.processMessage(client, msg)
	}
}

// processMessage routes specific actions
func (h *Handler) processMessage(client *Client, msg relay.ClientMessage) {
	switch msg.Type {
	case relay.MsgMove:
		if msg.Column == nil {
			client.Send(relay.ServerMessage{Type: relay.MsgError, Message: "move needs a column"})
			return
		}
		if err := h.Hub.HandleMove(client.ID(), *msg.Column); err != nil {
			client.Send(relay.ServerMessage{Type: relay.MsgError, Message: err.Error()})
		}
	default:
		client.Send(relay.ServerMessage{Type: relay.MsgError, Message: "unknown message type " + msg.Type})
	}
}
