package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	writeWait      = 10 * time.Second
	pingPeriod     = 60 * time.Second
	maxMessageSize = 4096
	sendBuffer     = 16
)

type inbound struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Client is one websocket connection attached to the hub.
type Client struct {
	id   uuid.UUID
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	mu    sync.Mutex
	rooms map[string]bool
}

func newClient(h *Hub, conn *websocket.Conn) *Client {
	return &Client{
		id:    uuid.New(),
		hub:   h,
		conn:  conn,
		send:  make(chan []byte, sendBuffer),
		rooms: make(map[string]bool),
	}
}

func (c *Client) join(room string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rooms[room] = true
}

func (c *Client) inRoom(room string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rooms[room]
}

// readPump dispatches inbound messages until the connection drops. Runs on
// the upgrade handler's goroutine.
func (c *Client) readPump() {
	defer func() {
		c.hub.detach(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var msg inbound
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.hub.log.Warnw("discarding malformed websocket message", "client", c.id)
			continue
		}

		switch msg.Event {
		case evJoinAgentLevels:
			c.join(RoomAgentLevels)
		case evJoinPermissions:
			c.join(RoomPermissions)
		case evJoinTableUpdates:
			c.join(RoomTableUpdates)
		case evRequestLevels:
			c.hub.sendSnapshot(c)
		default:
			c.hub.log.Debugw("ignoring unknown websocket event", "event", msg.Event)
		}
	}
}

// writePump drains the send channel and keeps the connection alive with
// pings. Exits when the hub closes the channel or a write fails.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
