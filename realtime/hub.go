package realtime

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	backoffice "github.com/bohemiyan/backoffice"
)

// Rooms clients can join.
const (
	RoomAgentLevels  = "agent-levels"
	RoomPermissions  = "permissions"
	RoomTableUpdates = "table-updates"
)

// Inbound events.
const (
	evJoinAgentLevels  = "join-agent-levels"
	evJoinPermissions  = "join-permissions"
	evJoinTableUpdates = "join-table-updates"
	evRequestLevels    = "request-agent-levels"
)

// Snapshot serves the current agent-level list for on-demand requests.
// Implemented by the back-office service.
type Snapshot interface {
	ListAgentLevels(ctx context.Context) ([]backoffice.AgentLevel, error)
}

type outbound struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload,omitempty"`
}

type tableUpdate struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
	ID   int         `json:"id,omitempty"`
}

type idPayload struct {
	ID int `json:"id"`
}

type snapshotPayload struct {
	Success bool                    `json:"success"`
	Data    []backoffice.AgentLevel `json:"data"`
	Count   int                     `json:"count"`
}

type envelope struct {
	room string
	data []byte
}

// directMessage is a reply addressed to a single client, delivered by the run
// loop so nothing but the run loop ever writes to a send channel.
type directMessage struct {
	client *Client
	data   []byte
}

// Hub fans mutation events out to connected dashboards. It implements
// backoffice.Publisher; every service event becomes one room-scoped message
// and, for level mutations, one generic table-updates message.
type Hub struct {
	snapshot Snapshot
	log      *zap.SugaredLogger

	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan envelope
	direct     chan directMessage
	done       chan struct{}
	stopOnce   sync.Once
}

// NewHub creates the hub and starts its dispatch loop.
func NewHub(snapshot Snapshot, log *zap.SugaredLogger) *Hub {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	h := &Hub{
		snapshot:   snapshot,
		log:        log,
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan envelope, 64),
		direct:     make(chan directMessage, 16),
		done:       make(chan struct{}),
	}
	go h.run()
	return h
}

// Stop shuts the dispatch loop down and closes every client send channel.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

func (h *Hub) run() {
	for {
		select {
		case c := <-h.register:
			h.clients[c] = true
			h.log.Infow("websocket client connected", "client", c.id)
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				h.log.Infow("websocket client disconnected", "client", c.id)
			}
		case env := <-h.broadcast:
			for c := range h.clients {
				if c.inRoom(env.room) {
					h.deliver(c, env.data)
				}
			}
		case m := <-h.direct:
			// The client may have been dropped between the request and now.
			if h.clients[m.client] {
				h.deliver(m.client, m.data)
			}
		case <-h.done:
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			return
		}
	}
}

// Publish implements backoffice.Publisher.
func (h *Hub) Publish(e backoffice.Event) {
	switch e.Type {
	case backoffice.LevelAdded:
		h.emit(RoomAgentLevels, "agent-level-added", e.Level)
		h.emit(RoomTableUpdates, "agent-levels-updated", tableUpdate{Type: "added", Data: e.Level})
	case backoffice.LevelUpdated:
		h.emit(RoomAgentLevels, "agent-level-updated", e.Level)
		h.emit(RoomTableUpdates, "agent-levels-updated", tableUpdate{Type: "updated", Data: e.Level})
	case backoffice.LevelDeleted:
		h.emit(RoomAgentLevels, "agent-level-deleted", idPayload{ID: e.ID})
		h.emit(RoomTableUpdates, "agent-levels-updated", tableUpdate{Type: "deleted", ID: e.ID})
	case backoffice.LevelsReordered:
		// The multi-row shift invalidates every client's local copy; ship the
		// full refreshed list so they replace it wholesale.
		h.emit(RoomTableUpdates, "agent-levels-updated", tableUpdate{Type: "reordered", Data: e.Levels})
	case backoffice.PermissionAdded:
		h.emit(RoomPermissions, "permission-added", e.Perm)
	case backoffice.PermissionUpdated:
		h.emit(RoomPermissions, "permission-updated", e.Perm)
	case backoffice.PermissionDeleted:
		h.emit(RoomPermissions, "permission-deleted", idPayload{ID: e.ID})
	}
}

// deliver pushes data into a client's send channel. Run-loop only; a full
// buffer means the consumer is too slow and the client is dropped.
func (h *Hub) deliver(c *Client, data []byte) {
	select {
	case c.send <- data:
	default:
		delete(h.clients, c)
		close(c.send)
		h.log.Warnw("dropping slow websocket client", "client", c.id)
	}
}

func (h *Hub) emit(room, event string, payload interface{}) {
	data, err := json.Marshal(outbound{Event: event, Payload: payload})
	if err != nil {
		h.log.Errorw("failed to encode websocket event", "event", event, "error", err)
		return
	}
	select {
	case h.broadcast <- envelope{room: room, data: data}:
	case <-h.done:
	}
}

// attach registers a client with the run loop. Returns false when the hub
// has already stopped and the connection should just be closed.
func (h *Hub) attach(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

// detach hands a client back to the run loop for removal. A no-op after the
// hub has stopped; the run loop already closed every send channel.
func (h *Hub) detach(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// sendSnapshot answers a request-agent-levels message on the requesting
// connection only.
func (h *Hub) sendSnapshot(c *Client) {
	levels, err := h.snapshot.ListAgentLevels(context.Background())
	if err != nil {
		h.log.Errorw("failed to load snapshot for websocket client", "client", c.id, "error", err)
		levels = []backoffice.AgentLevel{}
	}
	payload := snapshotPayload{Success: err == nil, Data: levels, Count: len(levels)}

	data, merr := json.Marshal(outbound{Event: "agent-levels-data", Payload: payload})
	if merr != nil {
		h.log.Errorw("failed to encode snapshot", "error", merr)
		return
	}
	// Hand the reply to the run loop; the send channel belongs to it alone
	// and may already be closed for a dropped client.
	select {
	case h.direct <- directMessage{client: c, data: data}:
	case <-h.done:
	}
}

// Handler returns the Fiber handler that upgrades a connection and serves it
// until it closes.
func (h *Hub) Handler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		c := newClient(h, conn)
		if !h.attach(c) {
			conn.Close()
			return
		}
		go c.writePump()
		c.readPump()
	})
}
