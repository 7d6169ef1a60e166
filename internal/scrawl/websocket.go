package scrawl

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/scrawl-games/scrawl/internal/logging"
	"github.com/scrawl-games/scrawl/internal/match"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 << 10
	// outbound frames buffered per connection; a full buffer drops the
	// frame instead of blocking a room lock
	sendBufferSize = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type outbound struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

var _ Gateway = (*WsGateway)(nil)

func NewGateway() *WsGateway {
	return &WsGateway{
		conns: map[string]*client{},
		rooms: map[string]map[string]struct{}{},
	}
}

// WsGateway fans outbound events to websocket connections. Send paths only
// enqueue onto per-connection buffers, so callers holding room locks never
// block on the network.
type WsGateway struct {
	mtx sync.RWMutex
	// key: connection id
	conns map[string]*client
	// room code to member connection ids
	rooms map[string]map[string]struct{}
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
}

// enqueue hands a frame to the write pump without ever blocking. Frames to a
// slow consumer are dropped once its buffer fills.
func (c *client) enqueue(frame []byte) {
	select {
	case <-c.done:
	case c.send <- frame:
	default:
	}
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.done)
	})
}

func (g *WsGateway) SendTo(connID, event string, payload interface{}) {
	frame, err := json.Marshal(outbound{Event: event, Data: payload})
	if err != nil {
		return
	}

	g.mtx.RLock()
	c, ok := g.conns[connID]
	g.mtx.RUnlock()

	if ok {
		c.enqueue(frame)
	}
}

func (g *WsGateway) BroadcastToRoom(code, event string, payload interface{}, exclude ...string) {
	frame, err := json.Marshal(outbound{Event: event, Data: payload})
	if err != nil {
		return
	}

	g.mtx.RLock()
	defer g.mtx.RUnlock()

	members, ok := g.rooms[code]
	if !ok {
		return
	}

loop:
	for id := range members {
		for _, ex := range exclude {
			if id == ex {
				continue loop
			}
		}
		if c, ok := g.conns[id]; ok {
			c.enqueue(frame)
		}
	}
}

func (g *WsGateway) EnterRoom(code, connID string) {
	g.mtx.Lock()
	defer g.mtx.Unlock()

	members, ok := g.rooms[code]
	if !ok {
		members = map[string]struct{}{}
		g.rooms[code] = members
	}
	members[connID] = struct{}{}
}

func (g *WsGateway) LeaveRoom(code, connID string) {
	g.mtx.Lock()
	defer g.mtx.Unlock()

	if members, ok := g.rooms[code]; ok {
		delete(members, connID)
		if len(members) == 0 {
			delete(g.rooms, code)
		}
	}
}

func (g *WsGateway) CloseRoom(code string) {
	g.mtx.Lock()
	defer g.mtx.Unlock()
	delete(g.rooms, code)
}

func (g *WsGateway) register(c *client) {
	g.mtx.Lock()
	defer g.mtx.Unlock()
	g.conns[c.id] = c
}

func (g *WsGateway) unregister(c *client) {
	g.mtx.Lock()
	defer g.mtx.Unlock()
	if g.conns[c.id] == c {
		delete(g.conns, c.id)
	}
}

// Handle upgrades the request and runs the connection until the peer goes
// away, funneling every inbound envelope through the registry dispatcher.
func (g *WsGateway) Handle(ctx context.Context, m *manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := logging.FromContext(ctx).Named("gateway")

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Errorf("upgrade: %v", err)
			return
		}

		c := &client{
			id:   uuid.New().String(),
			conn: conn,
			send: make(chan []byte, sendBufferSize),
			done: make(chan struct{}),
		}
		g.register(c)

		g.SendTo(c.id, match.EventConnected, connectedPayload{SID: c.id})

		go c.writePump()
		g.readPump(ctx, c, m)
	}
}

func (g *WsGateway) readPump(ctx context.Context, c *client, m *manager) {
	logger := logging.FromContext(ctx).Named("gateway")

	defer func() {
		g.unregister(c)
		m.Disconnect(c.id)
		c.close()
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debugf("read, conn %s: %v", c.id, err)
			}
			return
		}

		var envelope Envelope
		if err := json.Unmarshal(data, &envelope); err != nil {
			g.SendTo(c.id, match.EventError, ErrorPayload{Message: "malformed message"})
			continue
		}

		m.Dispatch(ctx, c.id, envelope)
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case frame := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, nil)
			return
		}
	}
}
