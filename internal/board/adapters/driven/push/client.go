package push

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"ride-admin/internal/board/core/domain/dto"
	"ride-admin/internal/board/core/domain/model"
	"ride-admin/internal/board/core/ports"
	"ride-admin/internal/mylogger"

	"github.com/gorilla/websocket"
)

// Reconnect schedule: attempt immediately, then back off. The tail value
// repeats for every further attempt.
var backoffSchedule = []time.Duration{0, 2 * time.Second, 5 * time.Second, 10 * time.Second, 30 * time.Second}

// TokenFunc supplies the bearer credential presented at connect time.
type TokenFunc func() string

// Client maintains the persistent event stream from the platform. It owns
// the reconnection loop; consumers observe the resulting state transitions
// through OnStateChange and receive events through Subscribe. Handlers run
// serially on the read goroutine, so event processing is single-threaded.
type Client struct {
	url   string
	token TokenFunc
	mylog mylogger.Logger

	mu        sync.Mutex
	conn      *websocket.Conn
	handlers  map[string]map[int]func(json.RawMessage)
	nextSubID int
	rooms     map[string]bool
	observers []func(model.ConnState)
	closed    bool
}

func NewClient(url string, token TokenFunc, mylog mylogger.Logger) *Client {
	return &Client{
		url:      url,
		token:    token,
		mylog:    mylog,
		handlers: make(map[string]map[int]func(json.RawMessage)),
		rooms:    make(map[string]bool),
	}
}

// OnStateChange registers a lifecycle observer. Must be called before Run.
func (c *Client) OnStateChange(fn func(state model.ConnState)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.observers = append(c.observers, fn)
}

// Subscribe registers a handler for a named event.
func (c *Client) Subscribe(event string, fn func(data json.RawMessage)) ports.ISubscription {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.handlers[event] == nil {
		c.handlers[event] = make(map[int]func(json.RawMessage))
	}
	c.nextSubID++
	id := c.nextSubID
	c.handlers[event][id] = fn

	return &subscription{client: c, event: event, id: id}
}

type subscription struct {
	client *Client
	event  string
	id     int
	once   sync.Once
}

func (s *subscription) Close() {
	s.once.Do(func() {
		s.client.mu.Lock()
		defer s.client.mu.Unlock()
		delete(s.client.handlers[s.event], s.id)
	})
}

// JoinRoom records membership and, when connected, sends the join message.
// Membership survives reconnects: all rooms are re-joined after each dial.
func (c *Client) JoinRoom(room string) {
	c.mu.Lock()
	c.rooms[room] = true
	conn := c.conn
	c.mu.Unlock()

	if conn != nil {
		c.send(dto.RoomMessage{Type: dto.MessageTypeJoinRoom, Room: room})
	}
}

// LeaveRoom drops membership and, when connected, sends the leave message.
func (c *Client) LeaveRoom(room string) {
	c.mu.Lock()
	delete(c.rooms, room)
	conn := c.conn
	c.mu.Unlock()

	if conn != nil {
		c.send(dto.RoomMessage{Type: dto.MessageTypeLeaveRoom, Room: room})
	}
}

// Run drives the connect/read/reconnect loop until ctx is cancelled or
// Close is called.
func (c *Client) Run(ctx context.Context) {
	// Without a credential the channel can never be established: stay
	// disconnected and leave polling as the sole data source.
	if c.token() == "" {
		c.mylog.Action("push_disabled").Warn("no credential for push channel, waiting for live updates")
		return
	}

	attempt := 0

	for {
		if ctx.Err() != nil || c.isClosed() {
			c.notify(model.ConnDisconnected)
			return
		}

		if wait := backoff(attempt); wait > 0 {
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				c.notify(model.ConnDisconnected)
				return
			}
		}

		conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.url, nil)
		if err != nil {
			if attempt == 0 {
				c.mylog.Action("push_connect_failed").Warn("waiting for live updates", "url", c.url, "error", err.Error())
			}
			attempt++
			c.notify(model.ConnReconnecting)
			continue
		}

		attempt = 0
		c.setConn(conn)
		c.notify(model.ConnConnected)
		c.mylog.Action("push_connected").Info("push channel connected", "url", c.url)

		c.authenticate()
		c.rejoinRooms()

		c.readLoop(ctx, conn)
		c.setConn(nil)

		if ctx.Err() != nil || c.isClosed() {
			c.notify(model.ConnDisconnected)
			return
		}
		c.notify(model.ConnReconnecting)
	}
}

// Close tears the connection down and stops the run loop.
func (c *Client) Close() error {
	c.mu.Lock()
	c.closed = true
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()

	if conn != nil {
		return conn.Close()
	}
	return nil
}

func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil && !c.isClosed() {
				c.mylog.Action("push_read_failed").Warn("push channel dropped", "error", err.Error())
			}
			conn.Close()
			return
		}

		var envelope dto.Envelope
		if err := json.Unmarshal(payload, &envelope); err != nil || envelope.Event == "" {
			c.mylog.Action("push_frame_malformed").Warn("dropping unparseable frame")
			continue
		}
		c.dispatch(envelope)
	}
}

func (c *Client) dispatch(envelope dto.Envelope) {
	c.mu.Lock()
	fns := make([]func(json.RawMessage), 0, len(c.handlers[envelope.Event]))
	for _, fn := range c.handlers[envelope.Event] {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(envelope.Data)
	}
}

func (c *Client) authenticate() {
	msg := dto.AuthMessage{Type: dto.MessageTypeAuth}
	msg.Data.Token = c.token()
	if err := c.send(msg); err != nil {
		c.mylog.Action("push_auth_failed").Warn("sending auth message", "error", err.Error())
	}
}

func (c *Client) rejoinRooms() {
	c.mu.Lock()
	rooms := make([]string, 0, len(c.rooms))
	for room := range c.rooms {
		rooms = append(rooms, room)
	}
	c.mu.Unlock()

	for _, room := range rooms {
		if err := c.send(dto.RoomMessage{Type: dto.MessageTypeJoinRoom, Room: room}); err != nil {
			c.mylog.Action("push_room_join_failed").Warn("joining room", "room", room, "error", err.Error())
		}
	}
}

func (c *Client) send(msg any) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshaling message: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return fmt.Errorf("push channel not connected")
	}
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (c *Client) setConn(conn *websocket.Conn) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.conn = conn
}

func (c *Client) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.closed
}

func (c *Client) notify(state model.ConnState) {
	c.mu.Lock()
	observers := make([]func(model.ConnState), len(c.observers))
	copy(observers, c.observers)
	c.mu.Unlock()

	for _, fn := range observers {
		fn(state)
	}
}

func backoff(attempt int) time.Duration {
	if attempt >= len(backoffSchedule) {
		return backoffSchedule[len(backoffSchedule)-1]
	}
	return backoffSchedule[attempt]
}
