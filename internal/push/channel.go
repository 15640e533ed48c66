package push

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"frameops/internal/config"
	"frameops/internal/logging"
)

// ErrChannelClosed is returned by Connect after a deliberate Disconnect.
var ErrChannelClosed = errors.New("push: channel closed")

// Scheduler schedules a named one-shot callback. The console backs it with
// the session store's timer registry so every pending callback shares one
// cancellation path.
type Scheduler interface {
	After(name string, delay time.Duration, fn func())
}

type handler struct {
	id        int
	eventType string
	fn        func(Event)
}

// Channel is the console's end of the backend progress websocket.
type Channel struct {
	endpoint    string
	sessionID   string
	log         *slog.Logger
	sched       Scheduler
	dialer      *websocket.Dialer
	heartbeat   time.Duration
	baseDelay   time.Duration
	maxAttempts int

	mu            sync.Mutex
	conn          *websocket.Conn
	closed        bool
	attempts      int
	handlers      []handler
	nextHandlerID int
	statusFns     []func(live bool)

	writeMu sync.Mutex
}

// NewChannel builds a channel from configuration. Nothing connects until
// Connect is called.
func NewChannel(cfg *config.Config, sessionID string, sched Scheduler, log *slog.Logger) *Channel {
	return &Channel{
		endpoint:    cfg.Backend.WebsocketURL,
		sessionID:   sessionID,
		log:         logging.OrNop(log),
		sched:       sched,
		dialer:      &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		heartbeat:   time.Duration(cfg.Push.HeartbeatInterval) * time.Second,
		baseDelay:   time.Duration(cfg.Push.ReconnectBaseDelay) * time.Millisecond,
		maxAttempts: cfg.Push.ReconnectMaxAttempts,
	}
}

// On registers a handler for one event type and returns a token for Off. An
// empty type matches every event. Handlers run in registration order on the
// read loop goroutine.
func (c *Channel) On(eventType string, fn func(Event)) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextHandlerID++
	id := c.nextHandlerID
	c.handlers = append(c.handlers, handler{id: id, eventType: eventType, fn: fn})
	return id
}

// Off removes a handler registered with On.
func (c *Channel) Off(eventType string, id int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, h := range c.handlers {
		if h.id == id && h.eventType == eventType {
			c.handlers = append(c.handlers[:i], c.handlers[i+1:]...)
			return
		}
	}
}

// OnStatus registers a callback for connectivity changes.
func (c *Channel) OnStatus(fn func(live bool)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.statusFns = append(c.statusFns, fn)
}

// Connected reports whether the channel currently holds a live connection.
func (c *Channel) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// Connect dials the progress endpoint. Calling it on a live channel is a
// no-op. A dial failure schedules a reconnect attempt before returning the
// error, so callers only need one call to start the retry chain.
func (c *Channel) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrChannelClosed
	}
	if c.conn != nil {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	target, err := url.Parse(c.endpoint)
	if err != nil {
		return err
	}
	query := target.Query()
	query.Set("client_session_id", c.sessionID)
	target.RawQuery = query.Encode()

	conn, _, err := c.dialer.DialContext(ctx, target.String(), nil)
	if err != nil {
		c.log.Warn("progress channel dial failed", "url", c.endpoint, "error", err)
		c.scheduleReconnect()
		return err
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		conn.Close()
		return ErrChannelClosed
	}
	c.conn = conn
	c.attempts = 0
	c.mu.Unlock()

	c.log.Info("progress channel connected", "url", c.endpoint)
	c.notifyStatus(true)

	done := make(chan struct{})
	go c.readLoop(conn, done)
	go c.heartbeatLoop(done)
	return nil
}

// Disconnect closes the connection and suppresses further reconnects.
func (c *Channel) Disconnect() {
	c.mu.Lock()
	c.closed = true
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()

	if conn != nil {
		c.writeMu.Lock()
		deadline := time.Now().Add(time.Second)
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
		c.writeMu.Unlock()
		conn.Close()
		c.notifyStatus(false)
	}
}

// Send marshals v and writes it as one JSON frame.
func (c *Channel) Send(v any) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return ErrChannelClosed
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return conn.WriteJSON(v)
}

// SendText writes a raw text frame. Used for the heartbeat ping.
func (c *Channel) SendText(text string) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return ErrChannelClosed
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return conn.WriteMessage(websocket.TextMessage, []byte(text))
}

func (c *Channel) readLoop(conn *websocket.Conn, done chan struct{}) {
	defer close(done)
	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			c.log.Warn("progress channel read failed", "error", err)
			break
		}
		if messageType == websocket.TextMessage {
			switch string(data) {
			case "pong":
				continue
			case "ping":
				c.SendText("pong")
				continue
			}
		}

		var event Event
		if err := json.Unmarshal(data, &event); err != nil {
			c.log.Warn("progress channel dropped malformed event", "error", err)
			continue
		}
		if !event.ForSession(c.sessionID) {
			c.log.Debug("progress channel dropped foreign event",
				"type", event.Type, "session", event.ClientSessionID)
			continue
		}
		c.dispatch(event)
	}

	c.mu.Lock()
	wasOurs := c.conn == conn
	if wasOurs {
		c.conn = nil
	}
	closed := c.closed
	c.mu.Unlock()

	if wasOurs {
		c.notifyStatus(false)
		if !closed {
			c.scheduleReconnect()
		}
	}
}

func (c *Channel) heartbeatLoop(done chan struct{}) {
	if c.heartbeat <= 0 {
		return
	}
	ticker := time.NewTicker(c.heartbeat)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := c.SendText("ping"); err != nil {
				return
			}
		}
	}
}

// scheduleReconnect queues the next dial with a delay that grows linearly
// with the attempt number. After maxAttempts consecutive failures the chain
// stops until the next explicit Connect.
func (c *Channel) scheduleReconnect() {
	c.mu.Lock()
	if c.closed || c.sched == nil {
		c.mu.Unlock()
		return
	}
	c.attempts++
	attempt := c.attempts
	c.mu.Unlock()

	if attempt > c.maxAttempts {
		c.log.Error("progress channel gave up reconnecting", "attempts", attempt-1)
		return
	}
	delay := c.baseDelay * time.Duration(attempt)
	c.log.Info("progress channel reconnecting", "attempt", attempt, "delay", delay)
	c.sched.After("push.reconnect", delay, func() {
		if err := c.Connect(context.Background()); err != nil && !errors.Is(err, ErrChannelClosed) {
			c.log.Warn("progress channel reconnect failed", "attempt", attempt, "error", err)
		}
	})
}

func (c *Channel) dispatch(event Event) {
	c.mu.Lock()
	handlers := make([]handler, len(c.handlers))
	copy(handlers, c.handlers)
	c.mu.Unlock()

	for _, h := range handlers {
		if h.eventType != "" && h.eventType != event.Type {
			continue
		}
		func() {
			defer func() {
				if r := recover(); r != nil {
					c.log.Error("progress handler panicked", "type", event.Type, "panic", r)
				}
			}()
			h.fn(event)
		}()
	}
}

func (c *Channel) notifyStatus(live bool) {
	c.mu.Lock()
	fns := make([]func(bool), len(c.statusFns))
	copy(fns, c.statusFns)
	c.mu.Unlock()
	for _, fn := range fns {
		func() {
			defer func() {
				if r := recover(); r != nil {
					c.log.Error("status handler panicked", "panic", r)
				}
			}()
			fn(live)
		}()
	}
}
