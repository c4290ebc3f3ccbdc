// ABOUTME: Websocket connection wrapper with a buffered outbound write loop
// ABOUTME: Holds live frames in a pending queue until history backfill completes

package chat

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

// ErrConnClosed is returned by Send after the connection has been closed.
var ErrConnClosed = errors.New("connection closed")

// Conn wraps a websocket and coordinates outbound writes via a buffered channel.
// All writes go through a single write loop, so frames on one connection never
// interleave. A new Conn starts in backfill mode: live frames delivered via
// Send are held in a pending queue until EndBackfill, which guarantees that
// history replay frames precede any live broadcast on this connection.
type Conn struct {
	ID string

	ws   *websocket.Conn
	send chan []byte

	mu          sync.Mutex
	backfilling bool
	pending     [][]byte

	once  sync.Once
	close chan struct{}
}

// NewConn constructs a Conn around an upgraded websocket. The connection
// starts in backfill mode; call EndBackfill once history replay is done.
func NewConn(ws *websocket.Conn, sendBuffer int) *Conn {
	if sendBuffer <= 0 {
		sendBuffer = 64
	}
	return &Conn{
		ID:          uuid.NewString(),
		ws:          ws,
		send:        make(chan []byte, sendBuffer),
		backfilling: true,
		close:       make(chan struct{}),
	}
}

// Start installs keepalive handling and launches the write loop. It must be
// called exactly once per connection, before any reads.
func (c *Conn) Start() {
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})
	go c.writeLoop()
}

// Send enqueues a live frame for delivery. During backfill the frame is
// parked in the pending queue instead. If the client is slow and the buffer
// is full, the connection is closed to keep backpressure bounded; the
// connection's own disconnect path handles deregistration.
func (c *Conn) Send(payload []byte) error {
	c.mu.Lock()
	if c.backfilling {
		c.pending = append(c.pending, payload)
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	return c.enqueue(payload)
}

// SendHistory enqueues a backfill frame directly, bypassing the pending
// queue. Only the owning session calls this, before EndBackfill.
func (c *Conn) SendHistory(payload []byte) error {
	return c.enqueue(payload)
}

// EndBackfill flushes any live frames that arrived during history replay and
// switches the connection to normal delivery. The flush happens under the
// mutex and backfill mode is cleared only afterwards, so a Send racing with
// the flush either parks behind the queued frames or enqueues after them,
// never between.
func (c *Conn) EndBackfill() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, payload := range c.pending {
		if err := c.enqueue(payload); err != nil {
			break
		}
	}
	c.pending = nil
	c.backfilling = false
}

func (c *Conn) enqueue(payload []byte) error {
	select {
	case <-c.close:
		return ErrConnClosed
	case c.send <- payload:
		return nil
	default:
		c.Close(websocket.CloseGoingAway, "send buffer full")
		return errors.New("connection buffer exceeded")
	}
}

// ReadText blocks until the next text frame arrives and returns its body.
// Any read error (including peer close) is the session's disconnect signal.
func (c *Conn) ReadText() (string, error) {
	for {
		msgType, data, err := c.ws.ReadMessage()
		if err != nil {
			return "", err
		}
		if msgType == websocket.TextMessage {
			return string(data), nil
		}
		// Ignore binary and control payloads; the protocol is text-only.
	}
}

// Close terminates the connection and stops the write loop.
func (c *Conn) Close(code int, reason string) {
	c.once.Do(func() {
		close(c.close)
		_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
		_ = c.ws.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), time.Now().Add(writeWait))
		_ = c.ws.Close()
	})
}

func (c *Conn) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.close:
			return
		case msg := <-c.send:
			if err := c.writeMessage(msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.writePing(); err != nil {
				return
			}
		}
	}
}

func (c *Conn) writeMessage(payload []byte) error {
	if err := c.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.ws.WriteMessage(websocket.TextMessage, payload)
}

func (c *Conn) writePing() error {
	if err := c.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.ws.WriteMessage(websocket.PingMessage, nil)
}
