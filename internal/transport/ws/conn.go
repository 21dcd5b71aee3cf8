package ws

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"skirmish.ai/internal/logging"
	"skirmish.ai/internal/transport/tcp"
)

const writeWait = 5 * time.Second

// Conn carries one message per websocket text frame. It follows the tcp.Conn contract:
// Send reports false and Receive returns "" once the connection is unusable.
type Conn struct {
	ws          *websocket.Conn
	log         *zap.Logger
	readTimeout time.Duration

	connected atomic.Bool
	closeOnce sync.Once
}

type Option func(*Conn)

func WithLogger(l *zap.Logger) Option { return func(c *Conn) { c.log = logging.OrNop(l) } }

func WithReadTimeout(d time.Duration) Option { return func(c *Conn) { c.readTimeout = d } }

func newConn(ws *websocket.Conn, opts []Option) *Conn {
	c := &Conn{ws: ws, log: zap.NewNop()}
	for _, o := range opts {
		o(c)
	}
	ws.SetReadLimit(tcp.MaxFrameSize)
	c.connected.Store(true)
	return c
}

// Dial opens a websocket to url, e.g. ws://127.0.0.1:8080/agent.
func Dial(ctx context.Context, url string, opts ...Option) (*Conn, bool) {
	ws, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		logging.OrNop(optLogger(opts)).Warn("connect failed", zap.String("url", url), zap.Error(err))
		return nil, false
	}
	return newConn(ws, opts), true
}

func optLogger(opts []Option) *zap.Logger {
	c := &Conn{}
	for _, o := range opts {
		o(c)
	}
	return c.log
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  64 * 1024,
	WriteBufferSize: 64 * 1024,
	CheckOrigin:     func(r *http.Request) bool { return true }, // local play-testing only
}

// Accept upgrades an HTTP request into a Conn owned by the caller.
func Accept(w http.ResponseWriter, r *http.Request, opts ...Option) (*Conn, bool) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.OrNop(optLogger(opts)).Warn("upgrade failed", zap.Error(err))
		return nil, false
	}
	return newConn(ws, opts), true
}

func (c *Conn) Connected() bool { return c != nil && c.connected.Load() }

func (c *Conn) Send(msg string) bool {
	if !c.Connected() {
		return false
	}
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.ws.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
		c.log.Warn("send failed", zap.Int("bytes", len(msg)), zap.Error(err))
		c.Close()
		return false
	}
	return true
}

func (c *Conn) Receive() string {
	if !c.Connected() {
		return ""
	}
	if c.readTimeout > 0 {
		_ = c.ws.SetReadDeadline(time.Now().Add(c.readTimeout))
	}
	_, b, err := c.ws.ReadMessage()
	if err != nil {
		switch {
		case errors.Is(err, websocket.ErrReadLimit):
			c.log.Error("protocol violation", zap.Error(err))
		case websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway):
			c.log.Info("connection closed by peer")
		default:
			c.log.Warn("receive failed", zap.Error(err))
		}
		c.Close()
		return ""
	}
	return string(b)
}

// Close sends a best-effort close frame and releases the socket. It is idempotent.
func (c *Conn) Close() {
	if c == nil {
		return
	}
	c.connected.Store(false)
	c.closeOnce.Do(func() {
		_ = c.ws.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
		_ = c.ws.Close()
	})
}
