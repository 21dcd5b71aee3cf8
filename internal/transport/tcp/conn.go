package tcp

import (
	"context"
	"errors"
	"io"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"skirmish.ai/internal/logging"
)

// Conn carries length-framed messages over one stream socket. Failures never surface as
// errors: Send reports false, Receive returns "", and the connection is marked closed.
// A Conn is not safe for concurrent Send or concurrent Receive calls.
type Conn struct {
	nc          net.Conn
	log         *zap.Logger
	readTimeout time.Duration

	connected atomic.Bool
	closeOnce sync.Once
}

type Option func(*Conn)

func WithLogger(l *zap.Logger) Option { return func(c *Conn) { c.log = logging.OrNop(l) } }

// WithReadTimeout bounds how long Receive waits for each frame. Zero waits forever.
func WithReadTimeout(d time.Duration) Option { return func(c *Conn) { c.readTimeout = d } }

// NewConn takes ownership of nc.
func NewConn(nc net.Conn, opts ...Option) *Conn {
	c := newConn(opts)
	c.nc = nc
	c.connected.Store(true)
	return c
}

func newConn(opts []Option) *Conn {
	c := &Conn{log: zap.NewNop()}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Dial connects to host:port. On failure it logs and returns (nil, false).
func Dial(ctx context.Context, host string, port int, opts ...Option) (*Conn, bool) {
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	c := newConn(opts)
	var d net.Dialer
	nc, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		c.log.Warn("connect failed", zap.String("addr", addr), zap.Error(err))
		return nil, false
	}
	c.nc = nc
	c.connected.Store(true)
	c.log.Info("connected", zap.String("addr", addr))
	return c, true
}

func (c *Conn) Connected() bool { return c != nil && c.connected.Load() }

func (c *Conn) RemoteAddr() string {
	if c == nil || c.nc == nil {
		return ""
	}
	return c.nc.RemoteAddr().String()
}

// Send writes msg as one frame.
func (c *Conn) Send(msg string) bool {
	if !c.Connected() {
		return false
	}
	if err := WriteFrame(c.nc, []byte(msg)); err != nil {
		c.log.Warn("send failed", zap.Int("bytes", len(msg)), zap.Error(err))
		c.Close()
		return false
	}
	return true
}

// Receive blocks for the next frame. It returns "" once the peer closes, on I/O error,
// or when the peer announces a frame above MaxFrameSize; in all three cases the
// connection is closed.
func (c *Conn) Receive() string {
	if !c.Connected() {
		return ""
	}
	if c.readTimeout > 0 {
		_ = c.nc.SetReadDeadline(time.Now().Add(c.readTimeout))
	}
	b, err := ReadFrame(c.nc)
	if err != nil {
		switch {
		case errors.Is(err, ErrFrameTooLarge):
			c.log.Error("protocol violation", zap.Error(err))
		case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
			c.log.Info("connection closed by peer")
		default:
			c.log.Warn("receive failed", zap.Error(err))
		}
		c.Close()
		return ""
	}
	return string(b)
}

// Close is idempotent and always releases the socket.
func (c *Conn) Close() {
	if c == nil {
		return
	}
	c.connected.Store(false)
	c.closeOnce.Do(func() {
		if c.nc != nil {
			_ = c.nc.Close()
		}
	})
}
