package tcp

import (
	"net"
	"strconv"
	"sync/atomic"

	"go.uber.org/zap"

	"skirmish.ai/internal/logging"
)

// Listener accepts agent connections. It and the Conns it hands out have independent
// lifetimes.
type Listener struct {
	ln      net.Listener
	log     *zap.Logger
	connOpt []Option
	running atomic.Bool
}

// Listen binds all interfaces on port (0 picks a free port). Options are applied to
// every accepted Conn.
func Listen(port int, log *zap.Logger, opts ...Option) (*Listener, bool) {
	log = logging.OrNop(log)
	ln, err := net.Listen("tcp", ":"+strconv.Itoa(port))
	if err != nil {
		log.Error("listen failed", zap.Int("port", port), zap.Error(err))
		return nil, false
	}
	l := &Listener{ln: ln, log: log, connOpt: append([]Option{WithLogger(log)}, opts...)}
	l.running.Store(true)
	log.Info("listening", zap.Int("port", l.Port()))
	return l, true
}

func (l *Listener) Port() int {
	if a, ok := l.ln.Addr().(*net.TCPAddr); ok {
		return a.Port
	}
	return 0
}

func (l *Listener) Running() bool { return l != nil && l.running.Load() }

// Accept blocks for one connection. It returns nil after Stop or on error.
func (l *Listener) Accept() *Conn {
	if !l.Running() {
		return nil
	}
	nc, err := l.ln.Accept()
	if err != nil {
		if l.Running() {
			l.log.Warn("accept failed", zap.Error(err))
		}
		return nil
	}
	l.log.Info("new connection", zap.String("remote", nc.RemoteAddr().String()))
	return NewConn(nc, l.connOpt...)
}

// Stop closes the accepting socket, unblocking any in-flight Accept.
func (l *Listener) Stop() {
	if l == nil || !l.running.Swap(false) {
		return
	}
	_ = l.ln.Close()
}
