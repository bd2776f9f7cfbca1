// Package push maintains the receive-only WebSocket channel to the
// dashboard backend.
//
// The channel is best-effort. Messages that arrive while disconnected are
// simply never seen; the poll scheduler remains the source of truth.
package push

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"sync"
	"time"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"

	"github.com/five82/porch/internal/logs"
	"github.com/five82/porch/internal/timers"
)

// State is the connection state of the push channel.
type State int

const (
	Connecting State = iota
	Open
	ClosedPendingRetry
)

func (s State) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Open:
		return "open"
	case ClosedPendingRetry:
		return "closed-pending-retry"
	default:
		return "unknown"
	}
}

// Envelope is a single inbound push message.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Handler receives envelopes in the order they were read.
type Handler func(Envelope)

const (
	// DefaultRetryDelay is the fixed reconnect delay. There is no backoff;
	// the backend is normally on the same LAN.
	DefaultRetryDelay = 5 * time.Second

	// ReconnectTimer is the timer name used for pending reconnects.
	ReconnectTimer = "reconnect"

	dialTimeout = 10 * time.Second
)

// Option customizes a Manager.
type Option func(*Manager)

// WithRetryDelay overrides DefaultRetryDelay.
func WithRetryDelay(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.retry = d
		}
	}
}

// Manager owns at most one live push connection and reconnects after a
// fixed delay for as long as it is not closed.
type Manager struct {
	url    string
	timers *timers.Scheduler
	retry  time.Duration
	dialer ws.Dialer

	mu       sync.Mutex
	state    State
	conn     net.Conn
	dialing  bool
	closed   bool
	handlers []Handler
	watchers []func(State)
}

// New builds a Manager for the given ws:// or wss:// URL. Reconnects are
// scheduled on sched under ReconnectTimer.
func New(url string, sched *timers.Scheduler, opts ...Option) *Manager {
	m := &Manager{
		url:    url,
		timers: sched,
		retry:  DefaultRetryDelay,
		dialer: ws.Dialer{Timeout: dialTimeout},
		state:  Connecting,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// OnMessage registers a handler for inbound envelopes.
func (m *Manager) OnMessage(h Handler) {
	if h == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers = append(m.handlers, h)
}

// OnStateChange registers a callback for connection state transitions.
func (m *Manager) OnStateChange(fn func(State)) {
	if fn == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.watchers = append(m.watchers, fn)
}

// State returns the current connection state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Connect opens the channel in the background. It is a no-op while a dial
// is in flight or a connection is live.
func (m *Manager) Connect(ctx context.Context) {
	m.mu.Lock()
	if m.closed || m.dialing || m.conn != nil || ctx.Err() != nil {
		m.mu.Unlock()
		return
	}
	m.dialing = true
	notify := m.setStateLocked(Connecting)
	m.mu.Unlock()
	notify()

	go m.run(ctx)
}

// Close drops the live connection and cancels any pending reconnect. The
// manager cannot be reused.
func (m *Manager) Close() error {
	m.mu.Lock()
	m.closed = true
	conn := m.conn
	m.conn = nil
	m.mu.Unlock()

	m.timers.Cancel(ReconnectTimer)
	if conn != nil {
		return conn.Close()
	}
	return nil
}

func (m *Manager) run(ctx context.Context) {
	conn, br, _, err := m.dialer.Dial(ctx, m.url)
	if err != nil {
		logs.Error("push dial failed", err, "url", m.url)
		m.lost(ctx, nil)
		return
	}

	m.mu.Lock()
	m.dialing = false
	if m.closed {
		m.mu.Unlock()
		_ = conn.Close()
		return
	}
	m.conn = conn
	notify := m.setStateLocked(Open)
	m.mu.Unlock()

	m.timers.Cancel(ReconnectTimer)
	logs.Info("push channel open", "url", m.url)
	notify()

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	var r io.Reader = conn
	if br != nil {
		r = br
	}
	m.readLoop(readWriter{Reader: r, Writer: conn})

	_ = conn.Close()
	m.lost(ctx, conn)
}

// readLoop reads frames until the connection fails. Control frames are
// answered by wsutil; a malformed message is logged and skipped.
func (m *Manager) readLoop(rw io.ReadWriter) {
	for {
		data, _, err := wsutil.ReadServerData(rw)
		if err != nil {
			logs.Info("push channel closed", "url", m.url, "reason", err)
			return
		}
		env, err := decodeEnvelope(data)
		if err != nil {
			logs.Error("discarding malformed push message", err, "bytes", len(data))
			continue
		}
		m.dispatch(env)
	}
}

func (m *Manager) dispatch(env Envelope) {
	m.mu.Lock()
	handlers := make([]Handler, len(m.handlers))
	copy(handlers, m.handlers)
	m.mu.Unlock()

	for _, h := range handlers {
		h(env)
	}
}

// lost moves to closed-pending-retry and schedules a single reconnect.
// Repeated calls before the retry fires do not add timers.
func (m *Manager) lost(ctx context.Context, conn net.Conn) {
	m.mu.Lock()
	m.dialing = false
	if conn != nil && m.conn == conn {
		m.conn = nil
	}
	if m.closed || ctx.Err() != nil {
		m.mu.Unlock()
		return
	}
	notify := m.setStateLocked(ClosedPendingRetry)
	m.mu.Unlock()
	notify()

	if m.timers.Ensure(ReconnectTimer, m.retry, func() { m.Connect(ctx) }) {
		logs.Info("push reconnect scheduled", "delay", m.retry)
	}
}

func (m *Manager) setStateLocked(s State) func() {
	if m.state == s {
		return func() {}
	}
	m.state = s
	watchers := make([]func(State), len(m.watchers))
	copy(watchers, m.watchers)
	return func() {
		for _, fn := range watchers {
			fn(s)
		}
	}
}

type readWriter struct {
	io.Reader
	io.Writer
}
