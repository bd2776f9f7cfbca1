package push

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"github.com/google/go-cmp/cmp"

	"github.com/five82/porch/internal/timers"
)

type wsServer struct {
	srv      *httptest.Server
	url      string
	conns    chan net.Conn
	accepted atomic.Int32
}

func newWSServer(t *testing.T) *wsServer {
	t.Helper()
	s := &wsServer{conns: make(chan net.Conn, 8)}
	s.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, _, _, err := ws.UpgradeHTTP(r, w)
		if err != nil {
			return
		}
		s.accepted.Add(1)
		s.conns <- conn
	}))
	s.url = "ws" + strings.TrimPrefix(s.srv.URL, "http") + "/ws"
	t.Cleanup(s.srv.Close)
	return s
}

func (s *wsServer) next(t *testing.T) net.Conn {
	t.Helper()
	select {
	case conn := <-s.conns:
		t.Cleanup(func() { _ = conn.Close() })
		return conn
	case <-time.After(2 * time.Second):
		t.Fatalf("no websocket connection accepted")
		return nil
	}
}

func send(t *testing.T, conn net.Conn, msg string) {
	t.Helper()
	if err := wsutil.WriteServerMessage(conn, ws.OpText, []byte(msg)); err != nil {
		t.Fatalf("WriteServerMessage: %v", err)
	}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func newManager(t *testing.T, url string, retry time.Duration) (*Manager, *timers.Scheduler, context.Context) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	sched := timers.New()
	m := New(url, sched, WithRetryDelay(retry))
	t.Cleanup(func() {
		cancel()
		_ = m.Close()
		sched.Stop()
	})
	return m, sched, ctx
}

func TestManager_DeliversInOrderAndSkipsMalformed(t *testing.T) {
	srv := newWSServer(t)
	m, _, ctx := newManager(t, srv.url, time.Hour)

	envs := make(chan Envelope, 10)
	m.OnMessage(func(e Envelope) { envs <- e })
	m.Connect(ctx)

	conn := srv.next(t)
	waitFor(t, "open", func() bool { return m.State() == Open })

	send(t, conn, `{"type":"weather","data":{"description":"Clear"}}`)
	send(t, conn, `{not json`)
	send(t, conn, `{"data":{}}`)
	send(t, conn, `{"type":"calendar","data":{"today":[]}}`)
	send(t, conn, `{"type":"notes","data":{"content":"milk"}}`)

	var got []string
	for len(got) < 3 {
		select {
		case e := <-envs:
			got = append(got, e.Type)
		case <-time.After(2 * time.Second):
			t.Fatalf("received %v, want 3 envelopes", got)
		}
	}
	if diff := cmp.Diff([]string{"weather", "calendar", "notes"}, got); diff != "" {
		t.Fatalf("envelope order mismatch (-want +got):\n%s", diff)
	}
	if m.State() != Open {
		t.Fatalf("state = %v after malformed frames, want open", m.State())
	}
}

func TestManager_ReconnectsAfterClose(t *testing.T) {
	srv := newWSServer(t)
	m, _, ctx := newManager(t, srv.url, 20*time.Millisecond)

	var mu sync.Mutex
	var states []State
	m.OnStateChange(func(s State) {
		mu.Lock()
		defer mu.Unlock()
		states = append(states, s)
	})
	m.Connect(ctx)

	first := srv.next(t)
	waitFor(t, "open", func() bool { return m.State() == Open })
	_ = first.Close()

	second := srv.next(t)
	waitFor(t, "reopen", func() bool { return m.State() == Open })

	envs := make(chan Envelope, 1)
	m.OnMessage(func(e Envelope) { envs <- e })
	send(t, second, `{"type":"jarvis","data":{"briefing":"hi"}}`)
	select {
	case e := <-envs:
		if e.Type != "jarvis" {
			t.Fatalf("type = %q, want jarvis", e.Type)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no message after reconnect")
	}

	mu.Lock()
	defer mu.Unlock()
	want := []State{Open, ClosedPendingRetry, Connecting, Open}
	if diff := cmp.Diff(want, states); diff != "" {
		t.Fatalf("state transitions mismatch (-want +got):\n%s", diff)
	}
	if got := srv.accepted.Load(); got != 2 {
		t.Fatalf("accepted connections = %d, want 2", got)
	}
}

func TestManager_AtMostOneLiveChannel(t *testing.T) {
	srv := newWSServer(t)
	m, _, ctx := newManager(t, srv.url, time.Hour)

	for i := 0; i < 3; i++ {
		m.Connect(ctx)
	}
	srv.next(t)
	waitFor(t, "open", func() bool { return m.State() == Open })
	m.Connect(ctx)
	time.Sleep(50 * time.Millisecond)

	if got := srv.accepted.Load(); got != 1 {
		t.Fatalf("accepted connections = %d, want 1", got)
	}
}

func TestManager_RepeatedLossSchedulesOneRetry(t *testing.T) {
	m, sched, ctx := newManager(t, "ws://127.0.0.1:1/ws", time.Hour)

	for i := 0; i < 4; i++ {
		m.lost(ctx, nil)
	}
	if diff := cmp.Diff([]string{ReconnectTimer}, sched.Names()); diff != "" {
		t.Fatalf("pending timers mismatch (-want +got):\n%s", diff)
	}
	if m.State() != ClosedPendingRetry {
		t.Fatalf("state = %v, want closed-pending-retry", m.State())
	}
}

func TestManager_DialFailureSchedulesRetry(t *testing.T) {
	srv := newWSServer(t)
	url := srv.url
	srv.srv.Close()

	m, sched, ctx := newManager(t, url, time.Hour)
	m.Connect(ctx)

	waitFor(t, "retry pending", func() bool {
		return m.State() == ClosedPendingRetry && sched.Active(ReconnectTimer)
	})
}

func TestManager_CloseCancelsRetry(t *testing.T) {
	m, sched, ctx := newManager(t, "ws://127.0.0.1:1/ws", time.Hour)
	m.lost(ctx, nil)
	if !sched.Active(ReconnectTimer) {
		t.Fatalf("reconnect not scheduled")
	}
	if err := m.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	if sched.Active(ReconnectTimer) {
		t.Fatalf("reconnect still pending after Close")
	}
	m.lost(ctx, nil)
	if sched.Active(ReconnectTimer) {
		t.Fatalf("closed manager scheduled a reconnect")
	}
}

func TestDecodeEnvelope(t *testing.T) {
	env, err := decodeEnvelope([]byte(`{"type":" notes ","data":{"content":"x"}}`))
	if err != nil {
		t.Fatalf("decodeEnvelope returned error: %v", err)
	}
	if env.Type != "notes" || string(env.Data) != `{"content":"x"}` {
		t.Fatalf("envelope = %#v", env)
	}
	if _, err := decodeEnvelope([]byte(`{"data":1}`)); err != errMissingType {
		t.Fatalf("missing type error = %v, want errMissingType", err)
	}
}

func TestStateString(t *testing.T) {
	if ClosedPendingRetry.String() != "closed-pending-retry" || State(99).String() != "unknown" {
		t.Fatalf("unexpected State strings")
	}
}
