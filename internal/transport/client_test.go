package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sysdash/sysdash/internal/errors"
	"github.com/sysdash/sysdash/internal/logger"
)

// fakeProducer is a websocket endpoint that records inbound frames and lets
// the test push outbound ones.
type fakeProducer struct {
	t        *testing.T
	srv      *httptest.Server
	received chan Envelope
	conns    chan *websocket.Conn
}

func newFakeProducer(t *testing.T) *fakeProducer {
	t.Helper()
	p := &fakeProducer{
		t:        t,
		received: make(chan Envelope, 16),
		conns:    make(chan *websocket.Conn, 4),
	}
	up := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := up.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		p.conns <- conn
		for {
			var env Envelope
			if err := conn.ReadJSON(&env); err != nil {
				return
			}
			p.received <- env
		}
	})
	p.srv = httptest.NewServer(mux)
	t.Cleanup(p.srv.Close)
	return p
}

func (p *fakeProducer) next() Envelope {
	p.t.Helper()
	select {
	case env := <-p.received:
		return env
	case <-time.After(2 * time.Second):
		p.t.Fatal("timed out waiting for frame")
		return Envelope{}
	}
}

func (p *fakeProducer) conn() *websocket.Conn {
	p.t.Helper()
	select {
	case c := <-p.conns:
		return c
	case <-time.After(2 * time.Second):
		p.t.Fatal("timed out waiting for connection")
		return nil
	}
}

// recorder is a Handler that stores everything it receives.
type recorder struct {
	mu        sync.Mutex
	snapshots [][]byte
	alerts    [][]byte
	kills     []KillResult
	disc      chan error
	events    chan string
}

func newRecorder() *recorder {
	return &recorder{disc: make(chan error, 1), events: make(chan string, 16)}
}

func (r *recorder) OnSnapshot(raw []byte) {
	r.mu.Lock()
	r.snapshots = append(r.snapshots, raw)
	r.mu.Unlock()
	r.events <- EventSystemUpdate
}

func (r *recorder) OnAlerts(raw []byte) {
	r.mu.Lock()
	r.alerts = append(r.alerts, raw)
	r.mu.Unlock()
	r.events <- EventNewAlerts
}

func (r *recorder) OnKillResult(res KillResult) {
	r.mu.Lock()
	r.kills = append(r.kills, res)
	r.mu.Unlock()
	r.events <- EventProcessKilled
}

func (r *recorder) OnDisconnect(err error) { r.disc <- err }

func (r *recorder) wait(t *testing.T, event string) {
	t.Helper()
	select {
	case got := <-r.events:
		require.Equal(t, event, got)
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %s", event)
	}
}

func newTestClient(t *testing.T, serverURL string) *Client {
	t.Helper()
	c, err := New(Options{ServerURL: serverURL, Timeout: 2 * time.Second}, logger.NewBufferLogger())
	require.NoError(t, err)
	return c
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"empty", ""},
		{"bad scheme", "ftp://host"},
		{"no host", "http://"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(Options{ServerURL: tt.url}, nil)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrConfig))
		})
	}
}

func TestSocketURL(t *testing.T) {
	tests := []struct {
		server string
		path   string
		expect string
	}{
		{"http://localhost:5000", "", "ws://localhost:5000/ws"},
		{"https://mon.example.com/", "/socket", "wss://mon.example.com/socket"},
		{"localhost:5000/prefix", "ws", "ws://localhost:5000/prefix/ws"},
	}
	for _, tt := range tests {
		c, err := New(Options{ServerURL: tt.server, SocketPath: tt.path}, nil)
		require.NoError(t, err)
		assert.Equal(t, tt.expect, c.SocketURL())
	}
}

// isOpen reports whether c holds an event stream.
func isOpen(c *Client) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

func TestNew_NilLoggerUsesDefault(t *testing.T) {
	orig := logger.Default()
	defer logger.SetDefault(orig)
	buf := logger.NewBufferLogger()
	logger.SetDefault(buf)

	p := newFakeProducer(t)
	c, err := New(Options{ServerURL: p.srv.URL, Timeout: 2 * time.Second}, nil)
	require.NoError(t, err)
	require.NoError(t, c.Connect(context.Background()))
	defer c.Close()
	p.next()

	assert.True(t, buf.HasLevel("info"))
}

func TestConnect_SendsStartMonitoring(t *testing.T) {
	p := newFakeProducer(t)
	c := newTestClient(t, p.srv.URL)

	require.NoError(t, c.Connect(context.Background()))
	defer c.Close()

	assert.True(t, isOpen(c))
	assert.Equal(t, EventStartMonitoring, p.next().Event)

	// Repeating is allowed
	require.NoError(t, c.StartMonitoring())
	assert.Equal(t, EventStartMonitoring, p.next().Event)
}

func TestConnect_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	c := newTestClient(t, srv.URL)
	err := c.Connect(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrTransport))
	assert.False(t, isOpen(c))
}

func TestListen_DispatchesInOrder(t *testing.T) {
	p := newFakeProducer(t)
	c := newTestClient(t, p.srv.URL)
	require.NoError(t, c.Connect(context.Background()))
	defer c.Close()
	server := p.conn()
	p.next()

	rec := newRecorder()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = c.Listen(ctx, rec) }()

	require.NoError(t, server.WriteMessage(websocket.TextMessage, []byte(`{"event":"system_update","data":{"cpu":{"percent":12}}}`)))
	require.NoError(t, server.WriteMessage(websocket.TextMessage, []byte(`{"event":"mystery","data":1}`)))
	require.NoError(t, server.WriteMessage(websocket.TextMessage, []byte(`not json`)))
	require.NoError(t, server.WriteMessage(websocket.TextMessage, []byte(`{"event":"new_alerts","data":[{"title":"x"}]}`)))

	rec.wait(t, EventSystemUpdate)
	rec.wait(t, EventNewAlerts)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	require.Len(t, rec.snapshots, 1)
	assert.JSONEq(t, `{"cpu":{"percent":12}}`, string(rec.snapshots[0]))
	require.Len(t, rec.alerts, 1)
	assert.JSONEq(t, `[{"title":"x"}]`, string(rec.alerts[0]))
}

func TestKillProcess_CorrelatesByRequestID(t *testing.T) {
	p := newFakeProducer(t)
	c := newTestClient(t, p.srv.URL)
	require.NoError(t, c.Connect(context.Background()))
	defer c.Close()
	server := p.conn()
	p.next()

	rec := newRecorder()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = c.Listen(ctx, rec) }()

	first, err := c.KillProcess(100)
	require.NoError(t, err)
	second, err := c.KillProcess(200)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	sent := p.next()
	assert.Equal(t, EventKillProcess, sent.Event)
	assert.Equal(t, first, sent.RequestID)
	var data struct {
		PID       int    `json:"pid"`
		RequestID string `json:"request_id"`
	}
	require.NoError(t, json.Unmarshal(sent.Data, &data))
	assert.Equal(t, 100, data.PID)
	assert.Equal(t, first, data.RequestID)
	p.next()

	// Answer the second request first, by id
	require.NoError(t, server.WriteJSON(map[string]any{
		"event": "process_killed", "request_id": second,
		"data": map[string]any{"success": false, "message": "denied"},
	}))
	rec.wait(t, EventProcessKilled)

	// An ack without any id resolves the oldest outstanding request
	require.NoError(t, server.WriteJSON(map[string]any{
		"event": "process_killed",
		"data":  map[string]any{"success": true, "message": "killed"},
	}))
	rec.wait(t, EventProcessKilled)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	require.Len(t, rec.kills, 2)
	assert.Equal(t, KillResult{RequestID: second, PID: 200, Success: false, Message: "denied"}, rec.kills[0])
	assert.Equal(t, KillResult{RequestID: first, PID: 100, Success: true, Message: "killed"}, rec.kills[1])
	assert.Zero(t, c.pending.len())
}

func TestKillProcess_ForeignAckPassesThrough(t *testing.T) {
	p := newFakeProducer(t)
	c := newTestClient(t, p.srv.URL)
	require.NoError(t, c.Connect(context.Background()))
	defer c.Close()
	server := p.conn()
	p.next()

	rec := newRecorder()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = c.Listen(ctx, rec) }()

	mine, err := c.KillProcess(100)
	require.NoError(t, err)
	p.next()

	// Another client's ack must not consume our pending request
	require.NoError(t, server.WriteJSON(map[string]any{
		"event": "process_killed", "request_id": "someone-else",
		"data": map[string]any{"pid": 999, "success": false, "message": "not yours"},
	}))
	rec.wait(t, EventProcessKilled)
	assert.Equal(t, 1, c.pending.len())

	require.NoError(t, server.WriteJSON(map[string]any{
		"event": "process_killed", "request_id": mine,
		"data": map[string]any{"success": true, "message": "killed"},
	}))
	rec.wait(t, EventProcessKilled)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	require.Len(t, rec.kills, 2)
	assert.Equal(t, KillResult{RequestID: "someone-else", PID: 999, Success: false, Message: "not yours"}, rec.kills[0])
	assert.Equal(t, KillResult{RequestID: mine, PID: 100, Success: true, Message: "killed"}, rec.kills[1])
	assert.Zero(t, c.pending.len())
}

func TestKillProcess_NotConnected(t *testing.T) {
	c := newTestClient(t, "http://localhost:1")
	_, err := c.KillProcess(1)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrTransport))
	assert.Zero(t, c.pending.len())
}

func TestListen_DropFailsPendingAndReportsDisconnect(t *testing.T) {
	p := newFakeProducer(t)
	c := newTestClient(t, p.srv.URL)
	require.NoError(t, c.Connect(context.Background()))
	server := p.conn()
	p.next()

	rec := newRecorder()
	errCh := make(chan error, 1)
	go func() { errCh <- c.Listen(context.Background(), rec) }()

	id, err := c.KillProcess(7)
	require.NoError(t, err)
	p.next()

	server.Close()

	rec.wait(t, EventProcessKilled)
	select {
	case err := <-rec.disc:
		assert.True(t, errors.IsCode(err, errors.ErrTransport))
	case <-time.After(2 * time.Second):
		t.Fatal("no disconnect")
	}
	assert.Error(t, <-errCh)
	assert.False(t, isOpen(c))

	rec.mu.Lock()
	defer rec.mu.Unlock()
	require.Len(t, rec.kills, 1)
	assert.Equal(t, id, rec.kills[0].RequestID)
	assert.False(t, rec.kills[0].Success)
}

func TestListen_ContextCancelSkipsDisconnect(t *testing.T) {
	p := newFakeProducer(t)
	c := newTestClient(t, p.srv.URL)
	require.NoError(t, c.Connect(context.Background()))
	p.next()

	rec := newRecorder()
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- c.Listen(ctx, rec) }()

	cancel()
	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Listen did not return")
	}
	assert.Empty(t, rec.disc)
}

func TestListen_NotConnected(t *testing.T) {
	c := newTestClient(t, "http://localhost:1")
	err := c.Listen(context.Background(), HandlerFuncs{})
	assert.True(t, errors.IsCode(err, errors.ErrTransport))
}

func TestHandlerFuncs_NilFieldsIgnored(t *testing.T) {
	var got []byte
	h := HandlerFuncs{Snapshot: func(raw []byte) { got = raw }}

	assert.NotPanics(t, func() {
		h.OnSnapshot([]byte("x"))
		h.OnAlerts(nil)
		h.OnKillResult(KillResult{})
		h.OnDisconnect(nil)
	})
	assert.Equal(t, []byte("x"), got)
}

func TestPendingKills_Resolve(t *testing.T) {
	var p pendingKills
	_, ok := p.resolve("")
	assert.False(t, ok)

	p.add("a", 1)
	p.add("b", 2)
	p.add("c", 3)

	k, ok := p.resolve("b")
	require.True(t, ok)
	assert.Equal(t, 2, k.pid)

	_, ok = p.resolve("unknown")
	assert.False(t, ok)
	assert.Equal(t, 2, p.len())

	k, ok = p.resolve("")
	require.True(t, ok)
	assert.Equal(t, "a", k.id)

	assert.Len(t, p.drain(), 1)
	assert.Zero(t, p.len())
}
