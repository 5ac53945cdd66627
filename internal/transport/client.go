// Package transport talks to the telemetry producer: a websocket event
// stream for snapshots, alerts and kill acknowledgments, and a small REST
// surface for the app inventory and app actions.
package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/sysdash/sysdash/internal/errors"
	"github.com/sysdash/sysdash/internal/logger"
)

// Defaults applied by New.
const (
	DefaultSocketPath = "/ws"
	DefaultTimeout    = 10 * time.Second
)

// Options configure a Client.
type Options struct {
	// ServerURL is the producer base URL, e.g. http://localhost:5000.
	ServerURL string
	// SocketPath is the websocket endpoint path relative to ServerURL.
	SocketPath string
	// CSRFToken is sent as X-CSRFToken on uninstall requests.
	CSRFToken string
	// Timeout bounds REST calls, the websocket handshake and frame writes.
	Timeout time.Duration

	HTTPClient *http.Client
	Dialer     *websocket.Dialer
}

// Client is a connection to one producer. REST calls are safe for
// concurrent use; a single goroutine should run Listen.
type Client struct {
	opts   Options
	base   *url.URL
	log    logger.Logger
	http   *http.Client
	dialer *websocket.Dialer

	mu      sync.Mutex // guards conn and serializes writes
	conn    *websocket.Conn
	pending pendingKills
}

// New validates opts and creates a client. No connection is made.
func New(opts Options, log logger.Logger) (*Client, error) {
	raw := strings.TrimSpace(opts.ServerURL)
	if raw == "" {
		return nil, errors.New(errors.ErrConfig,
			"No server URL configured",
			"Set server.url in your config or pass --server http://host:port")
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Invalid server URL %q", opts.ServerURL),
			"Use a URL like http://localhost:5000")
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, errors.New(errors.ErrConfig,
			fmt.Sprintf("Unsupported server URL scheme %q", base.Scheme),
			"The server URL must start with http:// or https://")
	}
	if base.Host == "" {
		return nil, errors.New(errors.ErrConfig,
			fmt.Sprintf("Server URL %q has no host", opts.ServerURL),
			"Use a URL like http://localhost:5000")
	}
	base.Path = strings.TrimRight(base.Path, "/")

	if opts.SocketPath == "" {
		opts.SocketPath = DefaultSocketPath
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if log == nil {
		log = logger.Default()
	}

	c := &Client{
		opts:   opts,
		base:   base,
		log:    logger.Named(log, "transport"),
		http:   opts.HTTPClient,
		dialer: opts.Dialer,
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: opts.Timeout}
	}
	if c.dialer == nil {
		c.dialer = &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: opts.Timeout,
		}
	}
	return c, nil
}

// BaseURL returns the normalized producer URL.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// SocketURL returns the websocket URL derived from the server URL.
func (c *Client) SocketURL() string {
	u := *c.base
	if u.Scheme == "https" {
		u.Scheme = "wss"
	} else {
		u.Scheme = "ws"
	}
	u.Path = u.Path + "/" + strings.TrimLeft(c.opts.SocketPath, "/")
	return u.String()
}

// Connect dials the event stream and asks the producer to start pushing
// telemetry. Calling it again replaces the previous connection.
func (c *Client) Connect(ctx context.Context) error {
	target := c.SocketURL()
	conn, resp, err := c.dialer.DialContext(ctx, target, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrTransport,
			fmt.Sprintf("Can't connect to %s", target),
			"Check that the producer is running and server.url is correct")
	}

	c.mu.Lock()
	old := c.conn
	c.conn = conn
	c.mu.Unlock()
	if old != nil {
		old.Close()
	}

	c.log.Info("connected to %s", target)
	return c.StartMonitoring()
}

// StartMonitoring sends the start_monitoring control event. The producer
// tolerates duplicates.
func (c *Client) StartMonitoring() error {
	return c.send(Envelope{Event: EventStartMonitoring})
}

// KillProcess asks the producer to terminate pid. The returned request id is
// echoed on the matching KillResult.
func (c *Client) KillProcess(pid int) (string, error) {
	id := uuid.NewString()
	data, err := json.Marshal(map[string]any{"pid": pid, "request_id": id})
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrDecode, "Can't encode kill request", "")
	}

	c.pending.add(id, pid)
	if err := c.send(Envelope{Event: EventKillProcess, Data: data, RequestID: id}); err != nil {
		c.pending.remove(id)
		return "", err
	}
	c.log.Debug("kill_process pid=%d request=%s", pid, id)
	return id, nil
}

// Close shuts the event stream down. Listen returns once the connection is
// closed.
func (c *Client) Close() error {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()
	if conn == nil {
		return nil
	}
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	return conn.Close()
}

func (c *Client) send(env Envelope) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return errors.New(errors.ErrTransport,
			"Not connected to the producer",
			"Reconnect with 'r' or restart sysdash")
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(c.opts.Timeout))
	if err := c.conn.WriteJSON(env); err != nil {
		return errors.WrapWithCode(err, errors.ErrTransport,
			fmt.Sprintf("Can't send %s", env.Event),
			"The connection may have dropped; reconnect with 'r'")
	}
	return nil
}

// Listen reads frames until the connection drops or ctx is done, dispatching
// each event to h in arrival order. Unknown events are logged and skipped.
// When the stream drops, outstanding kill requests are failed through
// OnKillResult and OnDisconnect receives the cause. Cancelling ctx, Close or
// a newer Connect end the loop without calling OnDisconnect.
func (c *Client) Listen(ctx context.Context, h Handler) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return errors.New(errors.ErrTransport, "Not connected to the producer", "Call Connect before Listen")
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			c.mu.Lock()
			current := c.conn == conn
			if current {
				c.conn = nil
			}
			c.mu.Unlock()

			for _, k := range c.pending.drain() {
				h.OnKillResult(KillResult{
					RequestID: k.id,
					PID:       k.pid,
					Message:   "connection lost before the producer answered",
				})
			}

			if ctx.Err() != nil {
				return ctx.Err()
			}
			if !current {
				// Closed or replaced by Close/Connect.
				return nil
			}
			c.log.Warn("event stream closed: %v", err)
			wrapped := errors.WrapWithCode(err, errors.ErrTransport,
				"Lost connection to the producer",
				"Press r to reconnect")
			h.OnDisconnect(wrapped)
			return wrapped
		}
		c.dispatch(frame, h)
	}
}

func (c *Client) dispatch(frame []byte, h Handler) {
	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		c.log.Warn("dropping undecodable frame: %v", err)
		return
	}

	switch env.Event {
	case EventSystemUpdate:
		h.OnSnapshot(env.Data)
	case EventNewAlerts:
		h.OnAlerts(env.Data)
	case EventProcessKilled:
		res := decodeKillResult(env)
		if k, ok := c.pending.resolve(res.RequestID); ok {
			res.RequestID = k.id
			if res.PID == 0 {
				res.PID = k.pid
			}
		}
		h.OnKillResult(res)
	default:
		c.log.Debug("ignoring event %q", env.Event)
	}
}
