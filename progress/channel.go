package progress

import (
	"encoding/json"
	"log"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/omshejul/cli-tools-frontend/types"
)

const (
	clientIDPrefix    = "client_"
	clientIDSuffixLen = 9
	clientIDCharset   = "abcdefghijklmnopqrstuvwxyz0123456789"

	defaultKeepAliveInterval = 30 * time.Second
	defaultReconnectBase     = 1 * time.Second
	defaultMaxReconnects     = 3
)

// Debug-level chatter the processing service emits while probing a URL.
// These never carry information a listener cares about.
var noisePatterns = []string{
	"Downloading webpage",
	"Downloading m3u8 information",
	"Downloading MPD manifest",
	"Downloading JSON metadata",
	"Downloading API JSON",
}

// Channel maintains a live duplex connection to the processing service,
// delivering parsed progress and log events to a registered listener.
// It keeps the connection alive with periodic pings and recovers from
// transient network failures with bounded exponential backoff.
//
// A Channel owns its transport handle exclusively. Exactly one Channel
// should exist per active download session.
type Channel struct {
	baseURL  string
	clientID string

	mu             sync.Mutex
	conn           *websocket.Conn
	dialing        bool
	closed         bool
	attempts       int
	reconnectTimer *time.Timer
	keepAliveStop  chan struct{}

	onEvent      func(types.ProgressEvent)
	onConnChange func(bool)

	keepAliveInterval time.Duration
	reconnectBase     time.Duration
	maxReconnects     int
	dialer            *websocket.Dialer
}

// NewChannel creates a channel targeting the processing service at
// baseURL (an http:// or https:// address). The channel's client
// identifier is generated here and never changes.
func NewChannel(baseURL string) *Channel {
	return &Channel{
		baseURL:           strings.TrimSuffix(baseURL, "/"),
		clientID:          newClientID(),
		keepAliveInterval: defaultKeepAliveInterval,
		reconnectBase:     defaultReconnectBase,
		maxReconnects:     defaultMaxReconnects,
		dialer:            websocket.DefaultDialer,
	}
}

// newClientID generates a correlation token: a fixed prefix plus a short
// random alphanumeric suffix. Uniqueness is best-effort.
func newClientID() string {
	suffix := make([]byte, clientIDSuffixLen)
	for i := range suffix {
		suffix[i] = clientIDCharset[rand.IntN(len(clientIDCharset))]
	}
	return clientIDPrefix + string(suffix)
}

// ClientID returns the channel's immutable identifier.
func (c *Channel) ClientID() string {
	return c.clientID
}

// OnProgress registers the listener invoked for every parsed,
// non-filtered inbound event. It replaces any previous listener.
func (c *Channel) OnProgress(fn func(types.ProgressEvent)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onEvent = fn
}

// OnConnectionChange registers the listener invoked with true on open
// and false on close or error. It replaces any previous listener.
func (c *Channel) OnConnectionChange(fn func(bool)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onConnChange = fn
}

// targetURL derives the streaming endpoint from the configured base
// address by swapping the HTTP scheme for the matching WebSocket one.
func (c *Channel) targetURL() string {
	target := c.baseURL
	if after, ok := strings.CutPrefix(target, "https://"); ok {
		target = "wss://" + after
	} else if after, ok := strings.CutPrefix(target, "http://"); ok {
		target = "ws://" + after
	}
	return target + "/ws/" + c.clientID
}

// Connect establishes the streaming connection. It is a no-op when a
// dial is already in flight or a connection is open. The call returns
// immediately; the outcome is observed through the connection-change
// listener.
func (c *Channel) Connect() {
	c.mu.Lock()
	if c.dialing || c.conn != nil {
		c.mu.Unlock()
		return
	}
	if c.reconnectTimer != nil {
		c.reconnectTimer.Stop()
		c.reconnectTimer = nil
	}
	c.dialing = true
	c.closed = false
	c.mu.Unlock()

	go c.dial()
}

// Disconnect closes the transport if open, stops the keep-alive timer,
// and cancels any scheduled reconnect. Safe to call when not connected.
// Automatic reconnection stays off until the next Connect.
func (c *Channel) Disconnect() {
	c.mu.Lock()
	c.closed = true
	if c.reconnectTimer != nil {
		c.reconnectTimer.Stop()
		c.reconnectTimer = nil
	}
	if c.keepAliveStop != nil {
		close(c.keepAliveStop)
		c.keepAliveStop = nil
	}
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()

	if conn != nil {
		conn.Close()
		c.notifyConnection(false)
	}
}

func (c *Channel) dial() {
	conn, _, err := c.dialer.Dial(c.targetURL(), nil)

	c.mu.Lock()
	c.dialing = false
	if err != nil {
		c.mu.Unlock()
		log.Printf("Progress channel dial failed: %v", err)
		c.notifyConnection(false)
		c.scheduleReconnect()
		return
	}
	if c.closed {
		// Disconnect raced the dial; drop the fresh connection.
		c.mu.Unlock()
		conn.Close()
		return
	}
	c.conn = conn
	c.attempts = 0
	stop := make(chan struct{})
	c.keepAliveStop = stop
	c.mu.Unlock()

	c.notifyConnection(true)
	go c.keepAlive(conn, stop)
	go c.readLoop(conn)
}

// keepAlive sends a lightweight liveness ping at a fixed interval.
// Ticks while the transport is not open are skipped.
func (c *Channel) keepAlive(conn *websocket.Conn, stop chan struct{}) {
	ticker := time.NewTicker(c.keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			c.mu.Lock()
			open := c.conn == conn
			c.mu.Unlock()
			if !open {
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, []byte("ping")); err != nil {
				// The read loop observes the broken transport and
				// drives close handling.
				log.Printf("Progress channel ping failed: %v", err)
			}
		}
	}
}

// readLoop delivers inbound frames in arrival order until the
// transport fails or closes.
func (c *Channel) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		c.handleMessage(data)
	}
	c.handleClose(conn)
}

func (c *Channel) handleMessage(data []byte) {
	var event types.ProgressEvent
	if err := json.Unmarshal(data, &event); err != nil {
		log.Printf("Progress channel: dropping malformed frame: %v", err)
		return
	}

	if isNoise(event) {
		return
	}

	c.mu.Lock()
	handler := c.onEvent
	c.mu.Unlock()

	if handler != nil {
		handler(event)
	}
}

// isNoise reports whether the event is known-noisy diagnostic chatter
// that should never reach the listener.
func isNoise(event types.ProgressEvent) bool {
	if event.Status != types.StatusLog || event.Level != types.LogLevelDebug {
		return false
	}
	for _, pattern := range noisePatterns {
		if strings.Contains(event.Message, pattern) {
			return true
		}
	}
	return false
}

func (c *Channel) handleClose(conn *websocket.Conn) {
	c.mu.Lock()
	if c.conn != conn {
		// Disconnect already detached this connection.
		c.mu.Unlock()
		return
	}
	c.conn = nil
	if c.keepAliveStop != nil {
		close(c.keepAliveStop)
		c.keepAliveStop = nil
	}
	c.mu.Unlock()

	conn.Close()
	c.notifyConnection(false)
	c.scheduleReconnect()
}

// scheduleReconnect arms the backoff timer unless the channel was
// intentionally closed or the attempt ceiling is reached. Past the
// ceiling recovery requires a manual Connect.
func (c *Channel) scheduleReconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.attempts >= c.maxReconnects {
		return
	}

	delay := c.reconnectBase * time.Duration(1<<c.attempts)
	c.attempts++

	c.reconnectTimer = time.AfterFunc(delay, func() {
		c.mu.Lock()
		stopped := c.closed
		c.reconnectTimer = nil
		c.mu.Unlock()
		if !stopped {
			c.Connect()
		}
	})
}

func (c *Channel) notifyConnection(open bool) {
	c.mu.Lock()
	handler := c.onConnChange
	c.mu.Unlock()

	if handler != nil {
		handler(open)
	}
}
