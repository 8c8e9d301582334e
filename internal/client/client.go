package client

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	botsync "botdock/internal/sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// DefaultRetryDelay is the fixed delay between reconnect attempts.
const DefaultRetryDelay = 5 * time.Second

// Handler consumes change events for one collection.
type Handler func(botsync.Change)

// envelope covers every message shape the server sends on one socket.
type envelope struct {
	Type       string          `json:"type"`
	Ack        string          `json:"ack,omitempty"`
	Error      string          `json:"error,omitempty"`
	Channel    string          `json:"channel,omitempty"`
	Collection string          `json:"collection,omitempty"`
	Record     json.RawMessage `json:"record,omitempty"`
	OldID      string          `json:"old_id,omitempty"`
	Seq        int64           `json:"seq,omitempty"`
	Data       json.RawMessage `json:"data,omitempty"`
}

// Client maintains a WebSocket subscription to the realtime feed. It
// reconnects with a fixed delay until Close is called, re-subscribing
// every channel and resuming from the last seen sequence.
type Client struct {
	url    string
	header http.Header
	log    *zap.Logger
	retry  time.Duration

	mu          sync.Mutex
	wmu         sync.Mutex // serializes writes to the active connection
	conn        *websocket.Conn
	channels    map[string]bool    // subscribed channels
	collections map[string]string  // channel -> collection
	handlers    map[string]Handler // collection -> handler
	seqs        map[string]int64   // channel -> last seen sequence
	closed      bool
	done        chan struct{}
}

// Option configures a Client.
type Option func(*Client)

// WithRetryDelay overrides the fixed reconnect delay.
func WithRetryDelay(d time.Duration) Option {
	return func(c *Client) { c.retry = d }
}

// WithHeader sets the headers sent during the handshake, typically the
// Authorization header.
func WithHeader(h http.Header) Option {
	return func(c *Client) { c.header = h }
}

// New creates a client for the given ws:// URL.
func New(url string, log *zap.Logger, opts ...Option) *Client {
	c := &Client{
		url:         url,
		log:         log,
		retry:       DefaultRetryDelay,
		channels:    make(map[string]bool),
		collections: make(map[string]string),
		handlers:    make(map[string]Handler),
		seqs:        make(map[string]int64),
		done:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Subscribe registers a channel and the handler for its collection. Safe
// to call before or after Run; new channels are announced on the live
// connection when one exists.
func (c *Client) Subscribe(channel, collection string, handler Handler) {
	c.mu.Lock()
	c.channels[channel] = true
	c.collections[channel] = collection
	c.handlers[collection] = handler
	conn := c.conn
	c.mu.Unlock()

	if conn != nil {
		c.send(conn, map[string]interface{}{"type": "subscribe", "channel": channel})
	}
}

// Unsubscribe stops delivery for a channel. The remote subscription is
// torn down explicitly rather than left to die with the connection, and
// the handler is dropped so straggler events are discarded, not applied.
func (c *Client) Unsubscribe(channel string) {
	c.mu.Lock()
	delete(c.channels, channel)
	delete(c.seqs, channel)
	if collection, ok := c.collections[channel]; ok {
		delete(c.collections, channel)
		delete(c.handlers, collection)
	}
	conn := c.conn
	c.mu.Unlock()

	if conn != nil {
		c.send(conn, map[string]interface{}{"type": "unsubscribe", "channel": channel})
	}
}

// Run connects and processes events until Close is called. Each failed
// connection or read loop waits the fixed retry delay before the next
// attempt.
func (c *Client) Run() {
	for {
		select {
		case <-c.done:
			return
		default:
		}

		conn, _, err := websocket.DefaultDialer.Dial(c.url, c.header)
		if err != nil {
			c.log.Warn("Connection failed, retrying",
				zap.String("url", c.url),
				zap.Duration("retry", c.retry),
				zap.Error(err))
			c.sleep()
			continue
		}

		c.mu.Lock()
		c.conn = conn
		channels := make([]string, 0, len(c.channels))
		for channel := range c.channels {
			channels = append(channels, channel)
		}
		c.mu.Unlock()

		// Re-announce every subscription, resuming missed events
		for _, channel := range channels {
			c.send(conn, map[string]interface{}{"type": "subscribe", "channel": channel})
			c.mu.Lock()
			since := c.seqs[channel]
			c.mu.Unlock()
			if since > 0 {
				c.send(conn, map[string]interface{}{"type": "resume", "channel": channel, "since": since})
			}
		}

		c.readLoop(conn)

		c.mu.Lock()
		c.conn = nil
		c.mu.Unlock()
		conn.Close()

		select {
		case <-c.done:
			return
		default:
			c.log.Info("Connection lost, retrying", zap.Duration("retry", c.retry))
			c.sleep()
		}
	}
}

func (c *Client) readLoop(conn *websocket.Conn) {
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var env envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			c.log.Warn("Failed to parse event", zap.Error(err))
			continue
		}
		c.dispatch(env)
	}
}

func (c *Client) dispatch(env envelope) {
	switch env.Type {
	case "insert", "update", "delete":
		c.mu.Lock()
		// Events for a channel torn down mid-flight are discarded
		if env.Channel != "" && !c.channels[env.Channel] {
			c.mu.Unlock()
			return
		}
		handler := c.handlers[env.Collection]
		if env.Channel != "" && env.Seq > 0 {
			c.seqs[env.Channel] = env.Seq
		}
		c.mu.Unlock()

		if handler == nil {
			return
		}
		handler(botsync.Change{
			Type:       botsync.ChangeType(env.Type),
			Collection: env.Collection,
			Record:     env.Record,
			OldID:      env.OldID,
		})
	case "event":
		// Replayed event wrapping the original change
		var inner envelope
		if err := json.Unmarshal(env.Data, &inner); err != nil {
			c.log.Warn("Failed to parse replayed event", zap.Error(err))
			return
		}
		inner.Channel = env.Channel
		inner.Seq = env.Seq
		c.dispatch(inner)
	case "ack":
		// Subscription acks need no action
	case "error":
		c.log.Warn("Server rejected request",
			zap.String("error", env.Error),
			zap.String("channel", env.Channel))
	}
}

func (c *Client) send(conn *websocket.Conn, msg map[string]interface{}) {
	raw, _ := json.Marshal(msg)
	c.wmu.Lock()
	err := conn.WriteMessage(websocket.TextMessage, raw)
	c.wmu.Unlock()
	if err != nil {
		c.log.Warn("Failed to send message", zap.Error(err))
	}
}

func (c *Client) sleep() {
	select {
	case <-time.After(c.retry):
	case <-c.done:
	}
}

// Close stops the run loop and drops the connection.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.done)
	if c.conn != nil {
		c.conn.Close()
	}
}

// Bind subscribes a channel and routes its changes into a store.
func Bind[T botsync.Record](c *Client, channel, collection string, store *botsync.Store[T], log *zap.Logger) {
	c.Subscribe(channel, collection, func(change botsync.Change) {
		if err := botsync.Apply(store, change); err != nil {
			log.Warn("Failed to apply change",
				zap.String("collection", collection),
				zap.Error(err))
		}
	})
}
