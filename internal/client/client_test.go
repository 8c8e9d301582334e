package client

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	botsync "botdock/internal/sync"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testBot struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

func (b testBot) RecordID() string { return b.ID }

// feedServer accepts websocket connections and hands each one to the test
// for scripting. Inbound client messages are decoded onto a channel.
type feedServer struct {
	srv   *httptest.Server
	conns chan *serverConn
}

type serverConn struct {
	ws       *websocket.Conn
	messages chan map[string]interface{}
}

func newFeedServer(t *testing.T) *feedServer {
	t.Helper()
	fs := &feedServer{conns: make(chan *serverConn, 4)}
	upgrader := websocket.Upgrader{}
	fs.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		sc := &serverConn{ws: ws, messages: make(chan map[string]interface{}, 16)}
		fs.conns <- sc
		for {
			var msg map[string]interface{}
			if err := ws.ReadJSON(&msg); err != nil {
				close(sc.messages)
				return
			}
			sc.messages <- msg
		}
	}))
	t.Cleanup(fs.srv.Close)
	return fs
}

func (fs *feedServer) url() string {
	return "ws" + strings.TrimPrefix(fs.srv.URL, "http")
}

func (fs *feedServer) accept(t *testing.T) *serverConn {
	t.Helper()
	select {
	case sc := <-fs.conns:
		return sc
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for client connection")
		return nil
	}
}

func (sc *serverConn) expect(t *testing.T, msgType string) map[string]interface{} {
	t.Helper()
	for {
		select {
		case msg, ok := <-sc.messages:
			if !ok {
				t.Fatalf("connection closed while waiting for %q", msgType)
			}
			if msg["type"] == msgType {
				return msg
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for %q", msgType)
		}
	}
}

func (sc *serverConn) sendEvent(t *testing.T, event map[string]interface{}) {
	t.Helper()
	require.NoError(t, sc.ws.WriteJSON(event))
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestClient_SubscribeAndApply(t *testing.T) {
	fs := newFeedServer(t)
	logger := zap.NewNop()

	c := New(fs.url(), logger, WithRetryDelay(10*time.Millisecond))
	defer c.Close()

	store := botsync.NewStore[testBot](0)
	Bind(c, "table:bots", "bots", store, logger)
	go c.Run()

	sc := fs.accept(t)
	sub := sc.expect(t, "subscribe")
	assert.Equal(t, "table:bots", sub["channel"])

	record, _ := json.Marshal(testBot{ID: "b1", Name: "music-bot", Status: "offline"})
	sc.sendEvent(t, map[string]interface{}{
		"type":       "insert",
		"collection": "bots",
		"channel":    "table:bots",
		"seq":        1,
		"record":     json.RawMessage(record),
	})

	waitFor(t, func() bool { return store.Len() == 1 }, "insert never reached the store")
	got, ok := store.Get("b1")
	require.True(t, ok)
	assert.Equal(t, "music-bot", got.Name)

	record, _ = json.Marshal(testBot{ID: "b1", Name: "music-bot", Status: "online"})
	sc.sendEvent(t, map[string]interface{}{
		"type":       "update",
		"collection": "bots",
		"channel":    "table:bots",
		"seq":        2,
		"record":     json.RawMessage(record),
	})

	waitFor(t, func() bool {
		b, _ := store.Get("b1")
		return b.Status == "online"
	}, "update never reached the store")

	sc.sendEvent(t, map[string]interface{}{
		"type":       "delete",
		"collection": "bots",
		"channel":    "table:bots",
		"seq":        3,
		"old_id":     "b1",
	})
	waitFor(t, func() bool { return store.Len() == 0 }, "delete never reached the store")
}

func TestClient_ReconnectAndResume(t *testing.T) {
	fs := newFeedServer(t)
	logger := zap.NewNop()

	c := New(fs.url(), logger, WithRetryDelay(10*time.Millisecond))
	defer c.Close()

	store := botsync.NewStore[testBot](0)
	Bind(c, "table:bots", "bots", store, logger)
	go c.Run()

	sc := fs.accept(t)
	sc.expect(t, "subscribe")

	record, _ := json.Marshal(testBot{ID: "b1", Name: "music-bot", Status: "offline"})
	sc.sendEvent(t, map[string]interface{}{
		"type":       "insert",
		"collection": "bots",
		"channel":    "table:bots",
		"seq":        7,
		"record":     json.RawMessage(record),
	})
	waitFor(t, func() bool { return store.Len() == 1 }, "insert never reached the store")

	// Drop the connection; the client should redial, re-subscribe and
	// ask for everything after the last sequence it saw.
	sc.ws.Close()

	sc2 := fs.accept(t)
	sub := sc2.expect(t, "subscribe")
	assert.Equal(t, "table:bots", sub["channel"])
	resume := sc2.expect(t, "resume")
	assert.Equal(t, "table:bots", resume["channel"])
	assert.Equal(t, float64(7), resume["since"])
}

func TestClient_ReplayedEvent(t *testing.T) {
	fs := newFeedServer(t)
	logger := zap.NewNop()

	c := New(fs.url(), logger, WithRetryDelay(10*time.Millisecond))
	defer c.Close()

	store := botsync.NewStore[testBot](0)
	Bind(c, "table:bots", "bots", store, logger)
	go c.Run()

	sc := fs.accept(t)
	sc.expect(t, "subscribe")

	// Resume replays arrive wrapped, with the original change in "data".
	record, _ := json.Marshal(testBot{ID: "b2", Name: "mod-bot", Status: "online"})
	inner, _ := json.Marshal(map[string]interface{}{
		"type":       "insert",
		"collection": "bots",
		"record":     json.RawMessage(record),
	})
	sc.sendEvent(t, map[string]interface{}{
		"type":    "event",
		"channel": "table:bots",
		"seq":     12,
		"data":    json.RawMessage(inner),
	})

	waitFor(t, func() bool { return store.Len() == 1 }, "replayed insert never reached the store")

	// The replay's sequence must count for resume bookkeeping.
	sc.ws.Close()
	sc2 := fs.accept(t)
	sc2.expect(t, "subscribe")
	resume := sc2.expect(t, "resume")
	assert.Equal(t, float64(12), resume["since"])
}

func TestClient_UnsubscribeDiscardsStragglers(t *testing.T) {
	fs := newFeedServer(t)
	logger := zap.NewNop()

	c := New(fs.url(), logger, WithRetryDelay(10*time.Millisecond))
	defer c.Close()

	botStore := botsync.NewStore[testBot](0)
	Bind(c, "table:bots", "bots", botStore, logger)
	userStore := botsync.NewStore[testBot](0)
	Bind(c, "user:u1", "notifications", userStore, logger)
	go c.Run()

	sc := fs.accept(t)
	sc.expect(t, "subscribe")
	sc.expect(t, "subscribe")

	c.Unsubscribe("table:bots")
	sc.expect(t, "unsubscribe")

	// An event already in flight when the channel was torn down
	record, _ := json.Marshal(testBot{ID: "b1", Name: "music-bot", Status: "online"})
	sc.sendEvent(t, map[string]interface{}{
		"type":       "insert",
		"collection": "bots",
		"channel":    "table:bots",
		"seq":        9,
		"record":     json.RawMessage(record),
	})

	// An event on the live channel proves the straggler has been read
	sc.sendEvent(t, map[string]interface{}{
		"type":       "insert",
		"collection": "notifications",
		"channel":    "user:u1",
		"seq":        1,
		"record":     json.RawMessage(record),
	})
	waitFor(t, func() bool { return userStore.Len() == 1 }, "live channel event never arrived")

	assert.Equal(t, 0, botStore.Len(), "straggler applied after teardown")
}

func TestClient_ConcurrentSubscribeWrites(t *testing.T) {
	fs := newFeedServer(t)

	c := New(fs.url(), zap.NewNop(), WithRetryDelay(10*time.Millisecond))
	defer c.Close()

	c.Subscribe("table:bots", "bots", func(botsync.Change) {})
	go c.Run()

	sc := fs.accept(t)
	sc.expect(t, "subscribe")

	// Announcements race against the run loop on one connection
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				channel := fmt.Sprintf("user:u%d-%d", n, j)
				c.Subscribe(channel, "notifications", func(botsync.Change) {})
				c.Unsubscribe(channel)
			}
		}(i)
	}
	wg.Wait()
}

func TestClient_Unsubscribe(t *testing.T) {
	fs := newFeedServer(t)
	logger := zap.NewNop()

	c := New(fs.url(), logger, WithRetryDelay(10*time.Millisecond))
	defer c.Close()

	c.Subscribe("table:bots", "bots", func(botsync.Change) {})
	go c.Run()

	sc := fs.accept(t)
	sc.expect(t, "subscribe")

	c.Unsubscribe("table:bots")
	unsub := sc.expect(t, "unsubscribe")
	assert.Equal(t, "table:bots", unsub["channel"])
}

func TestClient_SubscribeWhileConnected(t *testing.T) {
	fs := newFeedServer(t)
	logger := zap.NewNop()

	c := New(fs.url(), logger, WithRetryDelay(10*time.Millisecond))
	defer c.Close()

	c.Subscribe("table:bots", "bots", func(botsync.Change) {})
	go c.Run()

	sc := fs.accept(t)
	sc.expect(t, "subscribe")

	c.Subscribe("user:u1", "notifications", func(botsync.Change) {})
	sub := sc.expect(t, "subscribe")
	assert.Equal(t, "user:u1", sub["channel"])
}
