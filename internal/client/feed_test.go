package client

import (
	"encoding/json"
	"testing"
	"time"

	"botdock/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestFeed(t *testing.T) (*Feed, *feedServer, *serverConn) {
	t.Helper()
	fs := newFeedServer(t)
	logger := zap.NewNop()

	c := New(fs.url(), logger, WithRetryDelay(10*time.Millisecond))
	t.Cleanup(c.Close)

	feed := NewFeed(c, "u1", logger)
	go c.Run()

	sc := fs.accept(t)
	sub := sc.expect(t, "subscribe")
	assert.Equal(t, "user:u1", sub["channel"])
	return feed, fs, sc
}

func TestFeed_LoadAndUnread(t *testing.T) {
	feed, _, _ := newTestFeed(t)

	feed.Load([]model.Notification{
		{ID: "n1", UserID: "u1", Title: "Ticket Update", IsRead: false},
		{ID: "n2", UserID: "u1", Title: "Neue Antwort", IsRead: false},
		{ID: "n3", UserID: "u1", Title: "Willkommen", IsRead: true},
	})

	assert.Equal(t, 3, len(feed.Notifications()))
	assert.Equal(t, 2, feed.Unread())
}

func TestFeed_MarkRead(t *testing.T) {
	feed, _, _ := newTestFeed(t)
	feed.Load([]model.Notification{
		{ID: "n1", UserID: "u1", IsRead: false},
		{ID: "n2", UserID: "u1", IsRead: false},
	})

	feed.MarkRead("n1")
	assert.Equal(t, 1, feed.Unread())

	// unknown ids are ignored
	feed.MarkRead("missing")
	assert.Equal(t, 1, feed.Unread())
}

func TestFeed_MarkAllRead(t *testing.T) {
	feed, _, _ := newTestFeed(t)
	feed.Load([]model.Notification{
		{ID: "n1", UserID: "u1", IsRead: false},
		{ID: "n2", UserID: "u1", IsRead: false},
		{ID: "n3", UserID: "u1", IsRead: true},
	})

	feed.MarkAllRead()
	assert.Equal(t, 0, feed.Unread())
	assert.Equal(t, 3, len(feed.Notifications()))
}

func TestFeed_InsertFromUserChannel(t *testing.T) {
	feed, _, sc := newTestFeed(t)
	feed.Load(nil)

	record, err := json.Marshal(model.Notification{
		ID:      "n9",
		UserID:  "u1",
		Title:   "Ticket Update",
		Message: `Dein Ticket "Bot offline" Status wurde zu "resolved" geändert.`,
		Type:    "support_update",
	})
	require.NoError(t, err)
	sc.sendEvent(t, map[string]interface{}{
		"type":       "insert",
		"collection": "notifications",
		"channel":    "user:u1",
		"seq":        1,
		"record":     json.RawMessage(record),
	})

	waitFor(t, func() bool { return feed.Unread() == 1 }, "notification never arrived")
	got := feed.Notifications()
	require.Len(t, got, 1)
	assert.Equal(t, "support_update", got[0].Type)
}

func TestFeed_CapKeepsNewest(t *testing.T) {
	feed, _, _ := newTestFeed(t)

	seed := make([]model.Notification, 0, 20)
	for i := 0; i < 20; i++ {
		seed = append(seed, model.Notification{ID: string(rune('a' + i)), UserID: "u1"})
	}
	feed.Load(seed)
	require.Len(t, feed.Notifications(), 20)

	feed.store.ApplyInsert(model.Notification{ID: "newest", UserID: "u1"})
	got := feed.Notifications()
	require.Len(t, got, 20, "inbox is bounded")
	assert.Equal(t, "newest", got[0].ID)
}
