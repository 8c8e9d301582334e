package client

import (
	"botdock/internal/model"
	"botdock/internal/pubsub"
	botsync "botdock/internal/sync"

	"go.uber.org/zap"
)

// Feed is the notification inbox: a bounded store fed from the owner's
// user channel, with an unread counter derived from the loaded page.
type Feed struct {
	store  *botsync.Store[model.Notification]
	userID string
}

// NewFeed creates a feed bound to one user's channel on the client.
func NewFeed(c *Client, userID string, log *zap.Logger) *Feed {
	store := botsync.NewStore[model.Notification](20)
	Bind(c, pubsub.UserChannel(userID), "notifications", store, log)
	return &Feed{store: store, userID: userID}
}

// Load seeds the feed from a fetched inbox page.
func (f *Feed) Load(notifications []model.Notification) {
	f.store.Reset(notifications)
}

// Notifications returns the current inbox, newest first.
func (f *Feed) Notifications() []model.Notification {
	return f.store.Snapshot()
}

// Unread counts the unread entries currently loaded.
func (f *Feed) Unread() int {
	count := 0
	for _, n := range f.store.Snapshot() {
		if !n.IsRead {
			count++
		}
	}
	return count
}

// MarkRead flips one entry locally; the server confirms via the user
// channel.
func (f *Feed) MarkRead(id string) {
	n, ok := f.store.Get(id)
	if !ok {
		return
	}
	n.IsRead = true
	f.store.ApplyUpdate(n)
}

// MarkAllRead flips every loaded entry locally. The server performs the
// same bulk transition, so no per-row confirmation is expected.
func (f *Feed) MarkAllRead() {
	for _, n := range f.store.Snapshot() {
		if !n.IsRead {
			n.IsRead = true
			f.store.ApplyUpdate(n)
		}
	}
}
