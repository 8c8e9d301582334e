package service

import (
	"context"
	"testing"

	"botdock/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnreadCount(t *testing.T) {
	assert.Equal(t, 0, UnreadCount(nil))

	notifications := []*model.Notification{
		{ID: "n1", IsRead: false},
		{ID: "n2", IsRead: true},
		{ID: "n3", IsRead: false},
	}
	assert.Equal(t, 2, UnreadCount(notifications))
}

func TestNotificationService_Notify(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	bus := &MockEventBus{}
	svc := NewNotificationService(pool.Queries, bus)
	user := createTestProfile(t, pool, "user1", "viewer")

	n, err := svc.Notify(ctx, user, "Willkommen", "Dein Konto ist bereit.", "")
	require.NoError(t, err)
	assert.Equal(t, "info", n.Type, "empty type defaults to info")
	assert.False(t, n.IsRead)
	assert.Equal(t, 1, bus.count("insert", "notifications"))

	inbox, err := svc.List(ctx, user)
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Equal(t, "Willkommen", inbox[0].Title)
}

func TestNotificationService_MarkRead(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	bus := &MockEventBus{}
	svc := NewNotificationService(pool.Queries, bus)
	user := createTestProfile(t, pool, "user1", "viewer")
	other := createTestProfile(t, pool, "user2", "viewer")

	n, err := svc.Notify(ctx, user, "Ticket Update", "x", "support_update")
	require.NoError(t, err)

	// Another user cannot flip someone else's notification
	_, err = svc.MarkRead(ctx, other, n.ID)
	assert.Error(t, err)

	read, err := svc.MarkRead(ctx, user, n.ID)
	require.NoError(t, err)
	assert.True(t, read.IsRead)
	assert.Equal(t, 1, bus.count("update", "notifications"))
}

func TestNotificationService_MarkAllRead(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	bus := &MockEventBus{}
	svc := NewNotificationService(pool.Queries, bus)
	user := createTestProfile(t, pool, "user1", "viewer")
	other := createTestProfile(t, pool, "user2", "viewer")

	for i := 0; i < 3; i++ {
		_, err := svc.Notify(ctx, user, "Ticket Update", "x", "support_update")
		require.NoError(t, err)
	}
	_, err := svc.Notify(ctx, other, "Ticket Update", "x", "support_update")
	require.NoError(t, err)

	count, err := svc.MarkAllRead(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	inbox, err := svc.List(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, 0, UnreadCount(inbox))

	otherInbox, err := svc.List(ctx, other)
	require.NoError(t, err)
	assert.Equal(t, 1, UnreadCount(otherInbox), "only the caller's inbox is touched")
}
