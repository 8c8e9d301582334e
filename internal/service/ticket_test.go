package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifiableStatus(t *testing.T) {
	assert.True(t, notifiableStatus("in_progress"))
	assert.True(t, notifiableStatus("resolved"))
	assert.True(t, notifiableStatus("closed"))
	assert.False(t, notifiableStatus("open"), "opening a ticket is not a status update worth a ping")
	assert.False(t, notifiableStatus("bogus"))
}

func newTicketFixture(t *testing.T) (context.Context, *TicketService, *NotificationService, *MockEventBus, string, string) {
	t.Helper()
	pool := setupTestDB(t)
	bus := &MockEventBus{}
	notificationSvc := NewNotificationService(pool.Queries, bus)
	ticketSvc := NewTicketService(pool.Queries, bus, notificationSvc, newTestActivity(pool, bus))
	reporter := createTestProfile(t, pool, "reporter1", "viewer")
	staff := createTestProfile(t, pool, "staff1", "admin")
	return context.Background(), ticketSvc, notificationSvc, bus, reporter, staff
}

func TestTicketService_ChangeStatus(t *testing.T) {
	ctx, ticketSvc, notificationSvc, _, reporter, staff := newTicketFixture(t)

	ticket, err := ticketSvc.Create(ctx, CreateTicketInput{
		Subject: "Bot offline",
		Message: "My bot went down overnight",
		UserID:  reporter,
	})
	require.NoError(t, err)
	assert.Equal(t, "open", string(ticket.Status))
	assert.Equal(t, "medium", string(ticket.Priority))

	updated, err := ticketSvc.ChangeStatus(ctx, staff, ticket.ID, "in_progress")
	require.NoError(t, err)
	assert.Equal(t, "in_progress", string(updated.Status))

	inbox, err := notificationSvc.List(ctx, reporter)
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Equal(t, "Ticket Update", inbox[0].Title)
	assert.Equal(t, "support_update", inbox[0].Type)
	assert.Equal(t, `Dein Ticket "Bot offline" Status wurde zu "in_progress" geändert.`, inbox[0].Message)

	// Reopening is not a notifiable transition
	_, err = ticketSvc.ChangeStatus(ctx, staff, ticket.ID, "open")
	require.NoError(t, err)
	inbox, err = notificationSvc.List(ctx, reporter)
	require.NoError(t, err)
	assert.Len(t, inbox, 1)
}

func TestTicketService_Reply(t *testing.T) {
	ctx, ticketSvc, notificationSvc, _, reporter, staff := newTicketFixture(t)

	ticket, err := ticketSvc.Create(ctx, CreateTicketInput{
		Subject: "Billing question",
		UserID:  reporter,
	})
	require.NoError(t, err)

	_, err = ticketSvc.Reply(ctx, staff, ticket.ID, "Looking into it")
	require.NoError(t, err)

	inbox, err := notificationSvc.List(ctx, reporter)
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Equal(t, "Neue Antwort", inbox[0].Title)
	assert.Equal(t, "support_reply", inbox[0].Type)
	assert.Equal(t, "Neue Antwort zu Ticket: Billing question", inbox[0].Message)

	// The reporter replying to their own ticket gets no notification
	_, err = ticketSvc.Reply(ctx, reporter, ticket.ID, "Thanks, standing by")
	require.NoError(t, err)
	inbox, err = notificationSvc.List(ctx, reporter)
	require.NoError(t, err)
	assert.Len(t, inbox, 1)

	replies, err := ticketSvc.Replies(ctx, ticket.ID)
	require.NoError(t, err)
	require.Len(t, replies, 2)
	assert.Equal(t, "Looking into it", replies[0].Message, "replies are oldest first")
}
