package service

import (
	"context"
	"fmt"

	"botdock/internal/db"
	"botdock/internal/model"

	"github.com/oklog/ulid/v2"
)

// InboxLimit bounds how many notifications the feed loads.
const InboxLimit = 20

type NotificationService struct {
	queries *db.Queries
	bus     EventBus
}

func NewNotificationService(queries *db.Queries, bus EventBus) *NotificationService {
	return &NotificationService{queries: queries, bus: bus}
}

// Notify creates an unread notification and pushes it onto the owner's
// user channel.
func (s *NotificationService) Notify(ctx context.Context, userID, title, message, typ string) (*model.Notification, error) {
	if typ == "" {
		typ = "info"
	}
	row, err := s.queries.CreateNotification(ctx, db.CreateNotificationParams{
		ID:      ulid.Make().String(),
		UserID:  userID,
		Title:   title,
		Message: message,
		Type:    typ,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	n := dbNotificationToModel(row)
	_ = s.bus.PublishUserInsert(userID, "notifications", n)
	return n, nil
}

func (s *NotificationService) List(ctx context.Context, userID string) ([]*model.Notification, error) {
	rows, err := s.queries.ListNotifications(ctx, userID, InboxLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	out := make([]*model.Notification, len(rows))
	for i, row := range rows {
		out[i] = dbNotificationToModel(row)
	}
	return out, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, id string) (*model.Notification, error) {
	row, err := s.queries.MarkNotificationRead(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	n := dbNotificationToModel(row)
	_ = s.bus.PublishUserUpdate(userID, "notifications", n)
	return n, nil
}

// MarkAllRead flags every unread notification and returns how many were
// flipped. Subscribers apply the same transition locally, so no per-row
// events are published.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	count, err := s.queries.MarkAllNotificationsRead(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return count, nil
}

// UnreadCount counts the unread entries in a loaded inbox page.
func UnreadCount(notifications []*model.Notification) int {
	count := 0
	for _, n := range notifications {
		if !n.IsRead {
			count++
		}
	}
	return count
}
