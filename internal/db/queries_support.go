package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
)

// Ticket represents a support_tickets row with joined reporter and assignee
// display fields
type Ticket struct {
	ID            string
	UserID        string
	Subject       string
	Message       *string
	Status        string
	Priority      string
	AssignedTo    *string
	InternalNotes *string
	ReporterName  *string
	ReporterEmail *string
	AssigneeName  *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

const ticketSelect = `SELECT t.id, t.user_id, t.subject, t.message, t.status,
	t.priority, t.assigned_to, t.internal_notes,
	rp.full_name, rp.email, ap.full_name,
	t.created_at, t.updated_at
FROM support_tickets t
LEFT JOIN profiles rp ON rp.id = t.user_id
LEFT JOIN profiles ap ON ap.id = t.assigned_to`

func scanTicket(row pgx.Row) (Ticket, error) {
	var t Ticket
	err := row.Scan(
		&t.ID, &t.UserID, &t.Subject, &t.Message, &t.Status, &t.Priority,
		&t.AssignedTo, &t.InternalNotes, &t.ReporterName, &t.ReporterEmail,
		&t.AssigneeName, &t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}

type CreateTicketParams struct {
	ID       string
	UserID   string
	Subject  string
	Message  *string
	Status   string
	Priority string
}

func (q *Queries) CreateTicket(ctx context.Context, p CreateTicketParams) (Ticket, error) {
	var id string
	err := q.Pool.QueryRow(ctx,
		`INSERT INTO support_tickets (id, user_id, subject, message, status, priority)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		p.ID, p.UserID, p.Subject, p.Message, p.Status, p.Priority,
	).Scan(&id)
	if err != nil {
		return Ticket{}, err
	}
	return q.GetTicketByID(ctx, id)
}

func (q *Queries) GetTicketByID(ctx context.Context, id string) (Ticket, error) {
	return scanTicket(q.Pool.QueryRow(ctx, ticketSelect+` WHERE t.id = $1`, id))
}

func (q *Queries) ListTickets(ctx context.Context, limit int) ([]Ticket, error) {
	rows, err := q.Pool.Query(ctx, ticketSelect+` ORDER BY t.created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := make([]Ticket, 0)
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

// ListTicketsByUser returns only the tickets a requester opened, for the
// non-staff support view.
func (q *Queries) ListTicketsByUser(ctx context.Context, userID string, limit int) ([]Ticket, error) {
	rows, err := q.Pool.Query(ctx,
		ticketSelect+` WHERE t.user_id = $1 ORDER BY t.created_at DESC LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := make([]Ticket, 0)
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

func (q *Queries) UpdateTicketStatus(ctx context.Context, id, status string) (Ticket, error) {
	_, err := q.Pool.Exec(ctx,
		"UPDATE support_tickets SET status = $2, updated_at = NOW() WHERE id = $1",
		id, status)
	if err != nil {
		return Ticket{}, err
	}
	return q.GetTicketByID(ctx, id)
}

func (q *Queries) UpdateTicketAssignee(ctx context.Context, id string, assignedTo *string) (Ticket, error) {
	_, err := q.Pool.Exec(ctx,
		"UPDATE support_tickets SET assigned_to = $2, updated_at = NOW() WHERE id = $1",
		id, assignedTo)
	if err != nil {
		return Ticket{}, err
	}
	return q.GetTicketByID(ctx, id)
}

func (q *Queries) UpdateTicketNotes(ctx context.Context, id, notes string) (Ticket, error) {
	_, err := q.Pool.Exec(ctx,
		"UPDATE support_tickets SET internal_notes = $2, updated_at = NOW() WHERE id = $1",
		id, notes)
	if err != nil {
		return Ticket{}, err
	}
	return q.GetTicketByID(ctx, id)
}

// DeleteTicket removes a ticket and its replies in one transaction, replies
// first so the foreign key holds.
func (q *Queries) DeleteTicket(ctx context.Context, id string) error {
	tx, err := q.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM ticket_replies WHERE ticket_id = $1", id); err != nil {
		return err
	}
	result, err := tx.Exec(ctx, "DELETE FROM support_tickets WHERE id = $1", id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return tx.Commit(ctx)
}

// TicketReply represents a ticket_replies row with joined author fields
type TicketReply struct {
	ID         string
	TicketID   string
	UserID     string
	Message    string
	AuthorName *string
	AuthorRole *string
	CreatedAt  time.Time
}

const replySelect = `SELECT r.id, r.ticket_id, r.user_id, r.message,
	p.full_name, p.role, r.created_at
FROM ticket_replies r
LEFT JOIN profiles p ON p.id = r.user_id`

func scanReply(row pgx.Row) (TicketReply, error) {
	var r TicketReply
	err := row.Scan(&r.ID, &r.TicketID, &r.UserID, &r.Message, &r.AuthorName, &r.AuthorRole, &r.CreatedAt)
	return r, err
}

func (q *Queries) CreateTicketReply(ctx context.Context, id, ticketID, userID, message string) (TicketReply, error) {
	var replyID string
	err := q.Pool.QueryRow(ctx,
		`INSERT INTO ticket_replies (id, ticket_id, user_id, message)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		id, ticketID, userID, message,
	).Scan(&replyID)
	if err != nil {
		return TicketReply{}, err
	}
	return scanReply(q.Pool.QueryRow(ctx, replySelect+` WHERE r.id = $1`, replyID))
}

// ListTicketReplies returns a ticket's conversation in ascending order.
func (q *Queries) ListTicketReplies(ctx context.Context, ticketID string) ([]TicketReply, error) {
	rows, err := q.Pool.Query(ctx,
		replySelect+` WHERE r.ticket_id = $1 ORDER BY r.created_at ASC`, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	replies := make([]TicketReply, 0)
	for rows.Next() {
		r, err := scanReply(rows)
		if err != nil {
			return nil, err
		}
		replies = append(replies, r)
	}
	return replies, rows.Err()
}

// Notification represents a notifications row
type Notification struct {
	ID        string
	UserID    string
	Title     string
	Message   string
	Type      string
	IsRead    bool
	CreatedAt time.Time
}

const notificationColumns = `id, user_id, title, message, type, is_read, created_at`

func scanNotification(row pgx.Row) (Notification, error) {
	var n Notification
	err := row.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &n.IsRead, &n.CreatedAt)
	return n, err
}

type CreateNotificationParams struct {
	ID      string
	UserID  string
	Title   string
	Message string
	Type    string
}

func (q *Queries) CreateNotification(ctx context.Context, p CreateNotificationParams) (Notification, error) {
	return scanNotification(q.Pool.QueryRow(ctx,
		`INSERT INTO notifications (id, user_id, title, message, type)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+notificationColumns,
		p.ID, p.UserID, p.Title, p.Message, p.Type,
	))
}

func (q *Queries) ListNotifications(ctx context.Context, userID string, limit int) ([]Notification, error) {
	rows, err := q.Pool.Query(ctx,
		`SELECT `+notificationColumns+` FROM notifications
		WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifications := make([]Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (q *Queries) MarkNotificationRead(ctx context.Context, id, userID string) (Notification, error) {
	return scanNotification(q.Pool.QueryRow(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2
		RETURNING `+notificationColumns, id, userID))
}

// MarkAllNotificationsRead flips every unread notification for one user and
// returns the affected count.
func (q *Queries) MarkAllNotificationsRead(ctx context.Context, userID string) (int64, error) {
	result, err := q.Pool.Exec(ctx,
		"UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE",
		userID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
