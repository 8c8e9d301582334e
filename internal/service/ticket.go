package service

import (
	"context"
	"fmt"

	"botdock/internal/db"
	"botdock/internal/model"

	"github.com/oklog/ulid/v2"
)

type TicketService struct {
	queries       *db.Queries
	bus           EventBus
	notifications *NotificationService
	activity      *ActivityService
}

func NewTicketService(queries *db.Queries, bus EventBus, notifications *NotificationService, activity *ActivityService) *TicketService {
	return &TicketService{
		queries:       queries,
		bus:           bus,
		notifications: notifications,
		activity:      activity,
	}
}

type CreateTicketInput struct {
	Subject  string `json:"subject"`
	Message  string `json:"message,omitempty"`
	Priority string `json:"priority,omitempty"`
	UserID   string
}

func (s *TicketService) Create(ctx context.Context, input CreateTicketInput) (*model.Ticket, error) {
	if input.Priority == "" {
		input.Priority = string(model.TicketPriorityMedium)
	}

	row, err := s.queries.CreateTicket(ctx, db.CreateTicketParams{
		ID:       ulid.Make().String(),
		UserID:   input.UserID,
		Subject:  input.Subject,
		Message:  strPtr(input.Message),
		Status:   string(model.TicketStatusOpen),
		Priority: input.Priority,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}

	ticket := dbTicketToModel(row)
	_ = s.bus.PublishInsert("support_tickets", ticket)
	s.activity.Record(ctx, input.UserID, "ticket.create", "ticket", ticket.ID, map[string]interface{}{
		"subject": ticket.Subject,
	})
	return ticket, nil
}

func (s *TicketService) Get(ctx context.Context, id string) (*model.Ticket, error) {
	row, err := s.queries.GetTicketByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return dbTicketToModel(row), nil
}

func (s *TicketService) List(ctx context.Context, limit int) ([]*model.Ticket, error) {
	rows, err := s.queries.ListTickets(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	return ticketsToModel(rows), nil
}

func (s *TicketService) ListByUser(ctx context.Context, userID string, limit int) ([]*model.Ticket, error) {
	rows, err := s.queries.ListTicketsByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	return ticketsToModel(rows), nil
}

func ticketsToModel(rows []db.Ticket) []*model.Ticket {
	out := make([]*model.Ticket, len(rows))
	for i, row := range rows {
		out[i] = dbTicketToModel(row)
	}
	return out
}

// ChangeStatus moves a ticket through its workflow. The reporter is
// notified when the ticket enters a state they would act on.
func (s *TicketService) ChangeStatus(ctx context.Context, actorID, id, status string) (*model.Ticket, error) {
	row, err := s.queries.UpdateTicketStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	ticket := dbTicketToModel(row)
	_ = s.bus.PublishUpdate("support_tickets", ticket)
	s.activity.Record(ctx, actorID, "ticket.status", "ticket", id, map[string]interface{}{
		"status": status,
	})

	if notifiableStatus(status) {
		_, err := s.notifications.Notify(ctx, ticket.UserID,
			"Ticket Update",
			fmt.Sprintf("Dein Ticket %q Status wurde zu %q geändert.", ticket.Subject, status),
			"support_update")
		if err != nil {
			return nil, fmt.Errorf("failed to notify reporter: %w", err)
		}
	}
	return ticket, nil
}

func notifiableStatus(status string) bool {
	switch model.TicketStatus(status) {
	case model.TicketStatusInProgress, model.TicketStatusResolved, model.TicketStatusClosed:
		return true
	}
	return false
}

// Assign sets or clears the staff member handling a ticket.
func (s *TicketService) Assign(ctx context.Context, actorID, id string, assigneeID *string) (*model.Ticket, error) {
	row, err := s.queries.UpdateTicketAssignee(ctx, id, assigneeID)
	if err != nil {
		return nil, err
	}

	ticket := dbTicketToModel(row)
	_ = s.bus.PublishUpdate("support_tickets", ticket)
	s.activity.Record(ctx, actorID, "ticket.assign", "ticket", id, map[string]interface{}{
		"assigned_to": assigneeID,
	})
	return ticket, nil
}

// SaveNotes updates the staff-only internal notes.
func (s *TicketService) SaveNotes(ctx context.Context, actorID, id, notes string) (*model.Ticket, error) {
	row, err := s.queries.UpdateTicketNotes(ctx, id, notes)
	if err != nil {
		return nil, err
	}

	ticket := dbTicketToModel(row)
	_ = s.bus.PublishUpdate("support_tickets", ticket)
	return ticket, nil
}

// Reply appends a message to the ticket conversation and notifies the
// reporter unless they wrote the reply themselves.
func (s *TicketService) Reply(ctx context.Context, authorID, ticketID, message string) (*model.TicketReply, error) {
	ticket, err := s.queries.GetTicketByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	row, err := s.queries.CreateTicketReply(ctx, ulid.Make().String(), ticketID, authorID, message)
	if err != nil {
		return nil, fmt.Errorf("failed to create reply: %w", err)
	}

	reply := dbReplyToModel(row)
	_ = s.bus.PublishInsert("ticket_replies", reply)

	if ticket.UserID != authorID {
		_, err := s.notifications.Notify(ctx, ticket.UserID,
			"Neue Antwort",
			fmt.Sprintf("Neue Antwort zu Ticket: %s", ticket.Subject),
			"support_reply")
		if err != nil {
			return nil, fmt.Errorf("failed to notify reporter: %w", err)
		}
	}
	return reply, nil
}

func (s *TicketService) Replies(ctx context.Context, ticketID string) ([]*model.TicketReply, error) {
	rows, err := s.queries.ListTicketReplies(ctx, ticketID)
	if err != nil {
		return nil, fmt.Errorf("failed to list replies: %w", err)
	}
	out := make([]*model.TicketReply, len(rows))
	for i, row := range rows {
		out[i] = dbReplyToModel(row)
	}
	return out, nil
}

// Delete removes a ticket and its conversation.
func (s *TicketService) Delete(ctx context.Context, actorID, id string) error {
	if err := s.queries.DeleteTicket(ctx, id); err != nil {
		return err
	}
	_ = s.bus.PublishDelete("support_tickets", id)
	s.activity.Record(ctx, actorID, "ticket.delete", "ticket", id, nil)
	return nil
}
