package api

import (
	"encoding/json"
	"net/http"

	"botdock/internal/auth"
	"botdock/internal/model"
	"botdock/internal/schema"
	"botdock/internal/service"

	"github.com/go-chi/chi/v5"
)

// listTickets returns every ticket for staff and only the caller's own
// tickets for everyone else.
func (d Dependencies) listTickets(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	limit := parseLimit(r, 50, 200)

	var tickets []*model.Ticket
	var err error
	if auth.GetRole(ctx).IsStaff() {
		tickets, err = d.Tickets.List(ctx, limit)
	} else {
		tickets, err = d.Tickets.ListByUser(ctx, auth.GetUserID(ctx), limit)
	}
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "query_failed", err.Error(), d.Log)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"tickets": tickets})
}

func (d Dependencies) createTicket(w http.ResponseWriter, r *http.Request) {
	var input service.CreateTicketInput
	if err := decodeValidated(r.Context(), d.Schemas, r.Body, schema.TicketPayload, &input); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error(), d.Log)
		return
	}
	input.UserID = auth.GetUserID(r.Context())

	ticket, err := d.Tickets.Create(r.Context(), input)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "create_failed", err.Error(), d.Log)
		return
	}
	writeJSON(w, http.StatusCreated, ticket)
}

func (d Dependencies) getTicket(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ticket, err := d.Tickets.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		if isNotFound(err) {
			WriteError(w, http.StatusNotFound, "not_found", "Ticket not found", d.Log)
			return
		}
		WriteError(w, http.StatusInternalServerError, "query_failed", err.Error(), d.Log)
		return
	}

	// Reporters can only read their own tickets
	if !auth.GetRole(ctx).IsStaff() && ticket.UserID != auth.GetUserID(ctx) {
		WriteError(w, http.StatusForbidden, "forbidden", "Not your ticket", d.Log)
		return
	}
	writeJSON(w, http.StatusOK, ticket)
}

func (d Dependencies) changeTicketStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid request body", d.Log)
		return
	}
	switch model.TicketStatus(body.Status) {
	case model.TicketStatusOpen, model.TicketStatusInProgress, model.TicketStatusResolved, model.TicketStatusClosed:
	default:
		WriteError(w, http.StatusBadRequest, "invalid_request", "Unknown status: "+body.Status, d.Log)
		return
	}

	ticket, err := d.Tickets.ChangeStatus(r.Context(), auth.GetUserID(r.Context()), chi.URLParam(r, "id"), body.Status)
	if err != nil {
		if isNotFound(err) {
			WriteError(w, http.StatusNotFound, "not_found", "Ticket not found", d.Log)
			return
		}
		WriteError(w, http.StatusInternalServerError, "update_failed", err.Error(), d.Log)
		return
	}
	writeJSON(w, http.StatusOK, ticket)
}

func (d Dependencies) assignTicket(w http.ResponseWriter, r *http.Request) {
	var body struct {
		AssignedTo *string `json:"assigned_to"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid request body", d.Log)
		return
	}

	ticket, err := d.Tickets.Assign(r.Context(), auth.GetUserID(r.Context()), chi.URLParam(r, "id"), body.AssignedTo)
	if err != nil {
		if isNotFound(err) {
			WriteError(w, http.StatusNotFound, "not_found", "Ticket not found", d.Log)
			return
		}
		WriteError(w, http.StatusInternalServerError, "update_failed", err.Error(), d.Log)
		return
	}
	writeJSON(w, http.StatusOK, ticket)
}

func (d Dependencies) saveTicketNotes(w http.ResponseWriter, r *http.Request) {
	var body struct {
		InternalNotes string `json:"internal_notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid request body", d.Log)
		return
	}

	ticket, err := d.Tickets.SaveNotes(r.Context(), auth.GetUserID(r.Context()), chi.URLParam(r, "id"), body.InternalNotes)
	if err != nil {
		if isNotFound(err) {
			WriteError(w, http.StatusNotFound, "not_found", "Ticket not found", d.Log)
			return
		}
		WriteError(w, http.StatusInternalServerError, "update_failed", err.Error(), d.Log)
		return
	}
	writeJSON(w, http.StatusOK, ticket)
}

func (d Dependencies) deleteTicket(w http.ResponseWriter, r *http.Request) {
	err := d.Tickets.Delete(r.Context(), auth.GetUserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		if isNotFound(err) {
			WriteError(w, http.StatusNotFound, "not_found", "Ticket not found", d.Log)
			return
		}
		WriteError(w, http.StatusInternalServerError, "delete_failed", err.Error(), d.Log)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (d Dependencies) listReplies(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ticketID := chi.URLParam(r, "id")

	ticket, err := d.Tickets.Get(ctx, ticketID)
	if err != nil {
		if isNotFound(err) {
			WriteError(w, http.StatusNotFound, "not_found", "Ticket not found", d.Log)
			return
		}
		WriteError(w, http.StatusInternalServerError, "query_failed", err.Error(), d.Log)
		return
	}
	if !auth.GetRole(ctx).IsStaff() && ticket.UserID != auth.GetUserID(ctx) {
		WriteError(w, http.StatusForbidden, "forbidden", "Not your ticket", d.Log)
		return
	}

	replies, err := d.Tickets.Replies(ctx, ticketID)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "query_failed", err.Error(), d.Log)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"replies": replies})
}

func (d Dependencies) createReply(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Message string `json:"message"`
	}
	if err := decodeValidated(r.Context(), d.Schemas, r.Body, schema.ReplyPayload, &body); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error(), d.Log)
		return
	}

	reply, err := d.Tickets.Reply(r.Context(), auth.GetUserID(r.Context()), chi.URLParam(r, "id"), body.Message)
	if err != nil {
		if isNotFound(err) {
			WriteError(w, http.StatusNotFound, "not_found", "Ticket not found", d.Log)
			return
		}
		WriteError(w, http.StatusInternalServerError, "create_failed", err.Error(), d.Log)
		return
	}
	writeJSON(w, http.StatusCreated, reply)
}
