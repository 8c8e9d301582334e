package service

import (
	"botdock/internal/db"
	"botdock/internal/model"
)

func dbBotToModel(b db.Bot) *model.Bot {
	out := &model.Bot{
		ID:          b.ID,
		OwnerID:     b.OwnerID,
		Name:        b.Name,
		Language:    b.Language,
		Framework:   b.Framework,
		Status:      model.BotStatus(b.Status),
		MemoryUsage: b.MemoryUsage,
		Uptime:      b.Uptime,
		UsersCount:  b.UsersCount,
		CreatedAt:   model.FormatTime(b.CreatedAt),
		UpdatedAt:   model.FormatTime(b.UpdatedAt),
	}
	if b.Description != nil {
		out.Description = *b.Description
	}
	if b.Code != nil {
		out.Code = *b.Code
	}
	return out
}

func dbIncidentToModel(i db.Incident) *model.Incident {
	out := &model.Incident{
		ID:              i.ID,
		Title:           i.Title,
		Status:          model.IncidentStatus(i.Status),
		Impact:          model.IncidentImpact(i.Impact),
		StartTime:       model.FormatTimePtr(i.StartTime),
		EndTime:         model.FormatTimePtr(i.EndTime),
		CompletionNotes: i.CompletionNotes,
		CreatedBy:       i.CreatedBy,
		CreatedAt:       model.FormatTime(i.CreatedAt),
	}
	if i.Description != nil {
		out.Description = *i.Description
	}
	if i.CreatorName != nil {
		out.CreatorName = *i.CreatorName
	}
	return out
}

func dbTicketToModel(t db.Ticket) *model.Ticket {
	out := &model.Ticket{
		ID:            t.ID,
		UserID:        t.UserID,
		Subject:       t.Subject,
		Status:        model.TicketStatus(t.Status),
		Priority:      model.TicketPriority(t.Priority),
		AssignedTo:    t.AssignedTo,
		InternalNotes: t.InternalNotes,
		AssigneeName:  t.AssigneeName,
		CreatedAt:     model.FormatTime(t.CreatedAt),
		UpdatedAt:     model.FormatTime(t.UpdatedAt),
	}
	if t.Message != nil {
		out.Message = *t.Message
	}
	if t.ReporterName != nil {
		out.ReporterName = *t.ReporterName
	}
	if t.ReporterEmail != nil {
		out.ReporterEmail = *t.ReporterEmail
	}
	return out
}

func dbReplyToModel(r db.TicketReply) *model.TicketReply {
	out := &model.TicketReply{
		ID:        r.ID,
		TicketID:  r.TicketID,
		UserID:    r.UserID,
		Message:   r.Message,
		CreatedAt: model.FormatTime(r.CreatedAt),
	}
	if r.AuthorName != nil {
		out.AuthorName = *r.AuthorName
	}
	if r.AuthorRole != nil {
		out.AuthorRole = model.Role(*r.AuthorRole)
	}
	return out
}

func dbNotificationToModel(n db.Notification) *model.Notification {
	return &model.Notification{
		ID:        n.ID,
		UserID:    n.UserID,
		Title:     n.Title,
		Message:   n.Message,
		Type:      n.Type,
		IsRead:    n.IsRead,
		CreatedAt: model.FormatTime(n.CreatedAt),
	}
}

func dbActivityToModel(a db.ActivityLog) *model.ActivityLog {
	out := &model.ActivityLog{
		ID:        a.ID,
		UserID:    a.UserID,
		Action:    a.Action,
		EntityID:  a.EntityID,
		Details:   a.Details,
		CreatedAt: model.FormatTime(a.CreatedAt),
	}
	if a.EntityType != nil {
		out.EntityType = *a.EntityType
	}
	if a.ActorEmail != nil {
		out.ActorEmail = *a.ActorEmail
	}
	return out
}

func dbProfileToModel(p db.Profile) *model.Profile {
	out := &model.Profile{
		ID:        p.ID,
		Email:     p.Email,
		AvatarURL: p.AvatarURL,
		Role:      model.Role(p.Role),
		IsBanned:  p.IsBanned,
		CreatedAt: model.FormatTime(p.CreatedAt),
	}
	if p.FullName != nil {
		out.FullName = *p.FullName
	}
	return out
}

func dbAPIKeyToModel(k db.APIKey) *model.APIKey {
	return &model.APIKey{
		ID:        k.ID,
		UserID:    k.UserID,
		Name:      k.Name,
		KeyPrefix: k.KeyPrefix,
		CreatedAt: model.FormatTime(k.CreatedAt),
	}
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
