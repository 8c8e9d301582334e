package service

import (
	"context"
	"fmt"
	"time"

	"botdock/internal/db"
	"botdock/internal/model"

	"github.com/oklog/ulid/v2"
)

type IncidentService struct {
	queries  *db.Queries
	bus      EventBus
	activity *ActivityService
}

func NewIncidentService(queries *db.Queries, bus EventBus, activity *ActivityService) *IncidentService {
	return &IncidentService{
		queries:  queries,
		bus:      bus,
		activity: activity,
	}
}

type IncidentInput struct {
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	Status          string     `json:"status"`
	Impact          string     `json:"impact"`
	StartTime       *time.Time `json:"start_time,omitempty"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	CompletionNotes string     `json:"completion_notes,omitempty"`
	CreatedBy       string
}

// closed reports whether the incident status carries an outcome.
// End time and completion notes are only persisted for closed incidents.
func closed(status string) bool {
	return status == string(model.IncidentStatusCompleted) ||
		status == string(model.IncidentStatusResolved)
}

func (s *IncidentService) params(id string, input IncidentInput) db.UpsertIncidentParams {
	p := db.UpsertIncidentParams{
		ID:          id,
		Title:       input.Title,
		Description: strPtr(input.Description),
		Status:      input.Status,
		Impact:      input.Impact,
		StartTime:   input.StartTime,
		CreatedBy:   input.CreatedBy,
	}
	if closed(input.Status) {
		p.EndTime = input.EndTime
		p.CompletionNotes = strPtr(input.CompletionNotes)
	}
	return p
}

func (s *IncidentService) Create(ctx context.Context, input IncidentInput) (*model.Incident, error) {
	if input.Status == "" {
		input.Status = string(model.IncidentStatusScheduled)
	}
	if input.Impact == "" {
		input.Impact = string(model.IncidentImpactMinor)
	}

	row, err := s.queries.CreateIncident(ctx, s.params(ulid.Make().String(), input))
	if err != nil {
		return nil, fmt.Errorf("failed to create incident: %w", err)
	}

	incident := dbIncidentToModel(row)
	_ = s.bus.PublishInsert("maintenance_logs", incident)
	s.activity.Record(ctx, input.CreatedBy, "maintenance.create", "incident", incident.ID, map[string]interface{}{
		"title":  incident.Title,
		"impact": string(incident.Impact),
	})
	return incident, nil
}

func (s *IncidentService) Update(ctx context.Context, actorID, id string, input IncidentInput) (*model.Incident, error) {
	row, err := s.queries.UpdateIncident(ctx, s.params(id, input))
	if err != nil {
		return nil, err
	}

	incident := dbIncidentToModel(row)
	_ = s.bus.PublishUpdate("maintenance_logs", incident)
	s.activity.Record(ctx, actorID, "maintenance.update", "incident", id, map[string]interface{}{
		"status": string(incident.Status),
	})
	return incident, nil
}

func (s *IncidentService) Get(ctx context.Context, id string) (*model.Incident, error) {
	row, err := s.queries.GetIncidentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return dbIncidentToModel(row), nil
}

func (s *IncidentService) List(ctx context.Context, limit int) ([]*model.Incident, error) {
	rows, err := s.queries.ListIncidents(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list incidents: %w", err)
	}
	incidents := make([]*model.Incident, len(rows))
	for i, row := range rows {
		incidents[i] = dbIncidentToModel(row)
	}
	return incidents, nil
}

func (s *IncidentService) Delete(ctx context.Context, actorID, id string) error {
	if err := s.queries.DeleteIncident(ctx, id); err != nil {
		return err
	}
	_ = s.bus.PublishDelete("maintenance_logs", id)
	s.activity.Record(ctx, actorID, "maintenance.delete", "incident", id, nil)
	return nil
}
