package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClosed(t *testing.T) {
	assert.True(t, closed("completed"))
	assert.True(t, closed("resolved"))
	assert.False(t, closed("scheduled"))
	assert.False(t, closed("in_progress"))
	assert.False(t, closed(""))
}

func TestIncidentParams_OpenDropsOutcome(t *testing.T) {
	svc := &IncidentService{}
	end := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	p := svc.params("inc_1", IncidentInput{
		Title:           "Gateway upgrade",
		Status:          "in_progress",
		Impact:          "major",
		EndTime:         &end,
		CompletionNotes: "draft notes",
		CreatedBy:       "u1",
	})

	assert.Nil(t, p.EndTime, "open incidents carry no end time")
	assert.Nil(t, p.CompletionNotes)
	assert.Equal(t, "Gateway upgrade", p.Title)
}

func TestIncidentParams_ClosedKeepsOutcome(t *testing.T) {
	svc := &IncidentService{}
	end := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	p := svc.params("inc_1", IncidentInput{
		Title:           "Gateway upgrade",
		Status:          "completed",
		Impact:          "major",
		EndTime:         &end,
		CompletionNotes: "rolled out cleanly",
		CreatedBy:       "u1",
	})

	require.NotNil(t, p.EndTime)
	assert.Equal(t, end, *p.EndTime)
	require.NotNil(t, p.CompletionNotes)
	assert.Equal(t, "rolled out cleanly", *p.CompletionNotes)
}

func TestIncidentService_CreateAndUpdate(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	bus := &MockEventBus{}
	svc := NewIncidentService(pool.Queries, bus, newTestActivity(pool, bus))
	staff := createTestProfile(t, pool, "staff1", "admin")

	start := time.Now().UTC().Truncate(time.Second)
	incident, err := svc.Create(ctx, IncidentInput{
		Title:     "Gateway upgrade",
		StartTime: &start,
		CreatedBy: staff,
	})
	require.NoError(t, err)
	assert.Equal(t, "scheduled", string(incident.Status))
	assert.Equal(t, "minor", string(incident.Impact))
	assert.Equal(t, 1, bus.count("insert", "maintenance_logs"))

	// Outcome fields persist only once the incident is closed
	end := start.Add(2 * time.Hour)
	updated, err := svc.Update(ctx, staff, incident.ID, IncidentInput{
		Title:           "Gateway upgrade",
		Status:          "in_progress",
		Impact:          "major",
		StartTime:       &start,
		EndTime:         &end,
		CompletionNotes: "draft",
		CreatedBy:       staff,
	})
	require.NoError(t, err)
	assert.Nil(t, updated.EndTime)
	assert.Nil(t, updated.CompletionNotes)

	done, err := svc.Update(ctx, staff, incident.ID, IncidentInput{
		Title:           "Gateway upgrade",
		Status:          "completed",
		Impact:          "major",
		StartTime:       &start,
		EndTime:         &end,
		CompletionNotes: "rolled out cleanly",
		CreatedBy:       staff,
	})
	require.NoError(t, err)
	require.NotNil(t, done.EndTime)
	require.NotNil(t, done.CompletionNotes)
	assert.Equal(t, "rolled out cleanly", *done.CompletionNotes)
}
