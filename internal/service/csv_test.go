package service

import (
	"bytes"
	"encoding/csv"
	"testing"

	"botdock/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderActivityCSV(t *testing.T) {
	entityID := "bot_01"
	logs := []*model.ActivityLog{
		{
			ID:         "l1",
			Action:     "bots.toggle",
			EntityType: "bot",
			EntityID:   &entityID,
			Details:    map[string]interface{}{"status": "online"},
			ActorEmail: "admin@botdock.dev",
			CreatedAt:  "2025-03-01T10:00:00Z",
		},
		{
			ID:         "l2",
			Action:     "auth.login",
			EntityType: "profile",
			ActorEmail: "dev@botdock.dev",
			CreatedAt:  "2025-03-01T10:05:00Z",
		},
	}

	out := RenderActivityCSV(logs)
	rows, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"timestamp", "user", "action", "entity_type", "entity_id", "details"}, rows[0])
	assert.Equal(t, []string{"2025-03-01T10:00:00Z", "admin@botdock.dev", "bots.toggle", "bot", "bot_01", `{"status":"online"}`}, rows[1])
	assert.Equal(t, "", rows[2][4], "missing entity id renders empty")
	assert.Equal(t, "", rows[2][5], "missing details render empty")
}

func TestRenderActivityCSV_Empty(t *testing.T) {
	out := RenderActivityCSV(nil)
	rows, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1, "header only")
}
