package service

import (
	"bytes"
	"encoding/csv"
	"encoding/json"

	"botdock/internal/model"
)

// RenderActivityCSV renders audit entries as CSV with a header row,
// matching the columns the dashboard export offers.
func RenderActivityCSV(logs []*model.ActivityLog) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	_ = w.Write([]string{"timestamp", "user", "action", "entity_type", "entity_id", "details"})
	for _, l := range logs {
		details := ""
		if len(l.Details) > 0 {
			if b, err := json.Marshal(l.Details); err == nil {
				details = string(b)
			}
		}
		entityID := ""
		if l.EntityID != nil {
			entityID = *l.EntityID
		}
		_ = w.Write([]string{l.CreatedAt, l.ActorEmail, l.Action, l.EntityType, entityID, details})
	}

	w.Flush()
	return buf.Bytes()
}
