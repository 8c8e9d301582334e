package sync

import "encoding/json"

// ChangeType identifies the kind of row-level change carried by an event.
type ChangeType string

const (
	ChangeInsert ChangeType = "insert"
	ChangeUpdate ChangeType = "update"
	ChangeDelete ChangeType = "delete"
)

// Change is a typed row-level change notification for one collection. For
// insert and update the Record field carries the full new row; for delete
// only the old row's identifier is meaningful.
type Change struct {
	Type       ChangeType      `json:"type"`
	Collection string          `json:"collection"`
	Record     json.RawMessage `json:"record,omitempty"`
	OldID      string          `json:"old_id,omitempty"`
}

// Record is implemented by every synchronized entity.
type Record interface {
	RecordID() string
}

// Decode unmarshals the change payload into a concrete record type.
func Decode[T Record](c Change) (T, error) {
	var rec T
	err := json.Unmarshal(c.Record, &rec)
	return rec, err
}
