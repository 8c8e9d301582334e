package sync

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRec struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

func (r testRec) RecordID() string { return r.ID }

func rec(id, name string) testRec {
	return testRec{ID: id, Name: name}
}

func TestStore_ApplyInsert(t *testing.T) {
	s := NewStore[testRec](0)
	s.ApplyInsert(rec("a", "first"))
	s.ApplyInsert(rec("b", "second"))

	snap := s.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "b", snap[0].ID, "newest record should be first")
	assert.Equal(t, "a", snap[1].ID)
}

func TestStore_ApplyInsert_DuplicateID(t *testing.T) {
	s := NewStore[testRec](0)
	s.ApplyInsert(rec("a", "first"))
	s.ApplyInsert(rec("b", "second"))
	s.ApplyInsert(rec("a", "replayed"))

	snap := s.Snapshot()
	require.Len(t, snap, 2, "replayed insert must not duplicate the id")
	assert.Equal(t, "a", snap[0].ID)
	assert.Equal(t, "replayed", snap[0].Name)
	assert.Equal(t, "b", snap[1].ID)
}

func TestStore_ApplyUpdate(t *testing.T) {
	s := NewStore[testRec](0)
	s.ApplyInsert(rec("a", "first"))
	s.ApplyInsert(rec("b", "second"))

	s.ApplyUpdate(rec("a", "renamed"))

	got, ok := s.Get("a")
	require.True(t, ok)
	assert.Equal(t, "renamed", got.Name)

	snap := s.Snapshot()
	assert.Equal(t, "b", snap[0].ID, "update must not reorder records")
}

func TestStore_ApplyUpdate_UnknownID(t *testing.T) {
	s := NewStore[testRec](0)
	s.ApplyInsert(rec("a", "first"))

	s.ApplyUpdate(rec("missing", "ghost"))

	assert.Equal(t, 1, s.Len())
	_, ok := s.Get("missing")
	assert.False(t, ok, "update for an unknown id must not insert it")
}

func TestStore_ApplyDelete(t *testing.T) {
	s := NewStore[testRec](0)
	s.ApplyInsert(rec("a", "first"))
	s.ApplyInsert(rec("b", "second"))

	s.ApplyDelete("a")
	assert.Equal(t, 1, s.Len())
	_, ok := s.Get("a")
	assert.False(t, ok)

	// deleting again is a no-op
	s.ApplyDelete("a")
	assert.Equal(t, 1, s.Len())
}

func TestStore_CapTrimsOldest(t *testing.T) {
	s := NewStore[testRec](3)
	for i := 0; i < 5; i++ {
		s.ApplyInsert(rec(fmt.Sprintf("r%d", i), "x"))
	}

	snap := s.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, "r4", snap[0].ID)
	assert.Equal(t, "r2", snap[2].ID, "oldest records past cap are dropped")
}

func TestStore_Reset(t *testing.T) {
	s := NewStore[testRec](0)
	s.ApplyInsert(rec("stale", "x"))
	require.True(t, s.Stage(rec("stale", "tentative")))

	s.Reset([]testRec{rec("a", "first"), rec("b", "second")})

	assert.Equal(t, 2, s.Len())
	_, ok := s.Get("stale")
	assert.False(t, ok)

	// staged state was cleared, so rollback has nothing to restore
	s.Rollback("stale")
	assert.Equal(t, 2, s.Len())
}

func TestStore_StageCommit(t *testing.T) {
	s := NewStore[testRec](0)
	s.ApplyInsert(testRec{ID: "a", Name: "bot", Status: "offline"})

	require.True(t, s.Stage(testRec{ID: "a", Name: "bot", Status: "starting"}))

	got, _ := s.Get("a")
	assert.Equal(t, "starting", got.Status, "tentative state is visible immediately")

	s.Commit(testRec{ID: "a", Name: "bot", Status: "online"})
	got, _ = s.Get("a")
	assert.Equal(t, "online", got.Status)

	// after commit there is no snapshot left to roll back to
	s.Rollback("a")
	got, _ = s.Get("a")
	assert.Equal(t, "online", got.Status)
}

func TestStore_StageRollback(t *testing.T) {
	s := NewStore[testRec](0)
	s.ApplyInsert(testRec{ID: "a", Name: "bot", Status: "offline"})

	require.True(t, s.Stage(testRec{ID: "a", Name: "bot", Status: "starting"}))
	// a second stage before resolution must keep the original snapshot
	require.True(t, s.Stage(testRec{ID: "a", Name: "bot", Status: "maintenance"}))

	s.Rollback("a")
	got, _ := s.Get("a")
	assert.Equal(t, "offline", got.Status, "rollback restores the last confirmed state")
}

func TestStore_StageUnknownID(t *testing.T) {
	s := NewStore[testRec](0)
	assert.False(t, s.Stage(rec("missing", "x")))
	assert.Equal(t, 0, s.Len())
}

func TestApply(t *testing.T) {
	s := NewStore[testRec](0)

	ins, err := json.Marshal(testRec{ID: "a", Name: "bot", Status: "offline"})
	require.NoError(t, err)
	require.NoError(t, Apply(s, Change{Type: ChangeInsert, Collection: "bots", Record: ins}))
	assert.Equal(t, 1, s.Len())

	upd, err := json.Marshal(testRec{ID: "a", Name: "bot", Status: "online"})
	require.NoError(t, err)
	require.NoError(t, Apply(s, Change{Type: ChangeUpdate, Collection: "bots", Record: upd}))
	got, _ := s.Get("a")
	assert.Equal(t, "online", got.Status)

	require.NoError(t, Apply(s, Change{Type: ChangeDelete, Collection: "bots", OldID: "a"}))
	assert.Equal(t, 0, s.Len())
}

func TestApply_BadPayload(t *testing.T) {
	s := NewStore[testRec](0)
	err := Apply(s, Change{Type: ChangeInsert, Record: json.RawMessage(`{not json`)})
	assert.Error(t, err)
	assert.Equal(t, 0, s.Len())
}
