// Package sync maintains dashboard-side collection state: an id-keyed,
// most-recent-first slice of records patched in place by realtime change
// events instead of refetched wholesale. Reducing is pure with respect to
// the transport, so state transitions can be tested without a live feed.
package sync

import "sync"

// Store holds one view's local copy of a collection. Records are ordered
// most-recent-first; identity is the record id, and an update always
// replaces the whole record, never merges into it.
type Store[T Record] struct {
	mu      sync.RWMutex
	records []T
	staged  map[string]T // id -> last confirmed state, while a mutation is in flight
	cap     int
}

// NewStore creates an empty store. cap > 0 bounds the collection to the
// most recent cap records (the activity feed keeps 100); cap <= 0 is
// unbounded.
func NewStore[T Record](cap int) *Store[T] {
	return &Store[T]{
		staged: make(map[string]T),
		cap:    cap,
	}
}

// Reset replaces the whole collection, e.g. after an initial fetch or a
// rollback-via-refetch. It clears any staged optimistic state.
func (s *Store[T]) Reset(records []T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records[:0:0], records...)
	s.staged = make(map[string]T)
	s.trim()
}

// ApplyInsert prepends a record. If the id is already present the existing
// record is replaced and moved to the front, so the id appears exactly once.
func (s *Store[T]) ApplyInsert(rec T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(rec.RecordID())
	s.records = append([]T{rec}, s.records...)
	s.trim()
}

// ApplyUpdate replaces the record sharing the same id in place. An update
// for an id not held locally is a no-op.
func (s *Store[T]) ApplyUpdate(rec T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if s.records[i].RecordID() == rec.RecordID() {
			s.records[i] = rec
			return
		}
	}
}

// ApplyDelete removes the record with the given id. Absent ids are a no-op.
func (s *Store[T]) ApplyDelete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(id)
	delete(s.staged, id)
}

// Stage applies a tentative record state ahead of remote confirmation,
// remembering the last confirmed state for rollback. Staging an id not held
// locally is a no-op and returns false.
func (s *Store[T]) Stage(rec T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := rec.RecordID()
	for i := range s.records {
		if s.records[i].RecordID() == id {
			if _, pending := s.staged[id]; !pending {
				s.staged[id] = s.records[i]
			}
			s.records[i] = rec
			return true
		}
	}
	return false
}

// Commit replaces the tentative state with the confirmed record and drops
// the rollback snapshot.
func (s *Store[T]) Commit(rec T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := rec.RecordID()
	delete(s.staged, id)
	for i := range s.records {
		if s.records[i].RecordID() == id {
			s.records[i] = rec
			return
		}
	}
}

// Rollback discards the tentative state for an id and restores the last
// confirmed snapshot. No-op if nothing is staged for the id.
func (s *Store[T]) Rollback(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.staged[id]
	if !ok {
		return
	}
	delete(s.staged, id)
	for i := range s.records {
		if s.records[i].RecordID() == id {
			s.records[i] = prev
			return
		}
	}
}

// Get returns the record with the given id.
func (s *Store[T]) Get(id string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.records {
		if s.records[i].RecordID() == id {
			return s.records[i], true
		}
	}
	var zero T
	return zero, false
}

// Snapshot returns a copy of the collection in display order.
func (s *Store[T]) Snapshot() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append(s.records[:0:0], s.records...)
}

// Len returns the number of held records.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Apply routes a decoded change event to the matching reducer.
func Apply[T Record](s *Store[T], c Change) error {
	switch c.Type {
	case ChangeInsert:
		rec, err := Decode[T](c)
		if err != nil {
			return err
		}
		s.ApplyInsert(rec)
	case ChangeUpdate:
		rec, err := Decode[T](c)
		if err != nil {
			return err
		}
		s.ApplyUpdate(rec)
	case ChangeDelete:
		s.ApplyDelete(c.OldID)
	}
	return nil
}

func (s *Store[T]) removeLocked(id string) {
	for i := range s.records {
		if s.records[i].RecordID() == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return
		}
	}
}

func (s *Store[T]) trim() {
	if s.cap > 0 && len(s.records) > s.cap {
		s.records = s.records[:s.cap]
	}
}
