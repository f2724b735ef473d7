package live

import (
	"sync"

	"github.com/nickkhg/rewind/internal/store"
)

// SnapshotStore holds at most one pending merge snapshot per board. Each
// merge overwrites the board's entry, so only the most recent merge is
// undoable.
type SnapshotStore struct {
	mu        sync.RWMutex
	snapshots map[string]store.MergeSnapshot
}

func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{snapshots: make(map[string]store.MergeSnapshot)}
}

func (s *SnapshotStore) Put(boardID string, snapshot store.MergeSnapshot) {
	s.mu.Lock()
	s.snapshots[boardID] = snapshot
	s.mu.Unlock()
}

// Take removes and returns the board's snapshot, if any.
func (s *SnapshotStore) Take(boardID string) (store.MergeSnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot, ok := s.snapshots[boardID]
	if ok {
		delete(s.snapshots, boardID)
	}
	return snapshot, ok
}

func (s *SnapshotStore) Drop(boardID string) {
	s.mu.Lock()
	delete(s.snapshots, boardID)
	s.mu.Unlock()
}
