package canvas

import "sync"

// MemorySnapshotStore keeps per-project session snapshots for the lifetime of
// the process. It is the default SnapshotStore.
type MemorySnapshotStore struct {
	mu   sync.RWMutex
	data map[int64]SessionSnapshot
}

// NewMemorySnapshotStore creates an empty snapshot store.
func NewMemorySnapshotStore() *MemorySnapshotStore {
	return &MemorySnapshotStore{data: make(map[int64]SessionSnapshot)}
}

// Put replaces the snapshot for a project.
func (s *MemorySnapshotStore) Put(projectID int64, snap SessionSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[projectID] = snap
}

// Get returns the snapshot for a project, if one exists.
func (s *MemorySnapshotStore) Get(projectID int64) (SessionSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.data[projectID]
	return snap, ok
}

// Clear drops the snapshot for a project.
func (s *MemorySnapshotStore) Clear(projectID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, projectID)
}
