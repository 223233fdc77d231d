package persist

import (
	"context"
	"sync"

	"github.com/ent0n29/taskboard/internal/board"
)

// MemoryStore holds the collection in process memory. Used by tests and as
// the fallback when no database is configured; data does not survive a
// restart.
type MemoryStore struct {
	mu    sync.RWMutex
	tasks []board.Task
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tasks: []board.Task{}}
}

func (s *MemoryStore) SaveAll(_ context.Context, tasks []board.Task) error {
	snapshot := make([]board.Task, 0, len(tasks))
	for _, t := range tasks {
		snapshot = append(snapshot, t.Clone())
	}
	s.mu.Lock()
	s.tasks = snapshot
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) LoadAll(_ context.Context) ([]board.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]board.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, t.Clone())
	}
	return out, nil
}

func (s *MemoryStore) ClearAll(_ context.Context) error {
	s.mu.Lock()
	s.tasks = []board.Task{}
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Mode() string { return "in-memory" }

func (s *MemoryStore) Close() error { return nil }
