package persist

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/ent0n29/taskboard/internal/board"
)

func newSQLiteTestStore(t *testing.T, path string) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStoreFreshDatabaseIsEmpty(t *testing.T) {
	s := newSQLiteTestStore(t, filepath.Join(t.TempDir(), "board.db"))
	got, err := s.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("fresh database len = %d, want 0", len(got))
	}
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	s := newSQLiteTestStore(t, filepath.Join(t.TempDir(), "board.db"))
	ctx := context.Background()

	medium := board.PriorityMedium
	due := time.Date(2025, 7, 15, 18, 30, 0, 0, time.UTC)
	created := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	tasks := []board.Task{
		{ID: "a", Title: "with everything", Description: "body", Status: board.StatusInProgress, Priority: &medium, DueDate: &due, CreatedAt: created},
		{ID: "b", Title: "bare", Status: board.StatusTodo, CreatedAt: created.Add(time.Hour)},
	}
	if err := s.SaveAll(ctx, tasks); err != nil {
		t.Fatalf("SaveAll() error = %v", err)
	}

	got, err := s.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	a := got[0]
	if a.ID != "a" || a.Title != "with everything" || a.Description != "body" || a.Status != board.StatusInProgress {
		t.Fatalf("loaded task = %+v", a)
	}
	if a.Priority == nil || *a.Priority != board.PriorityMedium {
		t.Fatalf("Priority = %v, want medium", a.Priority)
	}
	if a.DueDate == nil || !a.DueDate.Equal(due) {
		t.Fatalf("DueDate = %v, want %v", a.DueDate, due)
	}
	if !a.CreatedAt.Equal(created) {
		t.Fatalf("CreatedAt = %v, want %v", a.CreatedAt, created)
	}
	b := got[1]
	if b.Priority != nil || b.DueDate != nil {
		t.Fatalf("NULL columns should load as unset: %+v", b)
	}
}

func TestSQLiteStoreSaveAllReplacesWholeCollection(t *testing.T) {
	s := newSQLiteTestStore(t, filepath.Join(t.TempDir(), "board.db"))
	ctx := context.Background()
	now := time.Now().UTC()

	first := []board.Task{
		{ID: "a", Title: "one", Status: board.StatusTodo, CreatedAt: now},
		{ID: "b", Title: "two", Status: board.StatusTodo, CreatedAt: now.Add(time.Second)},
	}
	if err := s.SaveAll(ctx, first); err != nil {
		t.Fatalf("SaveAll() error = %v", err)
	}

	second := []board.Task{{ID: "c", Title: "only", Status: board.StatusDone, CreatedAt: now.Add(2 * time.Second)}}
	if err := s.SaveAll(ctx, second); err != nil {
		t.Fatalf("SaveAll() error = %v", err)
	}

	got, err := s.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != "c" {
		t.Fatalf("loaded = %+v, want just c", got)
	}
}

func TestSQLiteStoreReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.db")
	ctx := context.Background()
	now := time.Now().UTC()

	s := newSQLiteTestStore(t, path)
	if err := s.SaveAll(ctx, []board.Task{{ID: "a", Title: "survivor", Status: board.StatusTodo, CreatedAt: now}}); err != nil {
		t.Fatalf("SaveAll() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	// Reopening must migrate idempotently and keep the rows.
	reopened := newSQLiteTestStore(t, path)
	got, err := reopened.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll() after reopen error = %v", err)
	}
	if len(got) != 1 || got[0].Title != "survivor" {
		t.Fatalf("loaded after reopen = %+v", got)
	}
}

func TestSQLiteStoreClearAll(t *testing.T) {
	s := newSQLiteTestStore(t, filepath.Join(t.TempDir(), "board.db"))
	ctx := context.Background()

	if err := s.SaveAll(ctx, []board.Task{{ID: "a", Title: "gone soon", Status: board.StatusTodo, CreatedAt: time.Now().UTC()}}); err != nil {
		t.Fatalf("SaveAll() error = %v", err)
	}
	if err := s.ClearAll(ctx); err != nil {
		t.Fatalf("ClearAll() error = %v", err)
	}
	got, err := s.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("len after clear = %d, want 0", len(got))
	}
}

func TestSQLiteStoreCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "board.db")
	s := newSQLiteTestStore(t, path)
	if got := s.Mode(); got != "sqlite" {
		t.Fatalf("Mode() = %q, want %q", got, "sqlite")
	}
}
