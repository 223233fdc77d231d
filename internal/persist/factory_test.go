package persist

import (
	"context"
	"path/filepath"
	"testing"
)

func TestNewStoreSelectsBackend(t *testing.T) {
	ctx := context.Background()

	s, err := NewStore(ctx, "", "")
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	if got := s.Mode(); got != "in-memory" {
		t.Fatalf("Mode() = %q, want in-memory", got)
	}

	s, err = NewStore(ctx, "", filepath.Join(t.TempDir(), "board.db"))
	if err != nil {
		t.Fatalf("NewStore() sqlite error = %v", err)
	}
	defer s.Close()
	if got := s.Mode(); got != "sqlite" {
		t.Fatalf("Mode() = %q, want sqlite", got)
	}
}
