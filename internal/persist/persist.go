// Package persist stores the full task collection in a local database.
// Every write replaces the whole collection inside one transaction, so a
// crash mid-write can never leave a partial board behind.
package persist

import (
	"context"
	"fmt"

	"github.com/ent0n29/taskboard/internal/board"
)

// schemaVersion is the single-integer version stamp written on first init.
// Bumps go through migrate() in each backend.
const schemaVersion = 1

// Store is the save-all/load-all/clear-all contract over the task
// collection. Implementations hold no task state of their own.
type Store interface {
	// SaveAll atomically replaces the persisted collection with tasks.
	SaveAll(ctx context.Context, tasks []board.Task) error
	// LoadAll returns the full persisted collection. A fresh database
	// yields an empty slice, not an error.
	LoadAll(ctx context.Context) ([]board.Task, error)
	// ClearAll empties the persisted collection.
	ClearAll(ctx context.Context) error
	// Mode names the backend for health reporting.
	Mode() string
	Close() error
}

// Error wraps a storage failure with the operation that produced it.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("persist: %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func opErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}
