package persist

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ent0n29/taskboard/internal/board"
)

// SQLiteStore is the default embedded backend. The database file lives
// next to the user, scoped to this machine only.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, opErr("open", fmt.Errorf("empty database path"))
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, opErr("open", err)
		}
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", path))
	if err != nil {
		return nil, opErr("open", err)
	}
	// Serialize access through a single connection; the saver already
	// guarantees one write at a time.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// migrate is idempotent: reopening an initialized database must not alter
// existing data. The status and created_at indexes are part of the schema
// contract even though no current query goes through them by name.
func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS tasks (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			priority TEXT NULL,
			due_date TIMESTAMP NULL,
			created_at TIMESTAMP NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_created_at ON tasks(created_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return opErr("migrate", err)
		}
	}

	var version int
	err := s.db.QueryRow(`SELECT version FROM schema_version LIMIT 1`).Scan(&version)
	switch {
	case err == sql.ErrNoRows:
		if _, err := s.db.Exec(`INSERT INTO schema_version(version) VALUES(?)`, schemaVersion); err != nil {
			return opErr("migrate", err)
		}
	case err != nil:
		return opErr("migrate", err)
	case version > schemaVersion:
		return opErr("migrate", fmt.Errorf("database schema version %d is newer than supported %d", version, schemaVersion))
	case version < schemaVersion:
		// Future bumps hook in here, then re-stamp the version row.
		if _, err := s.db.Exec(`UPDATE schema_version SET version = ?`, schemaVersion); err != nil {
			return opErr("migrate", err)
		}
	}
	return nil
}

func (s *SQLiteStore) SaveAll(ctx context.Context, tasks []board.Task) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return opErr("save", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks`); err != nil {
		return opErr("save", err)
	}
	for _, t := range tasks {
		var priority sql.NullString
		if t.Priority != nil {
			priority = sql.NullString{String: string(*t.Priority), Valid: true}
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO tasks(id, title, description, status, priority, due_date, created_at)
			 VALUES(?, ?, ?, ?, ?, ?, ?)`,
			t.ID, t.Title, t.Description, string(t.Status), priority, t.DueDate, t.CreatedAt.UTC(),
		)
		if err != nil {
			return opErr("save", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return opErr("save", err)
	}
	return nil
}

func (s *SQLiteStore) LoadAll(ctx context.Context) ([]board.Task, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, description, status, priority, due_date, created_at
		   FROM tasks ORDER BY created_at ASC`)
	if err != nil {
		return []board.Task{}, opErr("load", err)
	}
	defer rows.Close()

	out := make([]board.Task, 0, 16)
	for rows.Next() {
		var (
			t        board.Task
			status   string
			priority sql.NullString
			due      sql.NullTime
			created  time.Time
		)
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &status, &priority, &due, &created); err != nil {
			return []board.Task{}, opErr("load", err)
		}
		t.Status = board.Status(status)
		if priority.Valid {
			p := board.Priority(priority.String)
			t.Priority = &p
		}
		if due.Valid {
			d := due.Time.UTC()
			t.DueDate = &d
		}
		t.CreatedAt = created.UTC()
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return []board.Task{}, opErr("load", err)
	}
	return out, nil
}

func (s *SQLiteStore) ClearAll(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return opErr("clear", err)
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks`); err != nil {
		return opErr("clear", err)
	}
	if err := tx.Commit(); err != nil {
		return opErr("clear", err)
	}
	return nil
}

func (s *SQLiteStore) Mode() string { return "sqlite" }

func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
